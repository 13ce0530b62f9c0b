package models

import (
	"time"

	"github.com/google/uuid"
)

type Flashcard struct {
	ID                  uuid.UUID `json:"id"`
	UserID              uuid.UUID `json:"user_id"`
	FrontContent        string    `json:"front_content"`
	BackContent         string    `json:"back_content"`
	IsAIGenerated       bool      `json:"is_ai_generated"`
	CorrectAnswersCount int       `json:"correct_answers_count"`
	CreatedAt           time.Time `json:"created_at"`
}

type CreateFlashcardRequest struct {
	FrontContent string `json:"front_content"`
	BackContent  string `json:"back_content"`
}

type AcceptFlashcardsRequest struct {
	Flashcards []FlashcardToAccept `json:"flashcards"`
}

type FlashcardToAccept struct {
	FrontContent  string `json:"front_content"`
	BackContent   string `json:"back_content"`
	IsAIGenerated bool   `json:"is_ai_generated"`
}

type FlashcardsQuery struct {
	Page    int
	PerPage int
	SortBy  string
	SortDir string
}

type PaginationMeta struct {
	Total       int `json:"total"`
	Pages       int `json:"pages"`
	CurrentPage int `json:"current_page"`
	PerPage     int `json:"per_page"`
}

type FlashcardsPage struct {
	Data       []Flashcard    `json:"data"`
	Pagination PaginationMeta `json:"pagination"`
}

// FlashcardReview is the current schedule fact for a (flashcard, user) pair.
// There is at most one row per pair; submitting a review overwrites it.
type FlashcardReview struct {
	FlashcardID  uuid.UUID  `json:"flashcard_id"`
	UserID       uuid.UUID  `json:"user_id"`
	Rating       Rating     `json:"difficulty_rating"`
	IsCorrect    bool       `json:"is_correct"`
	ReviewedAt   time.Time  `json:"reviewed_at"`
	NextReviewAt time.Time  `json:"next_review_at"`
	SessionID    *uuid.UUID `json:"session_id,omitempty"`
}

type ReviewFlashcardRequest struct {
	Rating    Rating     `json:"difficulty_rating"`
	IsCorrect bool       `json:"is_correct"`
	SessionID *uuid.UUID `json:"session_id,omitempty"`
}

// ReviewResult reports the committed primary write plus any secondary
// bookkeeping that failed and was skipped.
type ReviewResult struct {
	NextReviewAt time.Time `json:"next_review_date"`
	Degraded     []string  `json:"-"`
}
