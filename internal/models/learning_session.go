package models

import (
	"time"

	"github.com/google/uuid"
)

type LearningSession struct {
	ID                 uuid.UUID  `json:"id"`
	UserID             uuid.UUID  `json:"user_id"`
	StartedAt          time.Time  `json:"started_at"`
	EndedAt            *time.Time `json:"ended_at,omitempty"`
	FlashcardsCount    int        `json:"flashcards_count"`
	FlashcardsReviewed int        `json:"flashcards_reviewed"`
	CorrectAnswers     int        `json:"correct_answers"`
	IncorrectAnswers   int        `json:"incorrect_answers"`
	IsDueOnly          bool       `json:"is_due_only"`
}

type StartSessionRequest struct {
	Limit   int  `json:"limit"`
	OnlyDue bool `json:"only_due"`
}

// SessionFlashcard is the minimal projection handed out at session start.
// Back content is withheld until the card is fetched for review.
type SessionFlashcard struct {
	ID           uuid.UUID `json:"id"`
	FrontContent string    `json:"front_content"`
}

type StartSessionResponse struct {
	SessionID  *uuid.UUID         `json:"session_id"`
	Flashcards []SessionFlashcard `json:"flashcards"`
}

type SessionSummary struct {
	FlashcardsReviewed   int `json:"flashcards_reviewed"`
	CorrectAnswers       int `json:"correct_answers"`
	IncorrectAnswers     int `json:"incorrect_answers"`
	CompletionPercentage int `json:"completion_percentage"`
	DurationSeconds      int `json:"duration_seconds"`
}

type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type DueNextWeek struct {
	Total int        `json:"total"`
	ByDay []DayCount `json:"by_day"`
}

type DueForecast struct {
	DueToday    int         `json:"due_today"`
	DueNextWeek DueNextWeek `json:"due_next_week"`
}
