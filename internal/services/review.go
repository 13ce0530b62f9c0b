package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"memoria-backend/internal/models"
	"memoria-backend/internal/scheduler"
)

// ReviewService records review outcomes and schedules the next review.
// The review row is the primary write; session and flashcard counters are
// best-effort side effects reported through ReviewResult.Degraded.
type ReviewService struct {
	flashcards FlashcardStore
	reviews    ReviewStore
	sessions   SessionStore
	now        func() time.Time
}

func NewReviewService(flashcards FlashcardStore, reviews ReviewStore, sessions SessionStore) *ReviewService {
	return &ReviewService{
		flashcards: flashcards,
		reviews:    reviews,
		sessions:   sessions,
		now:        time.Now,
	}
}

func (s *ReviewService) Record(ctx context.Context, userID, flashcardID uuid.UUID, req models.ReviewFlashcardRequest) (*models.ReviewResult, error) {
	if !req.Rating.IsValid() {
		return nil, &ValidationError{Fields: map[string]string{
			"difficulty_rating": "must be one of dont_remember, hard, medium, easy",
		}}
	}

	if _, err := s.flashcards.GetByID(ctx, flashcardID, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "Flashcard not found"}
		}
		return nil, fmt.Errorf("failed to load flashcard: %w", err)
	}

	delay, err := scheduler.NextReviewDelay(req.Rating)
	if err != nil {
		return nil, &ValidationError{Fields: map[string]string{"difficulty_rating": err.Error()}}
	}

	now := s.now()
	result := &models.ReviewResult{NextReviewAt: now.Add(delay)}

	// A broken session link must never block review capture.
	sessionID := req.SessionID
	if sessionID != nil {
		if _, err := s.sessions.GetByID(ctx, *sessionID, userID); err != nil {
			log.Printf("review: session %s unusable for user %s, recording without linkage: %v", *sessionID, userID, err)
			result.Degraded = append(result.Degraded, "session_link")
			sessionID = nil
		}
	}

	rev := &models.FlashcardReview{
		FlashcardID:  flashcardID,
		UserID:       userID,
		Rating:       req.Rating,
		IsCorrect:    req.IsCorrect,
		ReviewedAt:   now,
		NextReviewAt: result.NextReviewAt,
		SessionID:    sessionID,
	}
	if err := s.reviews.Upsert(ctx, rev); err != nil {
		return nil, fmt.Errorf("failed to record review: %w", err)
	}

	if sessionID != nil {
		if err := s.sessions.RecordAnswer(ctx, *sessionID, userID, req.IsCorrect); err != nil {
			log.Printf("review: failed to update session %s counters: %v", *sessionID, err)
			result.Degraded = append(result.Degraded, "session_counters")
		}
	}

	if req.IsCorrect {
		if err := s.flashcards.IncrementCorrectCount(ctx, flashcardID, userID); err != nil {
			log.Printf("review: failed to increment correct count for flashcard %s: %v", flashcardID, err)
			result.Degraded = append(result.Degraded, "flashcard_counter")
		}
	}

	return result, nil
}
