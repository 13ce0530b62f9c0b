package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"memoria-backend/internal/models"
)

// Store interfaces consumed by the services. Every operation takes the
// caller's user id so queries stay owner-scoped; the pgx repositories in
// internal/repository are the production implementations.

type FlashcardStore interface {
	GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Flashcard, error)
	ListForSession(ctx context.Context, userID uuid.UUID, ids []uuid.UUID, limit int) ([]models.SessionFlashcard, error)
	IncrementCorrectCount(ctx context.Context, id, userID uuid.UUID) error
}

type ReviewStore interface {
	Upsert(ctx context.Context, rev *models.FlashcardReview) error
	DueFlashcardIDs(ctx context.Context, userID uuid.UUID, before time.Time) ([]uuid.UUID, error)
	CountDistinctDue(ctx context.Context, userID uuid.UUID, before time.Time) (int, error)
	DueCountsByDay(ctx context.Context, userID uuid.UUID, from, to time.Time) (map[string]int, error)
	SessionOutcomes(ctx context.Context, sessionID, userID uuid.UUID) (reviewed, correct int, err error)
	WindowOutcomes(ctx context.Context, userID uuid.UUID, from, to time.Time) (reviewed, correct int, err error)
}

type SessionStore interface {
	Create(ctx context.Context, s *models.LearningSession) error
	GetByID(ctx context.Context, id, userID uuid.UUID) (*models.LearningSession, error)
	RecordAnswer(ctx context.Context, id, userID uuid.UUID, correct bool) error
	Finish(ctx context.Context, id, userID uuid.UUID, endedAt time.Time, reviewed, correct, incorrect int) error
}
