package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"memoria-backend/internal/models"
)

type LearningSessionRepo struct {
	pool *pgxpool.Pool
}

func NewLearningSessionRepo(pool *pgxpool.Pool) *LearningSessionRepo {
	return &LearningSessionRepo{pool: pool}
}

func (r *LearningSessionRepo) Create(ctx context.Context, s *models.LearningSession) error {
	s.ID = uuid.New()

	query := `
		INSERT INTO learning_sessions (id, user_id, started_at, flashcards_count, flashcards_reviewed, correct_answers, incorrect_answers, is_due_only)
		VALUES ($1, $2, $3, $4, 0, 0, 0, $5)`

	_, err := r.pool.Exec(ctx, query,
		s.ID, s.UserID, s.StartedAt, s.FlashcardsCount, s.IsDueOnly,
	)
	return err
}

func (r *LearningSessionRepo) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.LearningSession, error) {
	s := &models.LearningSession{}
	query := `SELECT id, user_id, started_at, ended_at, flashcards_count, flashcards_reviewed, correct_answers, incorrect_answers, is_due_only
		FROM learning_sessions WHERE id = $1 AND user_id = $2`

	err := r.pool.QueryRow(ctx, query, id, userID).Scan(
		&s.ID, &s.UserID, &s.StartedAt, &s.EndedAt, &s.FlashcardsCount,
		&s.FlashcardsReviewed, &s.CorrectAnswers, &s.IncorrectAnswers, &s.IsDueOnly,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// RecordAnswer bumps the session counters for one review. A single UPDATE so
// concurrent reviews in the same session rely on row atomicity only.
func (r *LearningSessionRepo) RecordAnswer(ctx context.Context, id, userID uuid.UUID, correct bool) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE learning_sessions
		SET flashcards_reviewed = flashcards_reviewed + 1,
			correct_answers = correct_answers + CASE WHEN $3 THEN 1 ELSE 0 END,
			incorrect_answers = incorrect_answers + CASE WHEN $3 THEN 0 ELSE 1 END
		WHERE id = $1
		  AND user_id = $2
		  AND ended_at IS NULL`,
		id, userID, correct)
	return err
}

func (r *LearningSessionRepo) Finish(ctx context.Context, id, userID uuid.UUID, endedAt time.Time, reviewed, correct, incorrect int) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE learning_sessions
		SET ended_at = $3,
			flashcards_reviewed = $4,
			correct_answers = $5,
			incorrect_answers = $6
		WHERE id = $1
		  AND user_id = $2
		  AND ended_at IS NULL`,
		id, userID, endedAt, reviewed, correct, incorrect)
	return err
}
