package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"memoria-backend/internal/models"
)

type ReviewRepo struct {
	pool *pgxpool.Pool
}

func NewReviewRepo(pool *pgxpool.Pool) *ReviewRepo {
	return &ReviewRepo{pool: pool}
}

// Upsert overwrites the schedule row for (flashcard, user). The latest
// submission always wins; stale future due-dates cannot linger.
func (r *ReviewRepo) Upsert(ctx context.Context, rev *models.FlashcardReview) error {
	query := `
		INSERT INTO flashcard_reviews (flashcard_id, user_id, difficulty_rating, is_correct, reviewed_at, next_review_at, session_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (flashcard_id, user_id) DO UPDATE
		SET difficulty_rating = EXCLUDED.difficulty_rating,
			is_correct = EXCLUDED.is_correct,
			reviewed_at = EXCLUDED.reviewed_at,
			next_review_at = EXCLUDED.next_review_at,
			session_id = EXCLUDED.session_id`

	_, err := r.pool.Exec(ctx, query,
		rev.FlashcardID, rev.UserID, rev.Rating.String(), rev.IsCorrect,
		rev.ReviewedAt, rev.NextReviewAt, rev.SessionID,
	)
	return err
}

// DueFlashcardIDs returns the distinct flashcards with a review due at or
// before the given instant. DISTINCT keeps the due set free of double counts.
func (r *ReviewRepo) DueFlashcardIDs(ctx context.Context, userID uuid.UUID, before time.Time) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT flashcard_id
		FROM flashcard_reviews
		WHERE user_id = $1
		  AND next_review_at <= $2`,
		userID, before)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *ReviewRepo) CountDistinctDue(ctx context.Context, userID uuid.UUID, before time.Time) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(DISTINCT flashcard_id)
		FROM flashcard_reviews
		WHERE user_id = $1
		  AND next_review_at <= $2`,
		userID, before).Scan(&count)
	return count, err
}

// DueCountsByDay buckets distinct due flashcards by UTC calendar day over
// [from, to). Days with no due cards are absent; callers fill the gaps.
func (r *ReviewRepo) DueCountsByDay(ctx context.Context, userID uuid.UUID, from, to time.Time) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT to_char(next_review_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day,
		       COUNT(DISTINCT flashcard_id)
		FROM flashcard_reviews
		WHERE user_id = $1
		  AND next_review_at >= $2
		  AND next_review_at < $3
		GROUP BY day`,
		userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var day string
		var count int
		if err := rows.Scan(&day, &count); err != nil {
			return nil, err
		}
		counts[day] = count
	}
	return counts, rows.Err()
}

// SessionOutcomes aggregates the reviews linked to one session.
func (r *ReviewRepo) SessionOutcomes(ctx context.Context, sessionID, userID uuid.UUID) (reviewed, correct int, err error) {
	err = r.pool.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE is_correct)
		FROM flashcard_reviews
		WHERE session_id = $1
		  AND user_id = $2`,
		sessionID, userID).Scan(&reviewed, &correct)
	return reviewed, correct, err
}

// WindowOutcomes aggregates a user's reviews inside a time window. Used as a
// fallback when per-review session linkage was degraded.
func (r *ReviewRepo) WindowOutcomes(ctx context.Context, userID uuid.UUID, from, to time.Time) (reviewed, correct int, err error) {
	err = r.pool.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE is_correct)
		FROM flashcard_reviews
		WHERE user_id = $1
		  AND reviewed_at >= $2
		  AND reviewed_at <= $3`,
		userID, from, to).Scan(&reviewed, &correct)
	return reviewed, correct, err
}
