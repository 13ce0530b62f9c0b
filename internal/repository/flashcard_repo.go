package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"memoria-backend/internal/models"
)

type FlashcardRepo struct {
	pool *pgxpool.Pool
}

func NewFlashcardRepo(pool *pgxpool.Pool) *FlashcardRepo {
	return &FlashcardRepo{pool: pool}
}

func (r *FlashcardRepo) Create(ctx context.Context, f *models.Flashcard) error {
	f.ID = uuid.New()

	query := `INSERT INTO flashcards (id, user_id, front_content, back_content, is_ai_generated, correct_answers_count)
		VALUES ($1, $2, $3, $4, $5, 0) RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		f.ID, f.UserID, f.FrontContent, f.BackContent, f.IsAIGenerated,
	).Scan(&f.CreatedAt)
}

// CreateBatch saves a set of accepted flashcards for one user.
func (r *FlashcardRepo) CreateBatch(ctx context.Context, userID uuid.UUID, cards []models.FlashcardToAccept) ([]models.Flashcard, error) {
	saved := make([]models.Flashcard, 0, len(cards))
	for _, card := range cards {
		f := models.Flashcard{
			ID:            uuid.New(),
			UserID:        userID,
			FrontContent:  card.FrontContent,
			BackContent:   card.BackContent,
			IsAIGenerated: card.IsAIGenerated,
		}

		err := r.pool.QueryRow(ctx,
			`INSERT INTO flashcards (id, user_id, front_content, back_content, is_ai_generated, correct_answers_count)
			 VALUES ($1, $2, $3, $4, $5, 0) RETURNING created_at`,
			f.ID, f.UserID, f.FrontContent, f.BackContent, f.IsAIGenerated,
		).Scan(&f.CreatedAt)
		if err != nil {
			return nil, err
		}
		saved = append(saved, f)
	}
	return saved, nil
}

func (r *FlashcardRepo) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Flashcard, error) {
	f := &models.Flashcard{}
	query := `SELECT id, user_id, front_content, back_content, is_ai_generated, correct_answers_count, created_at
		FROM flashcards WHERE id = $1 AND user_id = $2`

	err := r.pool.QueryRow(ctx, query, id, userID).Scan(
		&f.ID, &f.UserID, &f.FrontContent, &f.BackContent, &f.IsAIGenerated, &f.CorrectAnswersCount, &f.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (r *FlashcardRepo) List(ctx context.Context, userID uuid.UUID, q models.FlashcardsQuery) ([]models.Flashcard, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM flashcards WHERE user_id = $1", userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	// Sort column and direction are validated by the handler before reaching here.
	orderBy := q.SortBy
	if q.SortDir == "desc" {
		orderBy += " DESC"
	}
	offset := (q.Page - 1) * q.PerPage

	query := `SELECT id, user_id, front_content, back_content, is_ai_generated, correct_answers_count, created_at
		FROM flashcards WHERE user_id = $1 ORDER BY ` + orderBy + ` LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, userID, q.PerPage, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	flashcards := []models.Flashcard{}
	for rows.Next() {
		f := models.Flashcard{}
		err := rows.Scan(&f.ID, &f.UserID, &f.FrontContent, &f.BackContent, &f.IsAIGenerated, &f.CorrectAnswersCount, &f.CreatedAt)
		if err != nil {
			return nil, 0, err
		}
		flashcards = append(flashcards, f)
	}
	return flashcards, total, rows.Err()
}

// ListForSession returns the minimal front-only projection for a learning
// session. A nil ids slice means all of the user's flashcards are eligible.
func (r *FlashcardRepo) ListForSession(ctx context.Context, userID uuid.UUID, ids []uuid.UUID, limit int) ([]models.SessionFlashcard, error) {
	var rows pgx.Rows
	var err error

	if ids == nil {
		rows, err = r.pool.Query(ctx,
			`SELECT id, front_content FROM flashcards WHERE user_id = $1 ORDER BY created_at LIMIT $2`,
			userID, limit)
	} else {
		rows, err = r.pool.Query(ctx,
			`SELECT id, front_content FROM flashcards WHERE user_id = $1 AND id = ANY($2) ORDER BY created_at LIMIT $3`,
			userID, ids, limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cards := []models.SessionFlashcard{}
	for rows.Next() {
		c := models.SessionFlashcard{}
		if err := rows.Scan(&c.ID, &c.FrontContent); err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

func (r *FlashcardRepo) Delete(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, "DELETE FROM flashcards WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *FlashcardRepo) IncrementCorrectCount(ctx context.Context, id, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		"UPDATE flashcards SET correct_answers_count = correct_answers_count + 1 WHERE id = $1 AND user_id = $2",
		id, userID)
	return err
}
