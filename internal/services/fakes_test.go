package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"memoria-backend/internal/models"
)

// In-memory store fakes used by the review and learning service tests.

type reviewKey struct {
	flashcardID uuid.UUID
	userID      uuid.UUID
}

type fakeFlashcardStore struct {
	cards        map[uuid.UUID]*models.Flashcard
	sessionCards []models.SessionFlashcard
	listErr      error
	listIDs      []uuid.UUID
	listCalled   bool
	incErr       error
	incremented  []uuid.UUID
}

func newFakeFlashcardStore() *fakeFlashcardStore {
	return &fakeFlashcardStore{cards: make(map[uuid.UUID]*models.Flashcard)}
}

func (f *fakeFlashcardStore) GetByID(_ context.Context, id, userID uuid.UUID) (*models.Flashcard, error) {
	c, ok := f.cards[id]
	if !ok || c.UserID != userID {
		return nil, pgx.ErrNoRows
	}
	return c, nil
}

func (f *fakeFlashcardStore) ListForSession(_ context.Context, _ uuid.UUID, ids []uuid.UUID, limit int) ([]models.SessionFlashcard, error) {
	f.listCalled = true
	f.listIDs = ids
	if f.listErr != nil {
		return nil, f.listErr
	}

	selected := f.sessionCards
	if ids != nil {
		wanted := make(map[uuid.UUID]bool, len(ids))
		for _, id := range ids {
			wanted[id] = true
		}
		selected = nil
		for _, c := range f.sessionCards {
			if wanted[c.ID] {
				selected = append(selected, c)
			}
		}
	}
	if len(selected) > limit {
		selected = selected[:limit]
	}
	return selected, nil
}

func (f *fakeFlashcardStore) IncrementCorrectCount(_ context.Context, id, _ uuid.UUID) error {
	if f.incErr != nil {
		return f.incErr
	}
	f.incremented = append(f.incremented, id)
	return nil
}

type fakeReviewStore struct {
	upserts   map[reviewKey]*models.FlashcardReview
	upsertErr error

	dueIDs []uuid.UUID
	dueErr error

	dueCount int

	dayCounts map[string]int
	dayFrom   time.Time
	dayTo     time.Time

	sessionReviewed int
	sessionCorrect  int

	windowReviewed int
	windowCorrect  int
	windowCalled   bool
	windowFrom     time.Time
	windowTo       time.Time
}

func newFakeReviewStore() *fakeReviewStore {
	return &fakeReviewStore{upserts: make(map[reviewKey]*models.FlashcardReview)}
}

func (f *fakeReviewStore) Upsert(_ context.Context, rev *models.FlashcardReview) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	cp := *rev
	f.upserts[reviewKey{rev.FlashcardID, rev.UserID}] = &cp
	return nil
}

func (f *fakeReviewStore) DueFlashcardIDs(_ context.Context, _ uuid.UUID, _ time.Time) ([]uuid.UUID, error) {
	if f.dueErr != nil {
		return nil, f.dueErr
	}
	return f.dueIDs, nil
}

func (f *fakeReviewStore) CountDistinctDue(_ context.Context, _ uuid.UUID, _ time.Time) (int, error) {
	return f.dueCount, nil
}

func (f *fakeReviewStore) DueCountsByDay(_ context.Context, _ uuid.UUID, from, to time.Time) (map[string]int, error) {
	f.dayFrom = from
	f.dayTo = to
	return f.dayCounts, nil
}

func (f *fakeReviewStore) SessionOutcomes(_ context.Context, _, _ uuid.UUID) (int, int, error) {
	return f.sessionReviewed, f.sessionCorrect, nil
}

func (f *fakeReviewStore) WindowOutcomes(_ context.Context, _ uuid.UUID, from, to time.Time) (int, int, error) {
	f.windowCalled = true
	f.windowFrom = from
	f.windowTo = to
	return f.windowReviewed, f.windowCorrect, nil
}

type fakeSessionStore struct {
	sessions    map[uuid.UUID]*models.LearningSession
	createErr   error
	created     []*models.LearningSession
	answerErr   error
	answers     []bool
	finishErr   error
	finishCalls int
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[uuid.UUID]*models.LearningSession)}
}

func (f *fakeSessionStore) Create(_ context.Context, s *models.LearningSession) error {
	if f.createErr != nil {
		return f.createErr
	}
	s.ID = uuid.New()
	f.sessions[s.ID] = s
	f.created = append(f.created, s)
	return nil
}

func (f *fakeSessionStore) GetByID(_ context.Context, id, userID uuid.UUID) (*models.LearningSession, error) {
	s, ok := f.sessions[id]
	if !ok || s.UserID != userID {
		return nil, pgx.ErrNoRows
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSessionStore) RecordAnswer(_ context.Context, _, _ uuid.UUID, correct bool) error {
	if f.answerErr != nil {
		return f.answerErr
	}
	f.answers = append(f.answers, correct)
	return nil
}

func (f *fakeSessionStore) Finish(_ context.Context, id, _ uuid.UUID, endedAt time.Time, reviewed, correct, incorrect int) error {
	if f.finishErr != nil {
		return f.finishErr
	}
	f.finishCalls++
	if s, ok := f.sessions[id]; ok {
		s.EndedAt = &endedAt
		s.FlashcardsReviewed = reviewed
		s.CorrectAnswers = correct
		s.IncorrectAnswers = incorrect
	}
	return nil
}
