package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"memoria-backend/internal/models"
)

const forecastDays = 7

// LearningService manages learning sessions and the due-count forecast.
type LearningService struct {
	flashcards FlashcardStore
	reviews    ReviewStore
	sessions   SessionStore
	now        func() time.Time
}

func NewLearningService(flashcards FlashcardStore, reviews ReviewStore, sessions SessionStore) *LearningService {
	return &LearningService{
		flashcards: flashcards,
		reviews:    reviews,
		sessions:   sessions,
		now:        time.Now,
	}
}

// SelectForSession picks the flashcards eligible for a session. With OnlyDue
// set, eligibility is "has at least one due review"; a card is never selected
// twice no matter how it was reviewed before. An empty result is a normal
// state, not an error.
func (s *LearningService) SelectForSession(ctx context.Context, userID uuid.UUID, opts models.StartSessionRequest) ([]models.SessionFlashcard, error) {
	var ids []uuid.UUID
	if opts.OnlyDue {
		dueIDs, err := s.reviews.DueFlashcardIDs(ctx, userID, s.now())
		if err != nil {
			return nil, fmt.Errorf("failed to fetch due flashcards: %w", err)
		}
		if len(dueIDs) == 0 {
			return []models.SessionFlashcard{}, nil
		}
		// A flashcard with several historic due rows still counts once.
		ids = uniqueIDs(dueIDs)
	}

	cards, err := s.flashcards.ListForSession(ctx, userID, ids, opts.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch flashcards: %w", err)
	}
	return cards, nil
}

// Start opens a learning session over the selected flashcards. No session row
// is created for an empty selection, and a failed session insert is not fatal:
// the cards are returned without tracking so the user can keep reviewing.
func (s *LearningService) Start(ctx context.Context, userID uuid.UUID, opts models.StartSessionRequest) (*models.StartSessionResponse, error) {
	cards, err := s.SelectForSession(ctx, userID, opts)
	if err != nil {
		return nil, err
	}

	resp := &models.StartSessionResponse{Flashcards: cards}
	if len(cards) == 0 {
		return resp, nil
	}

	session := &models.LearningSession{
		UserID:          userID,
		StartedAt:       s.now(),
		FlashcardsCount: len(cards),
		IsDueOnly:       opts.OnlyDue,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		log.Printf("learning: failed to create session for user %s, continuing untracked: %v", userID, err)
		return resp, nil
	}

	id := session.ID
	resp.SessionID = &id
	return resp, nil
}

// End closes a session and returns its summary. Statistics come from the
// reviews linked to the session; when linkage was degraded and no linked rows
// exist, the user's reviews inside the session window are counted instead.
// Ending an already-ended session returns the stored summary unchanged.
func (s *LearningService) End(ctx context.Context, userID, sessionID uuid.UUID) (*models.SessionSummary, error) {
	session, err := s.sessions.GetByID(ctx, sessionID, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "Session not found"}
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if session.EndedAt != nil {
		return sessionSummary(session, *session.EndedAt), nil
	}

	endedAt := s.now()

	reviewed, correct, err := s.reviews.SessionOutcomes(ctx, sessionID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate session reviews: %w", err)
	}
	if reviewed == 0 {
		reviewed, correct, err = s.reviews.WindowOutcomes(ctx, userID, session.StartedAt, endedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to aggregate reviews by window: %w", err)
		}
	}
	incorrect := reviewed - correct

	if err := s.sessions.Finish(ctx, sessionID, userID, endedAt, reviewed, correct, incorrect); err != nil {
		return nil, fmt.Errorf("failed to close session: %w", err)
	}

	session.FlashcardsReviewed = reviewed
	session.CorrectAnswers = correct
	session.IncorrectAnswers = incorrect
	return sessionSummary(session, endedAt), nil
}

// GetSummary is the read-only counterpart of End. Open sessions are summarized
// as of now; nothing is mutated.
func (s *LearningService) GetSummary(ctx context.Context, userID, sessionID uuid.UUID) (*models.SessionSummary, error) {
	session, err := s.sessions.GetByID(ctx, sessionID, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "Session not found"}
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	endedAt := s.now()
	if session.EndedAt != nil {
		endedAt = *session.EndedAt
	}
	return sessionSummary(session, endedAt), nil
}

// Forecast counts distinct due flashcards as of the given instant plus a
// seven-day per-calendar-day breakdown starting the day after. Day boundaries
// are UTC throughout; empty days are kept at zero so the caller can render
// seven bars without gaps.
func (s *LearningService) Forecast(ctx context.Context, userID uuid.UUID, asOf time.Time) (*models.DueForecast, error) {
	dueToday, err := s.reviews.CountDistinctDue(ctx, userID, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to count due flashcards: %w", err)
	}

	day := asOf.UTC()
	tomorrow := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	weekEnd := tomorrow.AddDate(0, 0, forecastDays)

	counts, err := s.reviews.DueCountsByDay(ctx, userID, tomorrow, weekEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to bucket due flashcards by day: %w", err)
	}

	byDay := make([]models.DayCount, 0, forecastDays)
	total := 0
	for i := 0; i < forecastDays; i++ {
		date := tomorrow.AddDate(0, 0, i).Format("2006-01-02")
		count := counts[date]
		total += count
		byDay = append(byDay, models.DayCount{Date: date, Count: count})
	}

	return &models.DueForecast{
		DueToday: dueToday,
		DueNextWeek: models.DueNextWeek{
			Total: total,
			ByDay: byDay,
		},
	}, nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func sessionSummary(session *models.LearningSession, endedAt time.Time) *models.SessionSummary {
	completion := 0
	if session.FlashcardsCount > 0 {
		completion = int(math.Round(float64(session.FlashcardsReviewed) / float64(session.FlashcardsCount) * 100))
	}

	duration := int(math.Round(endedAt.Sub(session.StartedAt).Seconds()))
	if duration < 0 {
		duration = 0
	}

	return &models.SessionSummary{
		FlashcardsReviewed:   session.FlashcardsReviewed,
		CorrectAnswers:       session.CorrectAnswers,
		IncorrectAnswers:     session.IncorrectAnswers,
		CompletionPercentage: completion,
		DurationSeconds:      duration,
	}
}
