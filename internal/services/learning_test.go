package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"memoria-backend/internal/models"
)

func newLearningServiceForTest(flashcards *fakeFlashcardStore, reviews *fakeReviewStore, sessions *fakeSessionStore, now time.Time) *LearningService {
	svc := NewLearningService(flashcards, reviews, sessions)
	svc.now = func() time.Time { return now }
	return svc
}

func sessionCard(front string) models.SessionFlashcard {
	return models.SessionFlashcard{ID: uuid.New(), FrontContent: front}
}

func TestStart_NoDueCardsMeansNoSession(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	sessions := newFakeSessionStore()
	svc := newLearningServiceForTest(newFakeFlashcardStore(), newFakeReviewStore(), sessions, now)

	resp, err := svc.Start(context.Background(), uuid.New(), models.StartSessionRequest{Limit: 20, OnlyDue: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.SessionID != nil {
		t.Errorf("expected nil session id, got %v", resp.SessionID)
	}
	if len(resp.Flashcards) != 0 {
		t.Errorf("expected empty flashcard list, got %d", len(resp.Flashcards))
	}
	if len(sessions.created) != 0 {
		t.Error("no session row may be created for an empty selection")
	}
}

func TestStart_CreatesSessionWithSelectionSize(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()

	flashcards := newFakeFlashcardStore()
	flashcards.sessionCards = []models.SessionFlashcard{sessionCard("a"), sessionCard("b"), sessionCard("c")}
	sessions := newFakeSessionStore()
	svc := newLearningServiceForTest(flashcards, newFakeReviewStore(), sessions, now)

	resp, err := svc.Start(context.Background(), userID, models.StartSessionRequest{Limit: 20, OnlyDue: false})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.SessionID == nil {
		t.Fatal("expected a session id")
	}
	if len(resp.Flashcards) != 3 {
		t.Fatalf("expected 3 flashcards, got %d", len(resp.Flashcards))
	}

	created := sessions.created[0]
	if created.FlashcardsCount != 3 {
		t.Errorf("expected flashcards_count 3, got %d", created.FlashcardsCount)
	}
	if created.IsDueOnly {
		t.Error("expected is_due_only false")
	}
	if !created.StartedAt.Equal(now) {
		t.Errorf("expected started_at %v, got %v", now, created.StartedAt)
	}
}

func TestStart_SessionInsertFailureStillReturnsCards(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	flashcards := newFakeFlashcardStore()
	flashcards.sessionCards = []models.SessionFlashcard{sessionCard("a")}
	sessions := newFakeSessionStore()
	sessions.createErr = errors.New("sessions table unavailable")
	svc := newLearningServiceForTest(flashcards, newFakeReviewStore(), sessions, now)

	resp, err := svc.Start(context.Background(), uuid.New(), models.StartSessionRequest{Limit: 20})
	if err != nil {
		t.Fatalf("reviewing must stay possible without session tracking, got %v", err)
	}
	if resp.SessionID != nil {
		t.Error("expected nil session id after failed session insert")
	}
	if len(resp.Flashcards) != 1 {
		t.Errorf("expected the selected flashcards regardless, got %d", len(resp.Flashcards))
	}
}

func TestSelectForSession_DeduplicatesDueRows(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	cardA := sessionCard("a")
	cardB := sessionCard("b")

	flashcards := newFakeFlashcardStore()
	flashcards.sessionCards = []models.SessionFlashcard{cardA, cardB}
	reviews := newFakeReviewStore()
	reviews.dueIDs = []uuid.UUID{cardA.ID, cardA.ID, cardB.ID, cardA.ID}
	svc := newLearningServiceForTest(flashcards, reviews, newFakeSessionStore(), now)

	cards, err := svc.SelectForSession(context.Background(), uuid.New(), models.StartSessionRequest{Limit: 20, OnlyDue: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cards) != 2 {
		t.Fatalf("expected 2 unique flashcards, got %d", len(cards))
	}
	if len(flashcards.listIDs) != 2 {
		t.Errorf("expected deduplicated ids passed to the store, got %d", len(flashcards.listIDs))
	}
	seen := map[uuid.UUID]bool{}
	for _, c := range cards {
		if seen[c.ID] {
			t.Errorf("flashcard %s returned twice", c.ID)
		}
		seen[c.ID] = true
	}
}

func TestSelectForSession_OnlyDueFalseTakesAllOwned(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	flashcards := newFakeFlashcardStore()
	flashcards.sessionCards = []models.SessionFlashcard{sessionCard("a"), sessionCard("b")}
	svc := newLearningServiceForTest(flashcards, newFakeReviewStore(), newFakeSessionStore(), now)

	cards, err := svc.SelectForSession(context.Background(), uuid.New(), models.StartSessionRequest{Limit: 20})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cards) != 2 {
		t.Errorf("expected all owned flashcards, got %d", len(cards))
	}
	if flashcards.listIDs != nil {
		t.Error("expected no id filter when only_due is false")
	}
}

func TestEnd_ComputesSummary(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()

	sessions := newFakeSessionStore()
	session := &models.LearningSession{UserID: userID, StartedAt: now.Add(-90 * time.Second), FlashcardsCount: 4}
	sessions.Create(context.Background(), session)

	reviews := newFakeReviewStore()
	reviews.sessionReviewed = 3
	reviews.sessionCorrect = 2

	svc := newLearningServiceForTest(newFakeFlashcardStore(), reviews, sessions, now)

	summary, err := svc.End(context.Background(), userID, session.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.FlashcardsReviewed != 3 || summary.CorrectAnswers != 2 || summary.IncorrectAnswers != 1 {
		t.Errorf("unexpected counts: %+v", summary)
	}
	if summary.CompletionPercentage != 75 {
		t.Errorf("expected 75%% completion, got %d", summary.CompletionPercentage)
	}
	if summary.DurationSeconds != 90 {
		t.Errorf("expected 90s duration, got %d", summary.DurationSeconds)
	}
	if sessions.finishCalls != 1 {
		t.Errorf("expected the session to be closed once, got %d", sessions.finishCalls)
	}
}

func TestEnd_FallsBackToTimeWindow(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()

	sessions := newFakeSessionStore()
	session := &models.LearningSession{UserID: userID, StartedAt: now.Add(-2 * time.Minute), FlashcardsCount: 2}
	sessions.Create(context.Background(), session)

	// No reviews carry the session id; the window recount must kick in.
	reviews := newFakeReviewStore()
	reviews.windowReviewed = 2
	reviews.windowCorrect = 1

	svc := newLearningServiceForTest(newFakeFlashcardStore(), reviews, sessions, now)

	summary, err := svc.End(context.Background(), userID, session.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reviews.windowCalled {
		t.Fatal("expected fallback aggregation over the session time window")
	}
	if !reviews.windowFrom.Equal(session.StartedAt) || !reviews.windowTo.Equal(now) {
		t.Errorf("window should span the session: got [%v, %v]", reviews.windowFrom, reviews.windowTo)
	}
	if summary.FlashcardsReviewed != 2 || summary.CorrectAnswers != 1 || summary.IncorrectAnswers != 1 {
		t.Errorf("unexpected counts: %+v", summary)
	}
}

func TestEnd_SecondEndReturnsStoredSummary(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()

	sessions := newFakeSessionStore()
	session := &models.LearningSession{UserID: userID, StartedAt: now.Add(-time.Minute), FlashcardsCount: 2}
	sessions.Create(context.Background(), session)

	reviews := newFakeReviewStore()
	reviews.sessionReviewed = 2
	reviews.sessionCorrect = 2

	svc := newLearningServiceForTest(newFakeFlashcardStore(), reviews, sessions, now)

	first, err := svc.End(context.Background(), userID, session.ID)
	if err != nil {
		t.Fatalf("first end failed: %v", err)
	}

	// Counters change after the close; the stored summary must win anyway.
	reviews.sessionReviewed = 99

	second, err := svc.End(context.Background(), userID, session.ID)
	if err != nil {
		t.Fatalf("second end failed: %v", err)
	}

	if *first != *second {
		t.Errorf("second end must return the same summary: %+v vs %+v", first, second)
	}
	if sessions.finishCalls != 1 {
		t.Errorf("statistics must not be re-applied, finish called %d times", sessions.finishCalls)
	}
}

func TestEnd_SessionNotOwned(t *testing.T) {
	now := time.Now()
	sessions := newFakeSessionStore()
	session := &models.LearningSession{UserID: uuid.New(), StartedAt: now}
	sessions.Create(context.Background(), session)

	svc := newLearningServiceForTest(newFakeFlashcardStore(), newFakeReviewStore(), sessions, now)

	_, err := svc.End(context.Background(), uuid.New(), session.ID)
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestGetSummary_DoesNotMutate(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()

	sessions := newFakeSessionStore()
	session := &models.LearningSession{
		UserID:             userID,
		StartedAt:          now.Add(-30 * time.Second),
		FlashcardsCount:    2,
		FlashcardsReviewed: 1,
		CorrectAnswers:     1,
	}
	sessions.Create(context.Background(), session)

	svc := newLearningServiceForTest(newFakeFlashcardStore(), newFakeReviewStore(), sessions, now)

	summary, err := svc.GetSummary(context.Background(), userID, session.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.DurationSeconds != 30 {
		t.Errorf("open session should be measured against now, got %d", summary.DurationSeconds)
	}
	if summary.CompletionPercentage != 50 {
		t.Errorf("expected 50%% completion, got %d", summary.CompletionPercentage)
	}
	if sessions.finishCalls != 0 {
		t.Error("summary read must not close the session")
	}
	if sessions.sessions[session.ID].EndedAt != nil {
		t.Error("summary read must not set ended_at")
	}
}

func TestSummary_ZeroFlashcardsCount(t *testing.T) {
	s := &models.LearningSession{StartedAt: time.Now()}
	summary := sessionSummary(s, s.StartedAt)
	if summary.CompletionPercentage != 0 {
		t.Errorf("expected 0%% for empty session, got %d", summary.CompletionPercentage)
	}
	if summary.DurationSeconds != 0 {
		t.Errorf("expected 0s duration, got %d", summary.DurationSeconds)
	}
}

func TestForecast_SevenBucketsZeroFilled(t *testing.T) {
	asOf := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

	reviews := newFakeReviewStore()
	reviews.dueCount = 4
	reviews.dayCounts = map[string]int{
		"2026-03-11": 2,
		"2026-03-14": 5,
	}

	svc := newLearningServiceForTest(newFakeFlashcardStore(), reviews, newFakeSessionStore(), asOf)

	forecast, err := svc.Forecast(context.Background(), uuid.New(), asOf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if forecast.DueToday != 4 {
		t.Errorf("expected due today 4, got %d", forecast.DueToday)
	}
	if len(forecast.DueNextWeek.ByDay) != 7 {
		t.Fatalf("expected exactly 7 day buckets, got %d", len(forecast.DueNextWeek.ByDay))
	}

	wantDates := []string{"2026-03-11", "2026-03-12", "2026-03-13", "2026-03-14", "2026-03-15", "2026-03-16", "2026-03-17"}
	total := 0
	for i, day := range forecast.DueNextWeek.ByDay {
		if day.Date != wantDates[i] {
			t.Errorf("bucket %d: expected date %s, got %s", i, wantDates[i], day.Date)
		}
		total += day.Count
	}
	if forecast.DueNextWeek.ByDay[0].Count != 2 || forecast.DueNextWeek.ByDay[3].Count != 5 {
		t.Errorf("day counts misplaced: %+v", forecast.DueNextWeek.ByDay)
	}
	if forecast.DueNextWeek.ByDay[1].Count != 0 {
		t.Error("empty days must be present with count 0")
	}
	if forecast.DueNextWeek.Total != total || total != 7 {
		t.Errorf("expected total %d == sum of buckets 7", forecast.DueNextWeek.Total)
	}
}

func TestForecast_WindowStartsTomorrowUTC(t *testing.T) {
	asOf := time.Date(2026, 3, 10, 23, 45, 0, 0, time.UTC)

	reviews := newFakeReviewStore()
	svc := newLearningServiceForTest(newFakeFlashcardStore(), reviews, newFakeSessionStore(), asOf)

	if _, err := svc.Forecast(context.Background(), uuid.New(), asOf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantFrom := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
	wantTo := time.Date(2026, 3, 18, 0, 0, 0, 0, time.UTC)
	if !reviews.dayFrom.Equal(wantFrom) {
		t.Errorf("expected window start %v, got %v", wantFrom, reviews.dayFrom)
	}
	if !reviews.dayTo.Equal(wantTo) {
		t.Errorf("expected window end %v, got %v", wantTo, reviews.dayTo)
	}
}
