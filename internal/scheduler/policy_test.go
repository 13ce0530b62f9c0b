package scheduler

import (
	"errors"
	"testing"
	"time"

	"memoria-backend/internal/models"
)

func TestNextReviewDelay(t *testing.T) {
	tests := []struct {
		name   string
		rating models.Rating
		want   time.Duration
	}{
		{"dont_remember is due immediately", models.RatingDontRemember, 0},
		{"hard", models.RatingHard, time.Minute},
		{"medium", models.RatingMedium, 2 * time.Minute},
		{"easy", models.RatingEasy, 3 * time.Minute},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NextReviewDelay(tc.rating)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestNextReviewDelay_MonotonicInRating(t *testing.T) {
	order := []models.Rating{
		models.RatingDontRemember,
		models.RatingHard,
		models.RatingMedium,
		models.RatingEasy,
	}

	prev := time.Duration(-1)
	for _, r := range order {
		d, err := NextReviewDelay(r)
		if err != nil {
			t.Fatalf("unexpected error for %v: %v", r, err)
		}
		if d < 0 {
			t.Errorf("delay for %v is negative: %v", r, d)
		}
		if d <= prev {
			t.Errorf("delay for %v (%v) is not greater than previous (%v)", r, d, prev)
		}
		prev = d
	}
}

func TestNextReviewDelay_UnknownRating(t *testing.T) {
	for _, r := range []models.Rating{0, 5, -1} {
		if _, err := NextReviewDelay(r); !errors.Is(err, ErrUnknownRating) {
			t.Errorf("expected ErrUnknownRating for %d, got %v", int(r), err)
		}
	}
}
