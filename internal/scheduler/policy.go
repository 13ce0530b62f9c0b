// Package scheduler computes review delays from difficulty ratings.
// Intervals are deliberately short: the policy targets rapid within-session
// relearning, not long-horizon spaced repetition.
package scheduler

import (
	"errors"
	"fmt"
	"time"

	"memoria-backend/internal/models"
)

var ErrUnknownRating = errors.New("unknown difficulty rating")

// NextReviewDelay maps a difficulty rating to the delay before the card is
// due again. Pure and deterministic; prior review history is not consulted.
func NextReviewDelay(rating models.Rating) (time.Duration, error) {
	switch rating {
	case models.RatingDontRemember:
		// Failed recall puts the card straight back into the due pool.
		return 0, nil
	case models.RatingHard:
		return 1 * time.Minute, nil
	case models.RatingMedium:
		return 2 * time.Minute, nil
	case models.RatingEasy:
		return 3 * time.Minute, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnknownRating, int(rating))
	}
}
