package models

import (
	"encoding"
	"fmt"
)

// Rating is the user's self-reported recall difficulty for a flashcard,
// ordered from least to most remembered.
type Rating int

const (
	RatingDontRemember Rating = iota + 1
	RatingHard
	RatingMedium
	RatingEasy
)

var (
	ratingNames = [...]string{
		RatingDontRemember: "dont_remember",
		RatingHard:         "hard",
		RatingMedium:       "medium",
		RatingEasy:         "easy",
	}
	ratingByName = map[string]Rating{
		"dont_remember": RatingDontRemember,
		"hard":          RatingHard,
		"medium":        RatingMedium,
		"easy":          RatingEasy,
	}
)

var (
	_ fmt.Stringer             = Rating(0)
	_ encoding.TextMarshaler   = Rating(0)
	_ encoding.TextUnmarshaler = (*Rating)(nil)
)

func (r Rating) String() string {
	if r.IsValid() {
		return ratingNames[r]
	}
	return fmt.Sprintf("Rating(%d)", int(r))
}

// IsValid reports whether r is one of the four known ratings.
func (r Rating) IsValid() bool {
	return r >= RatingDontRemember && r <= RatingEasy
}

func (r Rating) MarshalText() ([]byte, error) {
	if !r.IsValid() {
		return nil, fmt.Errorf("unknown difficulty rating %d", int(r))
	}
	return []byte(ratingNames[r]), nil
}

func (r *Rating) UnmarshalText(text []byte) error {
	v, ok := ratingByName[string(text)]
	if !ok {
		return fmt.Errorf("unknown difficulty rating %q", string(text))
	}
	*r = v
	return nil
}
