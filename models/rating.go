package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Rating is an externally sourced score for a title.
type Rating struct {
	Source string  `json:"source"` // tmdb | tomatoes | audience | ...
	Value  float64 `json:"value"`
	Max    float64 `json:"max"`
}

const (
	primaryGlyph   = "⭐"
	secondaryGlyph = "🍅"
)

// Label renders the rating the way it is shown on cards: a star and one
// decimal for ten-point scales, a tomato and a percentage for 100-point ones.
func (r *Rating) Label() string {
	if r == nil {
		return "N/A"
	}
	if r.Max == 100 {
		return fmt.Sprintf("%s %d%%", secondaryGlyph, int(math.Round(r.Value)))
	}
	return fmt.Sprintf("%s %.1f", primaryGlyph, r.Value)
}

// ParseRatingLabel converts a stored glyph label back into a Rating.
// "N/A", empty and unparseable labels yield nil.
func ParseRatingLabel(label string) *Rating {
	label = strings.TrimSpace(label)
	if label == "" || strings.EqualFold(label, "N/A") {
		return nil
	}
	percent := strings.HasSuffix(label, "%")
	trimmed := strings.TrimSpace(strings.TrimSuffix(label, "%"))
	trimmed = strings.TrimSpace(strings.TrimPrefix(trimmed, primaryGlyph))
	trimmed = strings.TrimSpace(strings.TrimPrefix(trimmed, secondaryGlyph))
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || value <= 0 {
		return nil
	}
	if percent {
		return &Rating{Source: "audience", Value: value, Max: 100}
	}
	return &Rating{Source: "tmdb", Value: value, Max: 10}
}

// RatingSource selects which external rating is surfaced where only one is shown.
type RatingSource string

const (
	RatingSourcePrimary   RatingSource = "primary"
	RatingSourceSecondary RatingSource = "secondary"
)

// ParseRatingSource accepts the current values and the legacy "imdb"/"rt" ones.
func ParseRatingSource(value string) (RatingSource, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "primary", "imdb", "tmdb":
		return RatingSourcePrimary, true
	case "secondary", "rt", "tomatoes":
		return RatingSourceSecondary, true
	}
	return "", false
}
