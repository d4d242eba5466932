package models

import (
	"encoding/json"
	"math"
	"testing"
)

func TestValidRating(t *testing.T) {
	for i := 1; i <= 10; i++ {
		r := float64(i) * 0.5
		if !ValidRating(r) {
			t.Errorf("ValidRating(%v) = false, expected true", r)
		}
	}

	invalid := []float64{0, 0.25, 0.49, 1.2, 4.75, 5.5, 6, -1, math.NaN(), math.Inf(1)}
	for _, r := range invalid {
		if ValidRating(r) {
			t.Errorf("ValidRating(%v) = true, expected false", r)
		}
	}
}

func TestStatusActive(t *testing.T) {
	for _, s := range []Status{StatusWant, StatusInterested, StatusWatching} {
		if !s.Active() {
			t.Errorf("%s should be active", s)
		}
	}
	if StatusWatched.Active() {
		t.Error("watched should not be active")
	}
	if Status("paused").Valid() {
		t.Error("unknown status should be invalid")
	}
}

func TestParseRatingLabel(t *testing.T) {
	tests := []struct {
		label string
		want  *Rating
	}{
		{"⭐ 7.8", &Rating{Source: "tmdb", Value: 7.8, Max: 10}},
		{"🍅 78%", &Rating{Source: "audience", Value: 78, Max: 100}},
		{"N/A", nil},
		{"", nil},
		{"great", nil},
	}
	for _, tt := range tests {
		got := ParseRatingLabel(tt.label)
		if tt.want == nil {
			if got != nil {
				t.Errorf("ParseRatingLabel(%q) = %+v, expected nil", tt.label, got)
			}
			continue
		}
		if got == nil || *got != *tt.want {
			t.Errorf("ParseRatingLabel(%q) = %+v, expected %+v", tt.label, got, tt.want)
		}
	}
}

func TestRatingLabel(t *testing.T) {
	if got := (&Rating{Value: 8.84, Max: 10}).Label(); got != "⭐ 8.8" {
		t.Errorf("unexpected primary label %q", got)
	}
	if got := (&Rating{Value: 87.6, Max: 100}).Label(); got != "🍅 88%" {
		t.Errorf("unexpected secondary label %q", got)
	}
	var missing *Rating
	if got := missing.Label(); got != "N/A" {
		t.Errorf("unexpected nil label %q", got)
	}
}

func TestParseRatingSourceLegacyValues(t *testing.T) {
	if src, ok := ParseRatingSource("imdb"); !ok || src != RatingSourcePrimary {
		t.Errorf("imdb should map to primary, got %q", src)
	}
	if src, ok := ParseRatingSource("rt"); !ok || src != RatingSourceSecondary {
		t.Errorf("rt should map to secondary, got %q", src)
	}
	if _, ok := ParseRatingSource("letterboxd"); ok {
		t.Error("unknown source should not parse")
	}
}

func TestFriendUnmarshalNumericID(t *testing.T) {
	var friends []Friend
	data := []byte(`[{"id":1712345678901,"name":"Sam"},{"id":"0190a1b2","name":"Alex"}]`)
	if err := json.Unmarshal(data, &friends); err != nil {
		t.Fatalf("unmarshal friends: %v", err)
	}
	if friends[0].ID != "1712345678901" || friends[0].Name != "Sam" {
		t.Errorf("unexpected numeric friend %+v", friends[0])
	}
	if friends[1].ID != "0190a1b2" {
		t.Errorf("unexpected string friend id %q", friends[1].ID)
	}
}

func TestWatchlistItemCloneDoesNotAlias(t *testing.T) {
	rating := 4.5
	item := WatchlistItem{ID: "movie-1", Cast: []string{"A"}, MyRating: &rating}
	clone := item.Clone()
	clone.Cast[0] = "B"
	*clone.MyRating = 1
	if item.Cast[0] != "A" || *item.MyRating != 4.5 {
		t.Fatalf("clone aliased the original: %+v", item)
	}
}

func TestDisplayRatingFollowsPreference(t *testing.T) {
	item := WatchlistItem{
		ExternalRatingPrimary:   &Rating{Source: "tmdb", Value: 7, Max: 10},
		ExternalRatingSecondary: &Rating{Source: "tomatoes", Value: 91, Max: 100},
	}
	if item.DisplayRating(RatingSourcePrimary).Source != "tmdb" {
		t.Error("primary preference should surface the tmdb rating")
	}
	if item.DisplayRating(RatingSourceSecondary).Source != "tomatoes" {
		t.Error("secondary preference should surface the tomatoes rating")
	}
}
