package models

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// MediaType distinguishes movies from TV shows. The wire values match the
// metadata provider's type discriminator.
type MediaType string

const (
	MediaTypeMovie MediaType = "movie"
	MediaTypeTV    MediaType = "tv"
)

// Valid reports whether the media type is one the watchlist tracks.
func (m MediaType) Valid() bool {
	return m == MediaTypeMovie || m == MediaTypeTV
}

// Label returns the human readable noun used in shared messages.
func (m MediaType) Label() string {
	if m == MediaTypeTV {
		return "TV show"
	}
	return "movie"
}

// ParseMediaType accepts the provider values plus a few common aliases.
func ParseMediaType(value string) (MediaType, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "movie", "movies", "film":
		return MediaTypeMovie, true
	case "tv", "series", "show", "tvshow":
		return MediaTypeTV, true
	}
	return "", false
}

// Status is the viewing lifecycle state of a watchlist item.
type Status string

const (
	StatusWant       Status = "want"
	StatusInterested Status = "interested"
	StatusWatching   Status = "watching"
	StatusWatched    Status = "watched"
)

// Valid reports whether the status is one of the four known states.
func (s Status) Valid() bool {
	switch s {
	case StatusWant, StatusInterested, StatusWatching, StatusWatched:
		return true
	}
	return false
}

// Active reports whether an item in this status belongs to the reorderable list.
func (s Status) Active() bool {
	return s != StatusWatched
}

// UnknownStreaming marks an item whose streaming service was not provided.
const UnknownStreaming = "???"

const (
	MinRating  = 0.5
	MaxRating  = 5.0
	RatingStep = 0.5
	// MaxCast caps how many cast names are kept per item.
	MaxCast = 5
)

// ValidRating reports whether r is a multiple of 0.5 in [0.5, 5].
func ValidRating(r float64) bool {
	if math.IsNaN(r) || r < MinRating || r > MaxRating {
		return false
	}
	return math.Mod(r, RatingStep) == 0
}

// WatchlistItem represents a recommended title tracked by the user.
type WatchlistItem struct {
	ID                      string    `json:"id"`
	MediaType               MediaType `json:"mediaType"`
	SourceID                int64     `json:"tmdbId,omitempty"`
	Title                   string    `json:"title"`
	Year                    string    `json:"year,omitempty"`
	PosterURL               string    `json:"posterUrl,omitempty"`
	GenreLabels             []string  `json:"genres,omitempty"`
	ExternalRatingPrimary   *Rating   `json:"ratingPrimary,omitempty"`
	ExternalRatingSecondary *Rating   `json:"ratingSecondary,omitempty"`
	RecommendedBy           string    `json:"recommendedBy"`
	StreamingLabel          string    `json:"streaming"`
	Note                    string    `json:"note,omitempty"`
	Status                  Status    `json:"status"`
	MyRating                *float64  `json:"myRating,omitempty"`
	Cast                    []string  `json:"cast"`
	Director                string    `json:"director"`
	Overview                string    `json:"overview,omitempty"`
	SeasonCount             *int      `json:"seasons,omitempty"`
	IMDBID                  string    `json:"imdbId,omitempty"`
	DateAdded               time.Time `json:"dateAdded"`
}

// Key returns the composite identifier derived from the media type and source id.
func (w WatchlistItem) Key() string {
	return ItemKey(w.MediaType, w.SourceID)
}

// ItemKey builds the "<mediaType>-<sourceID>" identifier used for new items.
func ItemKey(mediaType MediaType, sourceID int64) string {
	return fmt.Sprintf("%s-%d", mediaType, sourceID)
}

// NeedsDetails reports whether the item is missing enrichment data.
func (w WatchlistItem) NeedsDetails() bool {
	return w.SourceID > 0 && len(w.Cast) == 0 && w.Director == ""
}

// DisplayRating returns the external rating selected by the given preference,
// or nil when that source has no value.
func (w WatchlistItem) DisplayRating(source RatingSource) *Rating {
	if source == RatingSourceSecondary {
		return w.ExternalRatingSecondary
	}
	return w.ExternalRatingPrimary
}

// Clone returns a deep copy so callers never alias engine-owned slices.
func (w WatchlistItem) Clone() WatchlistItem {
	c := w
	if w.GenreLabels != nil {
		c.GenreLabels = append([]string(nil), w.GenreLabels...)
	}
	if w.Cast != nil {
		c.Cast = append([]string(nil), w.Cast...)
	}
	if w.ExternalRatingPrimary != nil {
		r := *w.ExternalRatingPrimary
		c.ExternalRatingPrimary = &r
	}
	if w.ExternalRatingSecondary != nil {
		r := *w.ExternalRatingSecondary
		c.ExternalRatingSecondary = &r
	}
	if w.MyRating != nil {
		v := *w.MyRating
		c.MyRating = &v
	}
	if w.SeasonCount != nil {
		v := *w.SeasonCount
		c.SeasonCount = &v
	}
	return c
}
