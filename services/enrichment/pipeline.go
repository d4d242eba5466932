// Package enrichment turns search candidates into complete watchlist items.
package enrichment

//go:generate mockgen -source=pipeline.go -destination=mocks/mock_pipeline.go -package=mocks

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"

	"hotlist/models"
)

// DefaultWorkers bounds concurrent detail lookups during a backfill.
const DefaultWorkers = 4

// DetailFetcher loads extended metadata for a title. Implementations fail
// softly and return a zero DetailRecord on error.
type DetailFetcher interface {
	FetchDetails(ctx context.Context, sourceID int64, mediaType models.MediaType) models.DetailRecord
}

// RatingLookup resolves a secondary rating from an IMDB id, or nil.
type RatingLookup interface {
	SecondaryRating(ctx context.Context, imdbID string, mediaType models.MediaType) *models.Rating
}

// Pipeline enriches candidates with details and ratings.
type Pipeline struct {
	details DetailFetcher
	ratings RatingLookup
	workers int
	now     func() time.Time
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithRatingLookup enables the secondary rating lookup.
func WithRatingLookup(r RatingLookup) Option {
	return func(p *Pipeline) { p.ratings = r }
}

// WithWorkers sets the backfill concurrency.
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithClock overrides the time source used for DateAdded.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		if now != nil {
			p.now = now
		}
	}
}

// NewPipeline creates a pipeline backed by the given detail fetcher.
func NewPipeline(details DetailFetcher, opts ...Option) *Pipeline {
	p := &Pipeline{
		details: details,
		workers: DefaultWorkers,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Enrich builds a watchlist item from candidate and the user supplied fields.
// It blocks for one detail lookup and, when the details carry an IMDB id, one
// rating lookup. A failed detail lookup still produces an item: cast and
// director stay empty and the candidate's own overview is used.
func (p *Pipeline) Enrich(ctx context.Context, candidate models.CandidateResult, friendName, streamingLabel, note string) models.WatchlistItem {
	item := models.WatchlistItem{
		ID:                      itemID(candidate),
		MediaType:               candidate.MediaType,
		SourceID:                candidate.SourceID,
		Title:                   strings.TrimSpace(candidate.Title),
		Year:                    candidate.Year,
		PosterURL:               candidate.PosterURL,
		GenreLabels:             append([]string(nil), candidate.GenreLabels...),
		ExternalRatingPrimary:   cloneRating(candidate.RatingPrimary),
		ExternalRatingSecondary: cloneRating(candidate.RatingSecondary),
		RecommendedBy:           strings.TrimSpace(friendName),
		StreamingLabel:          strings.TrimSpace(streamingLabel),
		Note:                    strings.TrimSpace(note),
		Status:                  models.StatusWant,
		Cast:                    []string{},
		Overview:                strings.TrimSpace(candidate.Overview),
		DateAdded:               p.now(),
	}
	if item.StreamingLabel == "" {
		item.StreamingLabel = models.UnknownStreaming
	}
	if candidate.MediaType == models.MediaTypeTV && candidate.SeasonCount != nil {
		seasons := *candidate.SeasonCount
		item.SeasonCount = &seasons
	}

	if p.details == nil || candidate.SourceID <= 0 {
		return item
	}

	details := p.details.FetchDetails(ctx, candidate.SourceID, candidate.MediaType)
	if details.Empty() {
		log.Printf("[enrichment] no details for %s (%s), keeping search data", item.Title, item.ID)
	}
	item = Apply(item, details)

	if rating := p.secondaryRating(ctx, details.IMDBID, candidate.MediaType); rating != nil {
		item.ExternalRatingSecondary = rating
	}
	return item
}

func (p *Pipeline) secondaryRating(ctx context.Context, imdbID string, mediaType models.MediaType) *models.Rating {
	if p.ratings == nil || strings.TrimSpace(imdbID) == "" {
		return nil
	}
	return p.ratings.SecondaryRating(ctx, imdbID, mediaType)
}

// Backfill fetches details for every item that still lacks them and returns
// the non-empty results keyed by item id.
func (p *Pipeline) Backfill(ctx context.Context, items []models.WatchlistItem) map[string]models.DetailRecord {
	results := make(map[string]models.DetailRecord)
	if p.details == nil {
		return results
	}

	var mu sync.Mutex
	workers := pool.New().WithMaxGoroutines(p.workers)
	pending := 0
	for _, item := range items {
		if !item.NeedsDetails() {
			continue
		}
		pending++
		workers.Go(func() {
			if ctx.Err() != nil {
				return
			}
			details := p.details.FetchDetails(ctx, item.SourceID, item.MediaType)
			if details.Empty() {
				return
			}
			mu.Lock()
			results[item.ID] = details
			mu.Unlock()
		})
	}
	workers.Wait()

	if pending > 0 {
		log.Printf("[enrichment] backfill fetched details for %d of %d items", len(results), pending)
	}
	return results
}

// Apply merges a detail record into item. Empty fields in d never erase data
// the item already has.
func Apply(item models.WatchlistItem, d models.DetailRecord) models.WatchlistItem {
	if len(d.Cast) > 0 {
		cast := d.Cast
		if len(cast) > models.MaxCast {
			cast = cast[:models.MaxCast]
		}
		item.Cast = append([]string(nil), cast...)
	}
	if d.Director != "" {
		item.Director = d.Director
	}
	if d.Overview != "" {
		item.Overview = d.Overview
	}
	if len(d.GenreLabels) > 0 {
		item.GenreLabels = append([]string(nil), d.GenreLabels...)
	}
	if d.SeasonCount != nil && item.MediaType == models.MediaTypeTV {
		seasons := *d.SeasonCount
		item.SeasonCount = &seasons
	}
	if d.IMDBID != "" {
		item.IMDBID = d.IMDBID
	}
	return item
}

// itemID derives the item id from the candidate, falling back to a
// time-ordered UUID for candidates without a source id.
func itemID(c models.CandidateResult) string {
	if c.SourceID > 0 {
		return c.Key()
	}
	mediaType := c.MediaType
	if mediaType == "" {
		mediaType = models.MediaTypeMovie
	}
	return string(mediaType) + "-" + newUUID()
}

func newUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func cloneRating(r *models.Rating) *models.Rating {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}
