package metadata

import (
	"context"
	"iter"
	"log"
	"math"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/spf13/afero"
	"golang.org/x/time/rate"

	"hotlist/config"
	"hotlist/models"
)

// MinQueryLength is the shortest query that is sent to the provider.
const MinQueryLength = 2

// Service looks up titles and their details. Every method fails softly:
// remote errors are logged and turned into empty results.
type Service struct {
	mu      sync.RWMutex
	tmdb    *tmdbClient
	mdblist *mdblistClient
	cache   *fileCache

	cfg     config.MetadataSettings
	httpc   *http.Client
	limiter *rate.Limiter
}

// Option customizes a Service.
type Option func(*Service)

// WithHTTPClient replaces the HTTP client used for all providers.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Service) { s.httpc = c }
}

// NewService builds the metadata service. fs holds the response cache; nil
// uses the OS filesystem.
func NewService(cfg config.MetadataSettings, fs afero.Fs, opts ...Option) *Service {
	s := &Service{cfg: cfg}
	for _, opt := range opts {
		opt(s)
	}
	if s.httpc == nil {
		s.httpc = &http.Client{Timeout: cfg.Timeout()}
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := int(math.Max(1, math.Ceil(cfg.RequestsPerSecond)))
	s.limiter = rate.NewLimiter(limit, burst)

	if cfg.CacheTTLHours > 0 && cfg.CacheDir != "" {
		s.cache = newFileCache(fs, filepath.Join(cfg.CacheDir, "metadata"), cfg.CacheTTLHours)
	}
	s.tmdb = newTMDBClient(cfg.TMDBAPIKey, cfg.TMDBBaseURL, cfg.ImageBaseURL, s.httpc, s.limiter, s.cache)
	s.mdblist = newMDBListClient(cfg.MDBListAPIKey, cfg.MDBListBaseURL, s.httpc)
	return s
}

// UpdateAPIKeys swaps the provider keys and clears cached responses.
func (s *Service) UpdateAPIKeys(tmdbAPIKey, mdblistAPIKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cfg.TMDBAPIKey = tmdbAPIKey
	s.cfg.MDBListAPIKey = mdblistAPIKey
	s.tmdb = newTMDBClient(tmdbAPIKey, s.cfg.TMDBBaseURL, s.cfg.ImageBaseURL, s.httpc, s.limiter, s.cache)
	s.mdblist = newMDBListClient(mdblistAPIKey, s.cfg.MDBListBaseURL, s.httpc)

	if err := s.cache.clear(); err != nil {
		log.Printf("[metadata] warning: failed to clear cache: %v", err)
	} else {
		log.Printf("[metadata] cleared metadata cache due to API key change")
	}
}

// ClearCache removes all cached responses.
func (s *Service) ClearCache() error {
	return s.cache.clear()
}

func (s *Service) clients() (*tmdbClient, *mdblistClient) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tmdb, s.mdblist
}

// Search returns the movie and TV hits for query. Queries shorter than
// MinQueryLength return an empty sequence without a request; request
// failures also return an empty sequence.
func (s *Service) Search(ctx context.Context, query string) iter.Seq[models.CandidateResult] {
	q := strings.TrimSpace(query)
	if utf8.RuneCountInString(q) < MinQueryLength {
		return emptySeq
	}

	tmdb, _ := s.clients()
	items, err := tmdb.searchMulti(ctx, q)
	if err != nil {
		log.Printf("[metadata] search %q failed: %v", q, err)
		return emptySeq
	}

	return func(yield func(models.CandidateResult) bool) {
		for _, item := range items {
			candidate, ok := tmdb.toCandidate(item)
			if !ok {
				continue
			}
			if !yield(candidate) {
				return
			}
		}
	}
}

// FetchDetails returns cast, director/creator, overview and season count for
// a title. Any failure yields a zero DetailRecord.
func (s *Service) FetchDetails(ctx context.Context, sourceID int64, mediaType models.MediaType) models.DetailRecord {
	if sourceID <= 0 {
		return models.DetailRecord{}
	}
	endpoint := "movie"
	if mediaType == models.MediaTypeTV {
		endpoint = "tv"
	}

	tmdb, _ := s.clients()
	details, err := tmdb.details(ctx, endpoint, sourceID)
	if err != nil {
		log.Printf("[metadata] details %s/%d failed: %v", endpoint, sourceID, err)
		return models.DetailRecord{}
	}
	return toDetailRecord(details, mediaType)
}

// SecondaryRating looks up the critic score for an IMDB id. It returns nil
// when no rating service is configured or the lookup fails.
func (s *Service) SecondaryRating(ctx context.Context, imdbID string, mediaType models.MediaType) *models.Rating {
	_, mdblist := s.clients()
	return mdblist.SecondaryRating(ctx, imdbID, mediaType)
}

func emptySeq(func(models.CandidateResult) bool) {}

func (c *tmdbClient) toCandidate(item tmdbSearchItem) (models.CandidateResult, bool) {
	var mediaType models.MediaType
	switch strings.ToLower(strings.TrimSpace(item.MediaType)) {
	case "movie":
		mediaType = models.MediaTypeMovie
	case "tv":
		mediaType = models.MediaTypeTV
	default:
		return models.CandidateResult{}, false
	}

	title := item.Title
	year := parseTMDBYear(item.ReleaseDate)
	if mediaType == models.MediaTypeTV {
		title = item.Name
		year = parseTMDBYear(item.FirstAirDate)
	}
	title = strings.TrimSpace(title)
	if title == "" || item.ID <= 0 {
		return models.CandidateResult{}, false
	}

	candidate := models.CandidateResult{
		SourceID:    item.ID,
		MediaType:   mediaType,
		Title:       title,
		Year:        year,
		PosterURL:   c.posterURL(item.PosterPath),
		GenreIDs:    item.GenreIDs,
		GenreLabels: models.GenreNames(item.GenreIDs),
		Overview:    strings.TrimSpace(item.Overview),
	}
	if item.VoteAverage > 0 {
		candidate.RatingPrimary = &models.Rating{Source: "tmdb", Value: math.Round(item.VoteAverage*10) / 10, Max: 10}
		candidate.RatingSecondary = &models.Rating{Source: "audience", Value: math.Round(item.VoteAverage * 10), Max: 100}
	}
	if mediaType == models.MediaTypeTV && item.NumberOfSeasons != nil {
		seasons := *item.NumberOfSeasons
		candidate.SeasonCount = &seasons
	}
	return candidate, true
}

func toDetailRecord(d *tmdbDetails, mediaType models.MediaType) models.DetailRecord {
	record := models.DetailRecord{
		Overview: strings.TrimSpace(d.Overview),
		IMDBID:   strings.TrimSpace(d.ExternalIDs.IMDBID),
	}
	if record.IMDBID == "" {
		record.IMDBID = strings.TrimSpace(d.IMDBID)
	}

	cast := make([]string, 0, models.MaxCast)
	for _, person := range d.Credits.Cast {
		if len(cast) == models.MaxCast {
			break
		}
		if name := strings.TrimSpace(person.Name); name != "" {
			cast = append(cast, name)
		}
	}
	record.Cast = cast

	if mediaType == models.MediaTypeTV {
		for _, creator := range d.CreatedBy {
			if name := strings.TrimSpace(creator.Name); name != "" {
				record.Director = name
				break
			}
		}
		if d.NumberOfSeasons != nil {
			seasons := *d.NumberOfSeasons
			record.SeasonCount = &seasons
		}
	} else {
		for _, crew := range d.Credits.Crew {
			if crew.Job == "Director" {
				record.Director = strings.TrimSpace(crew.Name)
				break
			}
		}
	}

	for _, g := range d.Genres {
		if name := strings.TrimSpace(g.Name); name != "" {
			record.GenreLabels = append(record.GenreLabels, name)
		}
	}
	return record
}
