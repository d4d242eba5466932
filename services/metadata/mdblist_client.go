package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"

	"hotlist/models"
)

// mdblistClient fetches aggregated critic/audience ratings by IMDB id.
type mdblistClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	attempts   uint
	retryDelay time.Duration

	cacheMu  sync.RWMutex
	cache    map[string]*mdblistCacheEntry
	cacheTTL time.Duration
}

type mdblistCacheEntry struct {
	rating    *models.Rating
	fetchedAt time.Time
}

// secondaryRatingSources are tried in order.
var secondaryRatingSources = []string{"tomatoes", "audience"}

// MDBList reports the RT audience score as "popcorn".
var apiSourceToInternal = map[string]string{
	"popcorn": "audience",
}

type mdblistMediaResponse struct {
	Ratings []struct {
		Source string   `json:"source"`
		Value  *float64 `json:"value"`
		Score  *float64 `json:"score"`
		Votes  *int     `json:"votes"`
	} `json:"ratings"`
}

// errPermanent marks responses that retrying cannot fix.
var errPermanent = errors.New("permanent mdblist failure")

func newMDBListClient(apiKey, baseURL string, httpc *http.Client) *mdblistClient {
	if httpc == nil {
		httpc = &http.Client{Timeout: 10 * time.Second}
	}
	return &mdblistClient{
		apiKey:     strings.TrimSpace(apiKey),
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpc,
		attempts:   2,
		retryDelay: 250 * time.Millisecond,
		cache:      make(map[string]*mdblistCacheEntry),
		cacheTTL:   24 * time.Hour,
	}
}

func (c *mdblistClient) enabled() bool {
	return c != nil && c.apiKey != ""
}

// SecondaryRating returns the critic score for the title, or nil on any failure.
func (c *mdblistClient) SecondaryRating(ctx context.Context, imdbID string, mediaType models.MediaType) *models.Rating {
	imdbID = strings.TrimSpace(imdbID)
	if !c.enabled() || imdbID == "" {
		return nil
	}
	if !strings.HasPrefix(imdbID, "tt") {
		imdbID = "tt" + imdbID
	}
	kind := "movie"
	if mediaType == models.MediaTypeTV {
		kind = "show"
	}

	key := kind + ":" + imdbID
	c.cacheMu.RLock()
	if entry, ok := c.cache[key]; ok && time.Since(entry.fetchedAt) < c.cacheTTL {
		c.cacheMu.RUnlock()
		return entry.rating
	}
	c.cacheMu.RUnlock()

	var result mdblistMediaResponse
	err := retry.Do(
		func() error { return c.fetch(ctx, kind, imdbID, &result) },
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.retryDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool { return !errors.Is(err, errPermanent) }),
	)
	if err != nil {
		log.Printf("[mdblist] rating lookup failed for %s: %v", imdbID, err)
		return nil
	}

	rating := pickSecondaryRating(result)

	c.cacheMu.Lock()
	c.cache[key] = &mdblistCacheEntry{rating: rating, fetchedAt: time.Now()}
	c.cacheMu.Unlock()

	return rating
}

func (c *mdblistClient) fetch(ctx context.Context, kind, imdbID string, out *mdblistMediaResponse) error {
	endpoint := fmt.Sprintf("%s/imdb/%s/%s?apikey=%s", c.baseURL, kind, url.PathEscape(imdbID), url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: create request: %v", errPermanent, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	default:
		return fmt.Errorf("%w: unexpected status %d", errPermanent, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", errPermanent, err)
	}
	return nil
}

func pickSecondaryRating(result mdblistMediaResponse) *models.Rating {
	found := make(map[string]float64)
	for _, r := range result.Ratings {
		if r.Value == nil || *r.Value == 0 {
			continue
		}
		source := strings.ToLower(r.Source)
		if mapped, ok := apiSourceToInternal[source]; ok {
			source = mapped
		}
		if _, seen := found[source]; !seen {
			found[source] = *r.Value
		}
	}
	for _, source := range secondaryRatingSources {
		if value, ok := found[source]; ok {
			return &models.Rating{Source: source, Value: value, Max: 100}
		}
	}
	return nil
}
