package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Minimal TMDB v3 client: multi search and detail-with-credits lookups.

type tmdbClient struct {
	apiKey    string
	baseURL   string
	imageBase string
	httpc     *http.Client
	limiter   *rate.Limiter
	cache     *fileCache
}

func newTMDBClient(apiKey, baseURL, imageBase string, httpc *http.Client, limiter *rate.Limiter, cache *fileCache) *tmdbClient {
	if httpc == nil {
		httpc = &http.Client{Timeout: 10 * time.Second}
	}
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}
	return &tmdbClient{
		apiKey:    strings.TrimSpace(apiKey),
		baseURL:   strings.TrimRight(baseURL, "/"),
		imageBase: strings.TrimRight(imageBase, "/"),
		httpc:     httpc,
		limiter:   limiter,
		cache:     cache,
	}
}

type tmdbSearchResponse struct {
	Results []tmdbSearchItem `json:"results"`
}

type tmdbSearchItem struct {
	ID              int64   `json:"id"`
	MediaType       string  `json:"media_type"`
	Title           string  `json:"title"`
	Name            string  `json:"name"`
	ReleaseDate     string  `json:"release_date"`
	FirstAirDate    string  `json:"first_air_date"`
	PosterPath      string  `json:"poster_path"`
	GenreIDs        []int   `json:"genre_ids"`
	VoteAverage     float64 `json:"vote_average"`
	Overview        string  `json:"overview"`
	NumberOfSeasons *int    `json:"number_of_seasons"`
}

type tmdbPerson struct {
	Name string `json:"name"`
	Job  string `json:"job"`
}

type tmdbDetails struct {
	ID              int64  `json:"id"`
	Overview        string `json:"overview"`
	NumberOfSeasons *int   `json:"number_of_seasons"`
	IMDBID          string `json:"imdb_id"`
	Genres          []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"genres"`
	CreatedBy []tmdbPerson `json:"created_by"`
	Credits   struct {
		Cast []tmdbPerson `json:"cast"`
		Crew []tmdbPerson `json:"crew"`
	} `json:"credits"`
	ExternalIDs struct {
		IMDBID string `json:"imdb_id"`
	} `json:"external_ids"`
}

func (c *tmdbClient) searchMulti(ctx context.Context, query string) ([]tmdbSearchItem, error) {
	key := cacheKey("tmdb", "search", "multi", strings.ToLower(query))
	var cached []tmdbSearchItem
	if ok, _ := c.cache.get(key, &cached); ok {
		return cached, nil
	}

	var resp tmdbSearchResponse
	params := url.Values{"query": []string{query}, "include_adult": []string{"false"}}
	if err := c.doGET(ctx, "/search/multi", params, &resp); err != nil {
		return nil, err
	}
	if err := c.cache.set(key, resp.Results); err != nil {
		log.Printf("[metadata] failed to cache search %q: %v", query, err)
	}
	return resp.Results, nil
}

func (c *tmdbClient) details(ctx context.Context, endpoint string, id int64) (*tmdbDetails, error) {
	key := cacheKey("tmdb", "details", endpoint, fmt.Sprintf("%d", id))
	var cached tmdbDetails
	if ok, _ := c.cache.get(key, &cached); ok {
		return &cached, nil
	}

	var resp tmdbDetails
	params := url.Values{"append_to_response": []string{"credits,external_ids"}}
	if err := c.doGET(ctx, fmt.Sprintf("/%s/%d", endpoint, id), params, &resp); err != nil {
		return nil, err
	}
	if err := c.cache.set(key, resp); err != nil {
		log.Printf("[metadata] failed to cache %s/%d: %v", endpoint, id, err)
	}
	return &resp, nil
}

func (c *tmdbClient) doGET(ctx context.Context, path string, params url.Values, out any) error {
	if c.apiKey == "" {
		return fmt.Errorf("tmdb api key not configured")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("tmdb request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("tmdb %s: unexpected status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode tmdb %s: %w", path, err)
	}
	return nil
}

func (c *tmdbClient) posterURL(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.imageBase + path
}

// parseTMDBYear returns the first four characters of the first non-empty
// date, or "" when they are not a year.
func parseTMDBYear(dates ...string) string {
	for _, d := range dates {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		if len(d) < 4 {
			return ""
		}
		year := d[:4]
		for _, r := range year {
			if r < '0' || r > '9' {
				return ""
			}
		}
		return year
	}
	return ""
}
