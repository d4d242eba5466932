package metadata

import (
	"testing"
	"time"

	"github.com/spf13/afero"
)

func TestParseTMDBYear(t *testing.T) {
	if year := parseTMDBYear("2024-05-01"); year != "2024" {
		t.Fatalf("expected 2024, got %q", year)
	}
	if year := parseTMDBYear("", "2019-01-01"); year != "2019" {
		t.Fatalf("expected 2019, got %q", year)
	}
	if year := parseTMDBYear("199"); year != "" {
		t.Fatalf("expected empty year for short date, got %q", year)
	}
	if year := parseTMDBYear("TBA-01"); year != "" {
		t.Fatalf("expected empty year for non numeric date, got %q", year)
	}
	if year := parseTMDBYear(); year != "" {
		t.Fatalf("expected empty year without dates, got %q", year)
	}
}

func TestPosterURL(t *testing.T) {
	c := newTMDBClient("k", "https://api.themoviedb.org/3", "https://image.tmdb.org/t/p/w500/", nil, nil, nil)
	if got := c.posterURL(""); got != "" {
		t.Fatalf("expected empty poster, got %q", got)
	}
	if got := c.posterURL("/poster.png"); got != "https://image.tmdb.org/t/p/w500/poster.png" {
		t.Fatalf("unexpected poster url: %s", got)
	}
	if got := c.posterURL("poster.png"); got != "https://image.tmdb.org/t/p/w500/poster.png" {
		t.Fatalf("unexpected poster url without slash: %s", got)
	}
}

func TestToCandidateDropsPeople(t *testing.T) {
	c := newTMDBClient("k", "", "https://img", nil, nil, nil)
	if _, ok := c.toCandidate(tmdbSearchItem{ID: 1, MediaType: "person", Name: "Someone"}); ok {
		t.Fatal("person entries must be dropped")
	}
	candidate, ok := c.toCandidate(tmdbSearchItem{ID: 2, MediaType: "tv", Name: "Dark", FirstAirDate: "2017-12-01", VoteAverage: 8.44, GenreIDs: []int{18, 9648}})
	if !ok {
		t.Fatal("tv entry should be kept")
	}
	if candidate.Title != "Dark" || candidate.Year != "2017" {
		t.Fatalf("unexpected candidate %+v", candidate)
	}
	if candidate.RatingPrimary.Value != 8.4 || candidate.RatingSecondary.Value != 84 {
		t.Fatalf("unexpected ratings %+v / %+v", candidate.RatingPrimary, candidate.RatingSecondary)
	}
	if len(candidate.GenreLabels) != 2 || candidate.GenreLabels[1] != "Mystery" {
		t.Fatalf("unexpected genres %v", candidate.GenreLabels)
	}
}

func TestFileCacheExpires(t *testing.T) {
	fs := afero.NewMemMapFs()
	cache := newFileCache(fs, "/cache", 1)
	if err := cache.set("k", map[string]int{"a": 1}); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	var got map[string]int
	if ok, _ := cache.get("k", &got); !ok || got["a"] != 1 {
		t.Fatalf("expected cache hit, got %v", got)
	}

	cache.now = func() time.Time { return time.Now().Add(8 * time.Hour) }
	if ok, _ := cache.get("k", &got); ok {
		t.Fatal("expected entry to expire after ttl plus jitter")
	}
	if exists, _ := afero.Exists(fs, "/cache/k.json"); exists {
		t.Fatal("expired entry should be removed")
	}
}

func TestFileCacheClear(t *testing.T) {
	fs := afero.NewMemMapFs()
	cache := newFileCache(fs, "/cache", 1)
	if err := cache.clear(); err != nil {
		t.Fatalf("clear on missing dir should succeed: %v", err)
	}
	_ = cache.set("a", 1)
	_ = cache.set("b", 2)
	if err := cache.clear(); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	var v int
	if ok, _ := cache.get("a", &v); ok {
		t.Fatal("expected cache to be empty after clear")
	}
}
