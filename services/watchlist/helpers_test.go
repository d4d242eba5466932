package watchlist_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"hotlist/internal/store"
	"hotlist/models"
	"hotlist/services/enrichment"
	"hotlist/services/watchlist"
)

var fixedNow = time.Date(2024, 6, 1, 18, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

// fakeDetails answers detail lookups from a table keyed by source id.
type fakeDetails struct {
	mu      sync.Mutex
	records map[int64]models.DetailRecord
	calls   int
}

func (f *fakeDetails) FetchDetails(_ context.Context, sourceID int64, _ models.MediaType) models.DetailRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.records[sourceID]
}

// memPersister keeps the last saved snapshot in memory and can be told to
// fail writes.
type memPersister struct {
	mu      sync.Mutex
	snap    models.Snapshot
	saves   int
	saveErr error
}

func (m *memPersister) Load(context.Context) (models.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap, nil
}

func (m *memPersister) Save(_ context.Context, snap models.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.snap = snap
	m.saves++
	return nil
}

var errDiskFull = errors.New("disk full")

func newFileStore(t *testing.T, fs afero.Fs) *store.Store {
	t.Helper()
	backend, err := store.NewFileBackend(fs, "/data")
	require.NoError(t, err)
	s, err := store.New(backend)
	require.NoError(t, err)
	return s
}

func newPipeline(details *fakeDetails) *enrichment.Pipeline {
	return enrichment.NewPipeline(details, enrichment.WithClock(clock))
}

// newEngine returns a loaded engine persisting to an in-memory filesystem.
func newEngine(t *testing.T, details *fakeDetails, opts ...watchlist.Option) (*watchlist.Engine, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	engine := watchlist.NewEngine(newFileStore(t, fs), newPipeline(details), append([]watchlist.Option{watchlist.WithClock(clock)}, opts...)...)
	require.NoError(t, engine.Load(t.Context()))
	return engine, fs
}

func reload(t *testing.T, fs afero.Fs) *watchlist.Engine {
	t.Helper()
	engine := watchlist.NewEngine(newFileStore(t, fs), newPipeline(&fakeDetails{}))
	require.NoError(t, engine.Load(t.Context()))
	return engine
}

func inception() models.CandidateResult {
	return models.CandidateResult{
		SourceID:      27205,
		MediaType:     models.MediaTypeMovie,
		Title:         "Inception",
		Year:          "2010",
		GenreLabels:   []string{"Action", "Science Fiction"},
		RatingPrimary: &models.Rating{Source: "tmdb", Value: 8.4, Max: 10},
	}
}

func movie(id int64, title string) models.CandidateResult {
	return models.CandidateResult{SourceID: id, MediaType: models.MediaTypeMovie, Title: title}
}

func ids(items []models.WatchlistItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}

func inceptionDetails() *fakeDetails {
	return &fakeDetails{records: map[int64]models.DetailRecord{
		27205: {
			Cast:     []string{"Leonardo DiCaprio", "Joseph Gordon-Levitt", "Elliot Page"},
			Director: "Christopher Nolan",
			Overview: "A thief who steals corporate secrets through dream-sharing.",
		},
	}}
}
