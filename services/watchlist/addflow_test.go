package watchlist_test

import (
	"context"
	"iter"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotlist/models"
	"hotlist/services/search"
	"hotlist/services/watchlist"
)

// gatedEnricher blocks Enrich until release is closed.
type gatedEnricher struct {
	started chan struct{}
	release chan struct{}
}

func newGatedEnricher() *gatedEnricher {
	return &gatedEnricher{started: make(chan struct{}, 1), release: make(chan struct{})}
}

func (g *gatedEnricher) Enrich(ctx context.Context, candidate models.CandidateResult, friendName, streamingLabel, note string) models.WatchlistItem {
	g.started <- struct{}{}
	<-g.release
	return newPipeline(&fakeDetails{}).Enrich(ctx, candidate, friendName, streamingLabel, note)
}

func (g *gatedEnricher) Backfill(context.Context, []models.WatchlistItem) map[string]models.DetailRecord {
	return nil
}

func titleSearch(_ context.Context, query string) iter.Seq[models.CandidateResult] {
	return func(yield func(models.CandidateResult) bool) {
		if !yield(models.CandidateResult{SourceID: 1, MediaType: models.MediaTypeMovie, Title: query + " (movie)"}) {
			return
		}
		yield(models.CandidateResult{SourceID: 2, MediaType: models.MediaTypeTV, Title: query + " (tv)"})
	}
}

func newFlow(t *testing.T, engine *watchlist.Engine) *watchlist.AddFlow {
	t.Helper()
	flow := watchlist.NewAddFlow(engine, titleSearch, search.WithDelay(10*time.Millisecond))
	t.Cleanup(flow.Close)
	return flow
}

func TestAddFlowSearchDeliversResults(t *testing.T) {
	engine, _ := newEngine(t, &fakeDetails{})
	flow := newFlow(t, engine)

	flow.SetQuery("inc")
	state := flow.SetQuery("incep")
	searching, ok := state.(watchlist.AddSearching)
	require.True(t, ok)
	assert.True(t, searching.Loading)

	require.Eventually(t, func() bool {
		s, ok := flow.State().(watchlist.AddSearching)
		return ok && !s.Loading
	}, 2*time.Second, 5*time.Millisecond)

	s := flow.State().(watchlist.AddSearching)
	assert.Equal(t, "incep", s.Query)
	require.Len(t, s.Results, 2)
	assert.Equal(t, "incep (movie)", s.Results[0].Title)
}

func TestAddFlowShortQueryShowsNoResults(t *testing.T) {
	engine, _ := newEngine(t, &fakeDetails{})
	flow := newFlow(t, engine)

	flow.SetQuery("i")
	require.Eventually(t, func() bool {
		s, ok := flow.State().(watchlist.AddSearching)
		return ok && !s.Loading
	}, 2*time.Second, 5*time.Millisecond)
	assert.Empty(t, flow.State().(watchlist.AddSearching).Results)
}

func TestAddFlowSubmitAddsSelectedCandidate(t *testing.T) {
	engine, _ := newEngine(t, inceptionDetails())
	flow := newFlow(t, engine)

	_, err := flow.Submit(t.Context(), "Sam", "", "")
	assert.ErrorIs(t, err, watchlist.ErrNoCandidate)

	require.NoError(t, flow.Select(inception()))
	assert.IsType(t, watchlist.AddCandidateSelected{}, flow.State())

	_, err = flow.Submit(t.Context(), " ", "Netflix", "")
	assert.ErrorIs(t, err, watchlist.ErrFriendRequired)
	assert.IsType(t, watchlist.AddCandidateSelected{}, flow.State(), "a missing friend keeps the selection")

	item, err := flow.Submit(t.Context(), "Sam", "Netflix", "")
	require.NoError(t, err)
	assert.Equal(t, "movie-27205", item.ID)
	assert.Equal(t, "Christopher Nolan", item.Director)
	assert.Equal(t, watchlist.AddIdle{}, flow.State())
	assert.Len(t, engine.Items(), 1)
}

func TestAddFlowRejectsSecondSubmitWhileEnriching(t *testing.T) {
	persister := &memPersister{snap: models.EmptySnapshot()}
	enricher := newGatedEnricher()
	engine := watchlist.NewEngine(persister, enricher)
	require.NoError(t, engine.Load(t.Context()))
	flow := newFlow(t, engine)

	require.NoError(t, flow.Select(inception()))

	done := make(chan error, 1)
	go func() {
		_, err := flow.Submit(context.Background(), "Sam", "Netflix", "")
		done <- err
	}()
	<-enricher.started

	assert.IsType(t, watchlist.AddEnriching{}, flow.State())
	_, err := flow.Submit(t.Context(), "Sam", "Netflix", "")
	assert.ErrorIs(t, err, watchlist.ErrSubmitPending)
	assert.ErrorIs(t, flow.Select(movie(9, "Other")), watchlist.ErrSubmitPending)
	assert.IsType(t, watchlist.AddEnriching{}, flow.Reset())
	assert.IsType(t, watchlist.AddEnriching{}, flow.SetQuery("other"))

	close(enricher.release)
	require.NoError(t, <-done)
	assert.Len(t, engine.Items(), 1)
	assert.Equal(t, watchlist.AddIdle{}, flow.State())
}

func TestAddFlowSelectValidatesCandidate(t *testing.T) {
	engine, _ := newEngine(t, &fakeDetails{})
	flow := newFlow(t, engine)

	err := flow.Select(models.CandidateResult{Title: "Someone", MediaType: "person"})
	assert.ErrorIs(t, err, watchlist.ErrInvalidCandidate)
	assert.Equal(t, watchlist.AddIdle{}, flow.State())
}

func TestAddFlowResetReturnsToIdle(t *testing.T) {
	engine, _ := newEngine(t, &fakeDetails{})
	flow := newFlow(t, engine)

	flow.SetQuery("dark")
	assert.Equal(t, watchlist.AddIdle{}, flow.Reset())

	// a cancelled search must not revive the flow
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, watchlist.AddIdle{}, flow.State())
}

func TestAddFlowKeepsCandidateWhenAddFails(t *testing.T) {
	engine := watchlist.NewEngine(&memPersister{}, newPipeline(&fakeDetails{}))
	flow := newFlow(t, engine)

	require.NoError(t, flow.Select(inception()))
	_, err := flow.Submit(t.Context(), "Sam", "", "")
	require.ErrorIs(t, err, watchlist.ErrNotLoaded)

	failed, ok := flow.State().(watchlist.AddFailed)
	require.True(t, ok)
	assert.Equal(t, "Inception", failed.Candidate.Title)

	require.NoError(t, engine.Load(t.Context()))
	_, err = flow.Submit(t.Context(), "Sam", "", "")
	require.NoError(t, err)
	assert.Equal(t, watchlist.AddIdle{}, flow.State())
}
