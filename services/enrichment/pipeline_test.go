package enrichment_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"hotlist/models"
	"hotlist/services/enrichment"
	"hotlist/services/enrichment/mocks"
)

var fixedNow = time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)

func inception() models.CandidateResult {
	return models.CandidateResult{
		SourceID:        27205,
		MediaType:       models.MediaTypeMovie,
		Title:           "Inception",
		Year:            "2010",
		PosterURL:       "https://img.test/p.jpg",
		GenreLabels:     []string{"Action", "Science Fiction"},
		RatingPrimary:   &models.Rating{Source: "tmdb", Value: 8.4, Max: 10},
		RatingSecondary: &models.Rating{Source: "audience", Value: 84, Max: 100},
		Overview:        "Dreams within dreams",
	}
}

func TestEnrichMergesDetails(t *testing.T) {
	ctrl := gomock.NewController(t)
	details := mocks.NewMockDetailFetcher(ctrl)
	ratings := mocks.NewMockRatingLookup(ctrl)

	details.EXPECT().
		FetchDetails(gomock.Any(), int64(27205), models.MediaTypeMovie).
		Return(models.DetailRecord{
			Cast:     []string{"Leonardo DiCaprio", "Joseph Gordon-Levitt"},
			Director: "Christopher Nolan",
			Overview: "A thief who steals corporate secrets",
			IMDBID:   "tt1375666",
		})
	ratings.EXPECT().
		SecondaryRating(gomock.Any(), "tt1375666", models.MediaTypeMovie).
		Return(&models.Rating{Source: "tomatoes", Value: 87, Max: 100})

	p := enrichment.NewPipeline(details, enrichment.WithRatingLookup(ratings), enrichment.WithClock(func() time.Time { return fixedNow }))
	item := p.Enrich(context.Background(), inception(), " Sam ", "Netflix", "  watch on a big screen ")

	assert.Equal(t, "movie-27205", item.ID)
	assert.Equal(t, models.StatusWant, item.Status)
	assert.Equal(t, "Sam", item.RecommendedBy)
	assert.Equal(t, "Netflix", item.StreamingLabel)
	assert.Equal(t, "watch on a big screen", item.Note)
	assert.Equal(t, fixedNow, item.DateAdded)
	assert.Equal(t, []string{"Leonardo DiCaprio", "Joseph Gordon-Levitt"}, item.Cast)
	assert.Equal(t, "Christopher Nolan", item.Director)
	assert.Equal(t, "A thief who steals corporate secrets", item.Overview)
	assert.Equal(t, []string{"Action", "Science Fiction"}, item.GenreLabels)
	assert.Equal(t, "tt1375666", item.IMDBID)
	require.NotNil(t, item.ExternalRatingSecondary)
	assert.Equal(t, "tomatoes", item.ExternalRatingSecondary.Source)
	assert.Nil(t, item.MyRating)
}

func TestEnrichDetailFailureFallsBackToCandidate(t *testing.T) {
	ctrl := gomock.NewController(t)
	details := mocks.NewMockDetailFetcher(ctrl)
	ratings := mocks.NewMockRatingLookup(ctrl)

	details.EXPECT().FetchDetails(gomock.Any(), gomock.Any(), gomock.Any()).Return(models.DetailRecord{})
	// no IMDB id, so the rating service must not be called
	ratings.EXPECT().SecondaryRating(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	p := enrichment.NewPipeline(details, enrichment.WithRatingLookup(ratings))
	item := p.Enrich(context.Background(), inception(), "Sam", "", "")

	assert.Equal(t, []string{}, item.Cast)
	assert.Empty(t, item.Director)
	assert.Equal(t, "Dreams within dreams", item.Overview)
	assert.Equal(t, models.UnknownStreaming, item.StreamingLabel)
	require.NotNil(t, item.ExternalRatingSecondary)
	assert.Equal(t, 84.0, item.ExternalRatingSecondary.Value)
}

func TestEnrichKeepsCandidateRatingWhenLookupFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	details := mocks.NewMockDetailFetcher(ctrl)
	ratings := mocks.NewMockRatingLookup(ctrl)

	details.EXPECT().FetchDetails(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(models.DetailRecord{IMDBID: "tt1375666"})
	ratings.EXPECT().SecondaryRating(gomock.Any(), "tt1375666", gomock.Any()).Return(nil)

	p := enrichment.NewPipeline(details, enrichment.WithRatingLookup(ratings))
	item := p.Enrich(context.Background(), inception(), "Sam", "Netflix", "")

	require.NotNil(t, item.ExternalRatingSecondary)
	assert.Equal(t, "audience", item.ExternalRatingSecondary.Source)
}

func TestEnrichTVUsesDetailSeasons(t *testing.T) {
	ctrl := gomock.NewController(t)
	details := mocks.NewMockDetailFetcher(ctrl)

	seasons := 5
	details.EXPECT().FetchDetails(gomock.Any(), int64(1396), models.MediaTypeTV).
		Return(models.DetailRecord{Director: "Vince Gilligan", SeasonCount: &seasons, GenreLabels: []string{"Drama"}})

	candidate := models.CandidateResult{SourceID: 1396, MediaType: models.MediaTypeTV, Title: "Breaking Bad", GenreLabels: []string{"Crime"}}
	item := enrichment.NewPipeline(details).Enrich(context.Background(), candidate, "Alex", "Netflix", "")

	assert.Equal(t, "tv-1396", item.ID)
	assert.Equal(t, "Vince Gilligan", item.Director)
	require.NotNil(t, item.SeasonCount)
	assert.Equal(t, 5, *item.SeasonCount)
	assert.Equal(t, []string{"Drama"}, item.GenreLabels)
}

func TestEnrichWithoutSourceIDSkipsLookup(t *testing.T) {
	ctrl := gomock.NewController(t)
	details := mocks.NewMockDetailFetcher(ctrl)
	details.EXPECT().FetchDetails(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	candidate := models.CandidateResult{MediaType: models.MediaTypeMovie, Title: "Home Video"}
	item := enrichment.NewPipeline(details).Enrich(context.Background(), candidate, "Sam", "", "")

	assert.True(t, strings.HasPrefix(item.ID, "movie-"))
	assert.NotEqual(t, "movie-0", item.ID)
}

func TestEnrichDoesNotAliasCandidate(t *testing.T) {
	ctrl := gomock.NewController(t)
	details := mocks.NewMockDetailFetcher(ctrl)
	details.EXPECT().FetchDetails(gomock.Any(), gomock.Any(), gomock.Any()).Return(models.DetailRecord{})

	candidate := inception()
	item := enrichment.NewPipeline(details).Enrich(context.Background(), candidate, "Sam", "", "")
	item.GenreLabels[0] = "Changed"
	item.ExternalRatingPrimary.Value = 1

	assert.Equal(t, "Action", candidate.GenreLabels[0])
	assert.Equal(t, 8.4, candidate.RatingPrimary.Value)
}

func TestBackfillFetchesOnlyMissingDetails(t *testing.T) {
	ctrl := gomock.NewController(t)
	details := mocks.NewMockDetailFetcher(ctrl)

	details.EXPECT().FetchDetails(gomock.Any(), int64(1), models.MediaTypeMovie).
		Return(models.DetailRecord{Cast: []string{"A"}, Director: "D"})
	details.EXPECT().FetchDetails(gomock.Any(), int64(3), models.MediaTypeTV).
		Return(models.DetailRecord{})

	items := []models.WatchlistItem{
		{ID: "movie-1", MediaType: models.MediaTypeMovie, SourceID: 1},
		{ID: "movie-2", MediaType: models.MediaTypeMovie, SourceID: 2, Director: "Known"},
		{ID: "tv-3", MediaType: models.MediaTypeTV, SourceID: 3},
		{ID: "manual", MediaType: models.MediaTypeMovie},
	}

	results := enrichment.NewPipeline(details, enrichment.WithWorkers(2)).Backfill(context.Background(), items)
	require.Len(t, results, 1)
	assert.Equal(t, "D", results["movie-1"].Director)
}

func TestApplyKeepsExistingData(t *testing.T) {
	item := models.WatchlistItem{
		MediaType:   models.MediaTypeMovie,
		Overview:    "kept",
		GenreLabels: []string{"Drama"},
	}
	seasons := 3
	merged := enrichment.Apply(item, models.DetailRecord{
		Cast:        []string{"1", "2", "3", "4", "5", "6", "7"},
		SeasonCount: &seasons,
	})

	assert.Len(t, merged.Cast, models.MaxCast)
	assert.Equal(t, "kept", merged.Overview)
	assert.Equal(t, []string{"Drama"}, merged.GenreLabels)
	assert.Nil(t, merged.SeasonCount, "season counts only apply to tv")
}
