package models

// CandidateResult is a normalized search hit before detail enrichment.
type CandidateResult struct {
	SourceID        int64     `json:"tmdbId"`
	MediaType       MediaType `json:"mediaType"`
	Title           string    `json:"title"`
	Year            string    `json:"year,omitempty"`
	PosterURL       string    `json:"posterUrl,omitempty"`
	GenreIDs        []int     `json:"genreIds,omitempty"`
	GenreLabels     []string  `json:"genres,omitempty"`
	RatingPrimary   *Rating   `json:"ratingPrimary,omitempty"`
	RatingSecondary *Rating   `json:"ratingSecondary,omitempty"`
	Overview        string    `json:"overview,omitempty"`
	SeasonCount     *int      `json:"seasons,omitempty"`
}

// Key returns the identifier a watchlist item created from this candidate gets.
func (c CandidateResult) Key() string {
	return ItemKey(c.MediaType, c.SourceID)
}

// DetailRecord holds the extended metadata fetched for a single title.
// The zero value is what a failed lookup produces.
type DetailRecord struct {
	Cast        []string `json:"cast"`
	Director    string   `json:"director"`
	Overview    string   `json:"overview"`
	SeasonCount *int     `json:"seasons,omitempty"`
	GenreLabels []string `json:"genres,omitempty"`
	IMDBID      string   `json:"imdbId,omitempty"`
}

// Empty reports whether the lookup produced nothing usable.
func (d DetailRecord) Empty() bool {
	return len(d.Cast) == 0 && d.Director == "" && d.Overview == "" &&
		d.SeasonCount == nil && len(d.GenreLabels) == 0 && d.IMDBID == ""
}
