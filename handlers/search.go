package handlers

import (
	"context"
	"iter"
	"net/http"
	"slices"

	"hotlist/models"
	"hotlist/services/metadata"
)

type searcher interface {
	Search(ctx context.Context, query string) iter.Seq[models.CandidateResult]
}

var _ searcher = (*metadata.Service)(nil)

type SearchHandler struct {
	Metadata searcher
}

func NewSearchHandler(m searcher) *SearchHandler {
	return &SearchHandler{Metadata: m}
}

// Search returns movie and TV candidates for ?q=. Lookup failures and short
// queries both produce an empty list.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	results := slices.Collect(h.Metadata.Search(r.Context(), r.URL.Query().Get("q")))
	if results == nil {
		results = []models.CandidateResult{}
	}
	writeJSON(w, http.StatusOK, results)
}
