package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"hotlist/models"
	"hotlist/services/watchlist"
)

type addFlow interface {
	State() watchlist.AddState
	SetQuery(query string) watchlist.AddState
	Select(candidate models.CandidateResult) error
	Submit(ctx context.Context, friendName, streamingLabel, note string) (models.WatchlistItem, error)
	Reset() watchlist.AddState
}

var _ addFlow = (*watchlist.AddFlow)(nil)

// AddFlowHandler exposes the add-item interaction so a client can drive
// search, selection and submission without tracking loading flags itself.
type AddFlowHandler struct {
	Flow addFlow
}

func NewAddFlowHandler(flow addFlow) *AddFlowHandler {
	return &AddFlowHandler{Flow: flow}
}

type addFlowView struct {
	State     string                   `json:"state"`
	Query     string                   `json:"query,omitempty"`
	Loading   bool                     `json:"loading,omitempty"`
	Results   []models.CandidateResult `json:"results,omitempty"`
	Candidate *models.CandidateResult  `json:"candidate,omitempty"`
	Error     string                   `json:"error,omitempty"`
}

func viewOf(state watchlist.AddState) addFlowView {
	switch st := state.(type) {
	case watchlist.AddSearching:
		return addFlowView{State: "searching", Query: st.Query, Loading: st.Loading, Results: st.Results}
	case watchlist.AddCandidateSelected:
		return addFlowView{State: "candidateSelected", Candidate: &st.Candidate}
	case watchlist.AddEnriching:
		return addFlowView{State: "enriching", Candidate: &st.Candidate}
	case watchlist.AddFailed:
		view := addFlowView{State: "error", Candidate: &st.Candidate}
		if st.Err != nil {
			view.Error = st.Err.Error()
		}
		return view
	}
	return addFlowView{State: "idle"}
}

func (h *AddFlowHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, viewOf(h.Flow.State()))
}

func (h *AddFlowHandler) SetQuery(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Query string `json:"query"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	writeJSON(w, http.StatusOK, viewOf(h.Flow.SetQuery(body.Query)))
}

func (h *AddFlowHandler) Select(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Candidate models.CandidateResult `json:"candidate"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if err := h.Flow.Select(body.Candidate); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(h.Flow.State()))
}

func (h *AddFlowHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Friend    string `json:"friend"`
		Streaming string `json:"streaming"`
		Note      string `json:"note"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	item, err := h.Flow.Submit(r.Context(), body.Friend, body.Streaming, body.Note)
	if err != nil && !errors.Is(err, watchlist.ErrCommitFailed) {
		writeError(w, statusFor(err), err)
		return
	}
	if err != nil {
		// The item is on the list; the next successful save persists it.
		log.Printf("[handlers] added %s without saving: %v", item.ID, err)
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *AddFlowHandler) Reset(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, viewOf(h.Flow.Reset()))
}
