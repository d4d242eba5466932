package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"hotlist/models"
	"hotlist/services/watchlist"
)

type watchlistEngine interface {
	Filter(view watchlist.View, query string) []models.WatchlistItem
	Preferences() models.Preferences
	AddItem(ctx context.Context, candidate models.CandidateResult, friendName, streamingLabel, note string) (models.WatchlistItem, error)
	DeleteItem(ctx context.Context, id string) error
	SetStatus(ctx context.Context, id string, status models.Status) (models.WatchlistItem, error)
	Reorder(ctx context.Context, sourceID, targetID string) error
	PendingRating() (watchlist.PendingRating, bool)
	RatingPreview() (models.WatchlistItem, bool)
	SetDraftRating(id string, value float64) error
	CancelRating()
	RateItem(ctx context.Context, id string, rating float64) (models.WatchlistItem, error)
	Share(id string) (watchlist.ShareMessage, error)
	BackfillDetails(ctx context.Context) (int, error)
}

var _ watchlistEngine = (*watchlist.Engine)(nil)

type WatchlistHandler struct {
	Engine watchlistEngine
}

func NewWatchlistHandler(engine watchlistEngine) *WatchlistHandler {
	return &WatchlistHandler{Engine: engine}
}

// itemView adds the rating label selected by the user's preference.
type itemView struct {
	models.WatchlistItem
	DisplayRating string `json:"displayRating"`
}

type pendingRatingView struct {
	Pending *watchlist.PendingRating `json:"pending"`
	Preview *models.WatchlistItem    `json:"preview,omitempty"`
}

func (h *WatchlistHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items := h.Engine.Filter(watchlist.ParseView(q.Get("view")), q.Get("q"))
	source := h.Engine.Preferences().RatingSource

	out := make([]itemView, 0, len(items))
	for _, item := range items {
		out = append(out, itemView{WatchlistItem: item, DisplayRating: item.DisplayRating(source).Label()})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *WatchlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Candidate models.CandidateResult `json:"candidate"`
		Friend    string                 `json:"friend"`
		Streaming string                 `json:"streaming"`
		Note      string                 `json:"note"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	item, err := h.Engine.AddItem(r.Context(), body.Candidate, body.Friend, body.Streaming, body.Note)
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

func (h *WatchlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	if err := h.Engine.DeleteItem(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *WatchlistHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status models.Status `json:"status"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	item, err := h.Engine.SetStatus(r.Context(), mux.Vars(r)["id"], body.Status)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *WatchlistHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var body struct {
		SourceID string `json:"sourceId"`
		TargetID string `json:"targetId"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	if err := h.Engine.Reorder(r.Context(), body.SourceID, body.TargetID); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, h.Engine.Filter(watchlist.ViewActive, ""))
}

func (h *WatchlistHandler) GetPendingRating(w http.ResponseWriter, r *http.Request) {
	var view pendingRatingView
	if pending, ok := h.Engine.PendingRating(); ok {
		view.Pending = &pending
		if preview, ok := h.Engine.RatingPreview(); ok {
			view.Preview = &preview
		}
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *WatchlistHandler) SetDraftRating(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ItemID string  `json:"itemId"`
		Value  float64 `json:"value"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	if err := h.Engine.SetDraftRating(body.ItemID, body.Value); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	h.GetPendingRating(w, r)
}

func (h *WatchlistHandler) CancelRating(w http.ResponseWriter, r *http.Request) {
	h.Engine.CancelRating()
	w.WriteHeader(http.StatusNoContent)
}

func (h *WatchlistHandler) Rate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Rating float64 `json:"rating"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	item, err := h.Engine.RateItem(r.Context(), mux.Vars(r)["id"], body.Rating)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *WatchlistHandler) Share(w http.ResponseWriter, r *http.Request) {
	msg, err := h.Engine.Share(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

func (h *WatchlistHandler) Backfill(w http.ResponseWriter, r *http.Request) {
	updated, err := h.Engine.BackfillDetails(r.Context())
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"updated": updated})
}
