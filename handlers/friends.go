package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"hotlist/models"
	"hotlist/services/watchlist"
)

type friendsEngine interface {
	Friends() []models.Friend
	AddFriend(ctx context.Context, name string) (models.Friend, error)
	DeleteFriend(ctx context.Context, id string) error
}

var _ friendsEngine = (*watchlist.Engine)(nil)

type FriendsHandler struct {
	Engine friendsEngine
}

func NewFriendsHandler(engine friendsEngine) *FriendsHandler {
	return &FriendsHandler{Engine: engine}
}

func (h *FriendsHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Engine.Friends())
}

func (h *FriendsHandler) Add(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	friend, err := h.Engine.AddFriend(r.Context(), body.Name)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, friend)
}

func (h *FriendsHandler) Remove(w http.ResponseWriter, r *http.Request) {
	if err := h.Engine.DeleteFriend(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
