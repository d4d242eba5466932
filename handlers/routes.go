package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Routes bundles the handlers mounted under /api.
type Routes struct {
	Watchlist   *WatchlistHandler
	Friends     *FriendsHandler
	Preferences *PreferencesHandler
	Search      *SearchHandler
	AddFlow     *AddFlowHandler
	Settings    *SettingsHandler
	Logs        *LogsHandler
	Version     *VersionHandler

	// SearchLimit wraps the search endpoint, typically a per-IP rate limit.
	SearchLimit mux.MiddlewareFunc
}

// Register mounts every route on api. Literal paths are registered before
// their {id} siblings so they win the match.
func Register(api *mux.Router, h Routes) {
	if h.Watchlist != nil {
		wl := h.Watchlist
		api.HandleFunc("/watchlist", wl.List).Methods(http.MethodGet)
		api.HandleFunc("/watchlist", wl.Add).Methods(http.MethodPost)
		api.HandleFunc("/watchlist/reorder", wl.Reorder).Methods(http.MethodPost)
		api.HandleFunc("/watchlist/backfill", wl.Backfill).Methods(http.MethodPost)
		api.HandleFunc("/watchlist/rating", wl.GetPendingRating).Methods(http.MethodGet)
		api.HandleFunc("/watchlist/rating", wl.CancelRating).Methods(http.MethodDelete)
		api.HandleFunc("/watchlist/rating/draft", wl.SetDraftRating).Methods(http.MethodPut)
		api.HandleFunc("/watchlist/{id}", wl.Remove).Methods(http.MethodDelete)
		api.HandleFunc("/watchlist/{id}/status", wl.SetStatus).Methods(http.MethodPut)
		api.HandleFunc("/watchlist/{id}/rating", wl.Rate).Methods(http.MethodPost)
		api.HandleFunc("/watchlist/{id}/share", wl.Share).Methods(http.MethodGet)
	}

	if h.Friends != nil {
		api.HandleFunc("/friends", h.Friends.List).Methods(http.MethodGet)
		api.HandleFunc("/friends", h.Friends.Add).Methods(http.MethodPost)
		api.HandleFunc("/friends/{id}", h.Friends.Remove).Methods(http.MethodDelete)
	}

	if h.Preferences != nil {
		api.HandleFunc("/settings", h.Preferences.Get).Methods(http.MethodGet)
		api.HandleFunc("/settings", h.Preferences.Put).Methods(http.MethodPut)
		api.HandleFunc("/onboarding", h.Preferences.CompleteOnboarding).Methods(http.MethodPost)
	}

	if h.Search != nil {
		var search http.Handler = http.HandlerFunc(h.Search.Search)
		if h.SearchLimit != nil {
			search = h.SearchLimit(search)
		}
		api.Handle("/search", search).Methods(http.MethodGet)
	}

	if h.AddFlow != nil {
		api.HandleFunc("/add", h.AddFlow.Get).Methods(http.MethodGet)
		api.HandleFunc("/add", h.AddFlow.Reset).Methods(http.MethodDelete)
		api.HandleFunc("/add/query", h.AddFlow.SetQuery).Methods(http.MethodPut)
		api.HandleFunc("/add/select", h.AddFlow.Select).Methods(http.MethodPost)
		api.HandleFunc("/add/submit", h.AddFlow.Submit).Methods(http.MethodPost)
	}

	if h.Settings != nil {
		api.HandleFunc("/config", h.Settings.GetSettings).Methods(http.MethodGet)
		api.HandleFunc("/config", h.Settings.PutSettings).Methods(http.MethodPut)
		api.HandleFunc("/metadata/cache", h.Settings.ClearMetadataCache).Methods(http.MethodDelete)
	}

	if h.Logs != nil {
		api.HandleFunc("/logs", h.Logs.Tail).Methods(http.MethodGet)
	}
	if h.Version != nil {
		api.HandleFunc("/version", h.Version.GetVersion).Methods(http.MethodGet)
	}
}
