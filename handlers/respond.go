package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"hotlist/services/watchlist"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[handlers] failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// decodeBody decodes a JSON request body, rejecting unknown fields.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return false
	}
	return true
}

// statusFor maps engine errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, watchlist.ErrItemNotFound), errors.Is(err, watchlist.ErrFriendNotFound):
		return http.StatusNotFound
	case errors.Is(err, watchlist.ErrInvalidStatus),
		errors.Is(err, watchlist.ErrInvalidRating),
		errors.Is(err, watchlist.ErrInvalidRatingSource),
		errors.Is(err, watchlist.ErrInvalidCandidate),
		errors.Is(err, watchlist.ErrFriendNameRequired),
		errors.Is(err, watchlist.ErrFriendRequired),
		errors.Is(err, watchlist.ErrNotActive),
		errors.Is(err, watchlist.ErrNoCandidate):
		return http.StatusBadRequest
	case errors.Is(err, watchlist.ErrNoPendingRating),
		errors.Is(err, watchlist.ErrStalePendingRating),
		errors.Is(err, watchlist.ErrSubmitPending):
		return http.StatusConflict
	case errors.Is(err, watchlist.ErrNotLoaded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
