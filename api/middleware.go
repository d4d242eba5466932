package api

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/gorilla/mux"

	"hotlist/utils"
)

// PINMiddleware rejects requests that do not carry the PIN behind pinHash in
// the X-PIN header or the ?pin= query parameter. An empty hash disables the
// check. The last PIN that passed bcrypt is remembered so repeat requests skip
// the hash comparison.
func PINMiddleware(pinHash string) mux.MiddlewareFunc {
	pinHash = strings.TrimSpace(pinHash)
	var verified atomic.Pointer[string]
	matches := func(provided string) bool {
		if last := verified.Load(); last != nil && subtle.ConstantTimeCompare([]byte(*last), []byte(provided)) == 1 {
			return true
		}
		if !utils.PINMatches(pinHash, provided) {
			return false
		}
		verified.Store(&provided)
		return true
	}
	return func(next http.Handler) http.Handler {
		if pinHash == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Always allow OPTIONS for CORS
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			provided := extractPIN(r)
			if provided == "" {
				writeAuthError(w, http.StatusUnauthorized, "pin required")
				return
			}
			if !matches(provided) {
				writeAuthError(w, http.StatusUnauthorized, "invalid pin")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// extractPIN reads the PIN from the X-PIN header, falling back to ?pin=.
func extractPIN(r *http.Request) string {
	if pin := strings.TrimSpace(r.Header.Get("X-PIN")); pin != "" {
		return pin
	}
	return strings.TrimSpace(r.URL.Query().Get("pin"))
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
