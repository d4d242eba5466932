package utils

import (
	"net/http"

	"github.com/gorilla/mux"
)

// corsMiddleware answers for trusted origins and short-circuits preflights.
func corsMiddleware(policy OriginPolicy) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && policy.Allows(origin) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-PIN")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// NewRouter constructs the base router with CORS and the health check.
func NewRouter(allowedOrigins []string) *mux.Router {
	r := mux.NewRouter()
	r.Use(corsMiddleware(NewOriginPolicy(allowedOrigins)))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)

	// mux only runs middleware on matched routes, so preflights need one
	r.Methods(http.MethodOptions).HandlerFunc(func(http.ResponseWriter, *http.Request) {})
	return r
}
