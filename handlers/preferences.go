package handlers

import (
	"context"
	"net/http"

	"hotlist/models"
	"hotlist/services/watchlist"
)

type preferencesEngine interface {
	Preferences() models.Preferences
	OnboardingComplete() bool
	SetRatingSource(ctx context.Context, value string) (models.RatingSource, error)
	SetProfile(ctx context.Context, profile *models.Profile) error
	CompleteOnboarding(ctx context.Context, profile *models.Profile, friendNames []string) error
}

var _ preferencesEngine = (*watchlist.Engine)(nil)

type PreferencesHandler struct {
	Engine preferencesEngine
}

func NewPreferencesHandler(engine preferencesEngine) *PreferencesHandler {
	return &PreferencesHandler{Engine: engine}
}

type preferencesResponse struct {
	models.Preferences
	OnboardingComplete bool `json:"onboardingComplete"`
}

func (h *PreferencesHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, preferencesResponse{
		Preferences:        h.Engine.Preferences(),
		OnboardingComplete: h.Engine.OnboardingComplete(),
	})
}

// Put updates the fields present in the body; absent fields are left alone.
func (h *PreferencesHandler) Put(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RatingSource *string        `json:"ratingSource"`
		Profile      *models.Profile `json:"profile"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	if body.RatingSource != nil {
		if _, err := h.Engine.SetRatingSource(r.Context(), *body.RatingSource); err != nil {
			writeError(w, statusFor(err), err)
			return
		}
	}
	if body.Profile != nil {
		if err := h.Engine.SetProfile(r.Context(), body.Profile); err != nil {
			writeError(w, statusFor(err), err)
			return
		}
	}
	h.Get(w, r)
}

func (h *PreferencesHandler) CompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Profile *models.Profile `json:"profile"`
		Friends []string        `json:"friends"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	if err := h.Engine.CompleteOnboarding(r.Context(), body.Profile, body.Friends); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	h.Get(w, r)
}
