package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"hotlist/config"
	"hotlist/services/metadata"
)

type metadataKeys interface {
	UpdateAPIKeys(tmdbAPIKey, mdblistAPIKey string)
	ClearCache() error
}

var _ metadataKeys = (*metadata.Service)(nil)

// SettingsHandler reads and writes the application config file. Changes to
// the metadata API keys are applied without a restart; everything else takes
// effect on the next start.
type SettingsHandler struct {
	Manager         *config.Manager
	MetadataService metadataKeys
}

func NewSettingsHandler(m *config.Manager) *SettingsHandler {
	return &SettingsHandler{Manager: m}
}

// SetMetadataService sets the metadata service for hot reloading API keys.
func (h *SettingsHandler) SetMetadataService(ms metadataKeys) {
	h.MetadataService = ms
}

func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.Manager.Load()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *SettingsHandler) PutSettings(w http.ResponseWriter, r *http.Request) {
	oldSettings, _ := h.Manager.Load()

	var s config.Settings
	// Allow unknown fields for backward compatibility with old configs
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := config.SealPIN(&s); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.Manager.Save(s); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, config.ErrInvalidSettings) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err)
		return
	}

	if oldSettings.Metadata.TMDBAPIKey != s.Metadata.TMDBAPIKey || oldSettings.Metadata.MDBListAPIKey != s.Metadata.MDBListAPIKey {
		h.reloadMetadata(s)
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *SettingsHandler) reloadMetadata(s config.Settings) {
	if h.MetadataService == nil {
		return
	}
	h.MetadataService.UpdateAPIKeys(s.Metadata.TMDBAPIKey, s.Metadata.MDBListAPIKey)
	log.Printf("[settings] reloaded metadata service API keys")
}

// ClearMetadataCache clears all cached metadata responses.
func (h *SettingsHandler) ClearMetadataCache(w http.ResponseWriter, r *http.Request) {
	if h.MetadataService == nil {
		writeError(w, http.StatusInternalServerError, errors.New("metadata service not available"))
		return
	}
	if err := h.MetadataService.ClearCache(); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	log.Printf("[settings] metadata cache cleared by user request")
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "Metadata cache cleared"})
}
