package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"hotlist/utils"
)

var ErrInvalidSettings = errors.New("invalid settings")

// Manager loads and saves the settings file.
type Manager struct {
	mu   sync.Mutex
	path string
}

// NewManager creates a manager for the settings file at path.
func NewManager(path string) *Manager {
	return &Manager{path: path}
}

// Path returns the settings file location.
func (m *Manager) Path() string {
	return m.path
}

// Load reads the settings file on top of the defaults and applies HOTLIST_*
// environment overrides. A missing file yields the defaults.
func (m *Manager) Load() (Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	settings := DefaultSettings()

	data, err := os.ReadFile(m.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Settings{}, fmt.Errorf("read settings: %w", err)
	case len(strings.TrimSpace(string(data))) > 0:
		if err := json.Unmarshal(data, &settings); err != nil {
			return Settings{}, fmt.Errorf("decode settings: %w", err)
		}
	}

	if settings.Server.PIN != "" {
		if err := SealPIN(&settings); err != nil {
			return Settings{}, err
		}
		if err := m.writeLocked(settings); err != nil {
			return Settings{}, err
		}
		log.Printf("[config] replaced plaintext pin in %s with its hash", m.path)
	}

	applyEnv(&settings, os.LookupEnv)
	normalize(&settings)

	// A PIN from the environment is hashed in memory only.
	if err := SealPIN(&settings); err != nil {
		return Settings{}, err
	}
	if err := Validate(settings); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

// SealPIN hashes a plaintext PIN into PINHash and clears PIN. Settings
// without a plaintext PIN are left untouched.
func SealPIN(s *Settings) error {
	pin := strings.TrimSpace(s.Server.PIN)
	if pin == "" {
		s.Server.PIN = ""
		return nil
	}
	if !utils.ValidatePIN(pin) {
		return fmt.Errorf("%w: pin must be 6 digits", ErrInvalidSettings)
	}
	hash, err := utils.HashPIN(pin)
	if err != nil {
		return err
	}
	s.Server.PINHash = hash
	s.Server.PIN = ""
	return nil
}

// Save writes the settings atomically. A plaintext PIN is hashed first.
func (m *Manager) Save(settings Settings) error {
	if err := SealPIN(&settings); err != nil {
		return err
	}
	if err := Validate(settings); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writeLocked(settings)
}

func (m *Manager) writeLocked(settings Settings) error {
	if dir := filepath.Dir(m.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create settings dir: %w", err)
		}
	}

	tmp := m.path + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create settings temp file: %w", err)
	}

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(settings); err != nil {
		file.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("encode settings: %w", err)
	}

	if err := file.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close settings temp file: %w", err)
	}

	if err := os.Rename(tmp, m.path); err != nil {
		return fmt.Errorf("replace settings file: %w", err)
	}
	return nil
}

// Validate rejects settings the application cannot start with.
func Validate(s Settings) error {
	switch s.Storage.Backend {
	case StorageBackendFile, StorageBackendSQLite:
	default:
		return fmt.Errorf("%w: unknown storage backend %q", ErrInvalidSettings, s.Storage.Backend)
	}
	switch s.Watchlist.InsertOrder {
	case InsertOrderPrepend, InsertOrderAppend:
	default:
		return fmt.Errorf("%w: unknown insert order %q", ErrInvalidSettings, s.Watchlist.InsertOrder)
	}
	if s.Server.Port <= 0 || s.Server.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidSettings, s.Server.Port)
	}
	if s.Search.MinQueryLength < 1 {
		return fmt.Errorf("%w: minimum query length must be positive", ErrInvalidSettings)
	}
	if s.Server.PIN != "" && !utils.ValidatePIN(s.Server.PIN) {
		return fmt.Errorf("%w: pin must be 6 digits", ErrInvalidSettings)
	}
	return nil
}

// normalize fills fields an older settings file may have left empty.
func normalize(s *Settings) {
	defaults := DefaultSettings()
	if s.Storage.Backend == "" {
		s.Storage.Backend = defaults.Storage.Backend
	}
	if strings.TrimSpace(s.Storage.Dir) == "" {
		s.Storage.Dir = defaults.Storage.Dir
	}
	if s.Storage.Backend == StorageBackendSQLite && s.Storage.DatabasePath == "" {
		s.Storage.DatabasePath = filepath.Join(s.Storage.Dir, "hotlist.db")
	}
	if s.Watchlist.InsertOrder == "" {
		s.Watchlist.InsertOrder = defaults.Watchlist.InsertOrder
	}
	if s.Search.DebounceMillis <= 0 {
		s.Search.DebounceMillis = defaults.Search.DebounceMillis
	}
	if s.Search.MinQueryLength == 0 {
		s.Search.MinQueryLength = defaults.Search.MinQueryLength
	}
	if s.Metadata.TMDBBaseURL == "" {
		s.Metadata.TMDBBaseURL = defaults.Metadata.TMDBBaseURL
	}
	if s.Metadata.ImageBaseURL == "" {
		s.Metadata.ImageBaseURL = defaults.Metadata.ImageBaseURL
	}
	if s.Metadata.MDBListBaseURL == "" {
		s.Metadata.MDBListBaseURL = defaults.Metadata.MDBListBaseURL
	}
	if s.Metadata.CacheTTLHours <= 0 {
		s.Metadata.CacheTTLHours = defaults.Metadata.CacheTTLHours
	}
	if s.Metadata.RequestsPerSecond <= 0 {
		s.Metadata.RequestsPerSecond = defaults.Metadata.RequestsPerSecond
	}
	if s.Metadata.BackfillWorkers <= 0 {
		s.Metadata.BackfillWorkers = defaults.Metadata.BackfillWorkers
	}
}

// applyEnv overrides secrets and paths from the environment.
func applyEnv(s *Settings, lookup func(string) (string, bool)) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	str("HOTLIST_TMDB_API_KEY", &s.Metadata.TMDBAPIKey)
	str("HOTLIST_MDBLIST_API_KEY", &s.Metadata.MDBListAPIKey)
	str("HOTLIST_DATA_DIR", &s.Storage.Dir)
	str("HOTLIST_HOST", &s.Server.Host)
	str("HOTLIST_PIN", &s.Server.PIN)
	str("HOTLIST_LOG_FILE", &s.Log.File)

	if v, ok := lookup("HOTLIST_STORAGE_BACKEND"); ok && v != "" {
		s.Storage.Backend = StorageBackend(strings.ToLower(strings.TrimSpace(v)))
	}
	if v, ok := lookup("HOTLIST_PORT"); ok {
		if port, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			s.Server.Port = port
		}
	}
}
