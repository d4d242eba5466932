package config

import (
	"time"
)

// InsertOrder controls where newly added watchlist items are placed.
type InsertOrder string

const (
	InsertOrderPrepend InsertOrder = "prepend"
	InsertOrderAppend  InsertOrder = "append"
)

// StorageBackend selects the persistent store implementation.
type StorageBackend string

const (
	StorageBackendFile   StorageBackend = "file"
	StorageBackendSQLite StorageBackend = "sqlite"
)

// Settings is the full application configuration.
type Settings struct {
	Server    ServerSettings    `json:"server"`
	Storage   StorageSettings   `json:"storage"`
	Metadata  MetadataSettings  `json:"metadata"`
	Search    SearchSettings    `json:"search"`
	Watchlist WatchlistSettings `json:"watchlist"`
	Log       LogSettings       `json:"log"`
}

type ServerSettings struct {
	Host string `json:"host"`
	Port int    `json:"port"`
	// PIN is plaintext input only. SealPIN replaces it with PINHash before
	// anything is written to disk.
	PIN string `json:"pin,omitempty"`
	// PINHash is the bcrypt hash of the PIN that protects the API; requests
	// must send the PIN in X-PIN.
	PINHash string `json:"pinHash,omitempty"`
	// SearchRequestsPerMinute limits /api/search per client IP.
	SearchRequestsPerMinute int `json:"searchRequestsPerMinute"`
	// AllowedOrigins are trusted for CORS on top of local network origins.
	AllowedOrigins []string `json:"allowedOrigins,omitempty"`
}

type StorageSettings struct {
	Backend      StorageBackend `json:"backend"`
	Dir          string         `json:"dir"`
	DatabasePath string         `json:"databasePath,omitempty"`
}

type MetadataSettings struct {
	TMDBAPIKey        string  `json:"tmdbApiKey"`
	TMDBBaseURL       string  `json:"tmdbBaseUrl"`
	ImageBaseURL      string  `json:"imageBaseUrl"`
	MDBListAPIKey     string  `json:"mdblistApiKey,omitempty"`
	MDBListBaseURL    string  `json:"mdblistBaseUrl"`
	CacheDir          string  `json:"cacheDir"`
	CacheTTLHours     int     `json:"cacheTtlHours"`
	RequestsPerSecond float64 `json:"requestsPerSecond"`
	TimeoutSeconds    int     `json:"timeoutSeconds"`
	BackfillWorkers   int     `json:"backfillWorkers"`
}

// Timeout returns the HTTP timeout for metadata requests.
func (m MetadataSettings) Timeout() time.Duration {
	if m.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(m.TimeoutSeconds) * time.Second
}

type SearchSettings struct {
	DebounceMillis int `json:"debounceMillis"`
	MinQueryLength int `json:"minQueryLength"`
}

// Debounce returns the quiet period before a search is issued.
func (s SearchSettings) Debounce() time.Duration {
	return time.Duration(s.DebounceMillis) * time.Millisecond
}

type WatchlistSettings struct {
	InsertOrder InsertOrder `json:"insertOrder"`
}

type LogSettings struct {
	File       string `json:"file,omitempty"`
	MaxSizeMB  int    `json:"maxSizeMb"`
	MaxBackups int    `json:"maxBackups"`
	MaxAgeDays int    `json:"maxAgeDays"`
}

// DefaultSettings returns the configuration used when no settings file exists.
func DefaultSettings() Settings {
	return Settings{
		Server: ServerSettings{
			Host:                    "127.0.0.1",
			Port:                    7777,
			SearchRequestsPerMinute: 120,
		},
		Storage: StorageSettings{
			Backend: StorageBackendFile,
			Dir:     "data",
		},
		Metadata: MetadataSettings{
			TMDBBaseURL:       "https://api.themoviedb.org/3",
			ImageBaseURL:      "https://image.tmdb.org/t/p/w500",
			MDBListBaseURL:    "https://api.mdblist.com",
			CacheDir:          "cache",
			CacheTTLHours:     24,
			RequestsPerSecond: 20,
			TimeoutSeconds:    10,
			BackfillWorkers:   4,
		},
		Search: SearchSettings{
			DebounceMillis: 300,
			MinQueryLength: 2,
		},
		Watchlist: WatchlistSettings{
			InsertOrder: InsertOrderPrepend,
		},
		Log: LogSettings{
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}
