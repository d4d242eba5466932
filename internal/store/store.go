// Package store persists the watchlist snapshot section by section so a
// corrupt section never takes the others down with it.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"

	"hotlist/models"
)

// Section keys. They match the keys the first releases used so existing data
// keeps loading.
const (
	KeyItems        = "hotlist_movies"
	KeyFriends      = "hotlist_friends"
	KeyRatingSource = "hotlist_rating_pref"
	KeyProfile      = "hotlist_profile"
	KeyOnboarding   = "hotlist_onboarding_complete"
)

var (
	ErrNotLoaded      = errors.New("store: save attempted before initial load completed")
	ErrBackendMissing = errors.New("store: backend is required")
)

// Backend is a durable key/value space.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
}

// Store maps snapshots onto a Backend.
type Store struct {
	backend Backend

	mu     sync.Mutex
	loaded bool
}

// New creates a store on top of the backend.
func New(backend Backend) (*Store, error) {
	if backend == nil {
		return nil, ErrBackendMissing
	}
	return &Store{backend: backend}, nil
}

// Loaded reports whether Load has completed at least once.
func (s *Store) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Load reads every section. Missing, unreadable or malformed sections are
// replaced by their defaults; Load itself only fails when ctx is done.
func (s *Store) Load(ctx context.Context) (models.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := models.EmptySnapshot()

	if raw, ok := s.read(ctx, KeyItems); ok {
		if items, err := decodeItems(raw); err != nil {
			log.Printf("[store] discarding malformed %s: %v", KeyItems, err)
		} else {
			snap.Items = items
		}
	}

	if raw, ok := s.read(ctx, KeyFriends); ok {
		var friends []models.Friend
		if err := json.Unmarshal(raw, &friends); err != nil {
			log.Printf("[store] discarding malformed %s: %v", KeyFriends, err)
		} else {
			snap.Friends = cleanFriends(friends)
		}
	}

	if raw, ok := s.read(ctx, KeyRatingSource); ok {
		if src, ok := decodeRatingSource(raw); ok {
			snap.Preferences.RatingSource = src
		} else {
			log.Printf("[store] discarding unknown %s value %q", KeyRatingSource, raw)
		}
	}

	if raw, ok := s.read(ctx, KeyProfile); ok {
		var profile models.Profile
		if err := json.Unmarshal(raw, &profile); err != nil {
			log.Printf("[store] discarding malformed %s: %v", KeyProfile, err)
		} else if !profile.IsZero() {
			snap.Preferences.Profile = &profile
		}
	}

	if raw, ok := s.read(ctx, KeyOnboarding); ok {
		snap.OnboardingComplete = decodeFlag(raw)
	}

	if err := ctx.Err(); err != nil {
		return models.EmptySnapshot(), err
	}

	s.loaded = true
	return snap, nil
}

// Save writes every section. It refuses to run before Load so a blank
// initial state cannot clobber persisted data.
func (s *Store) Save(ctx context.Context, snap models.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return ErrNotLoaded
	}

	items := snap.Items
	if items == nil {
		items = []models.WatchlistItem{}
	}
	friends := snap.Friends
	if friends == nil {
		friends = []models.Friend{}
	}
	source := snap.Preferences.RatingSource
	if source == "" {
		source = models.RatingSourcePrimary
	}

	sections := []struct {
		key   string
		value any
	}{
		{KeyItems, items},
		{KeyFriends, friends},
		{KeyRatingSource, string(source)},
		{KeyProfile, snap.Preferences.Profile},
		{KeyOnboarding, snap.OnboardingComplete},
	}

	var errs []error
	for _, section := range sections {
		data, err := json.Marshal(section.value)
		if err != nil {
			errs = append(errs, fmt.Errorf("encode %s: %w", section.key, err))
			continue
		}
		if err := s.backend.Put(ctx, section.key, data); err != nil {
			errs = append(errs, fmt.Errorf("write %s: %w", section.key, err))
		}
	}
	return errors.Join(errs...)
}

func (s *Store) read(ctx context.Context, key string) ([]byte, bool) {
	raw, ok, err := s.backend.Get(ctx, key)
	if err != nil {
		log.Printf("[store] failed to read %s: %v", key, err)
		return nil, false
	}
	if !ok || len(strings.TrimSpace(string(raw))) == 0 {
		return nil, false
	}
	return raw, true
}

func cleanFriends(friends []models.Friend) []models.Friend {
	out := make([]models.Friend, 0, len(friends))
	seen := make(map[string]struct{}, len(friends))
	for _, f := range friends {
		f.Name = strings.TrimSpace(f.Name)
		if f.Name == "" || f.ID == "" {
			continue
		}
		if _, dup := seen[f.ID]; dup {
			continue
		}
		seen[f.ID] = struct{}{}
		out = append(out, f)
	}
	return out
}

// decodeRatingSource accepts a JSON string or the bare legacy value.
func decodeRatingSource(raw []byte) (models.RatingSource, bool) {
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		value = string(raw)
	}
	return models.ParseRatingSource(value)
}

// decodeFlag accepts true/false as JSON or as the legacy "true" string.
func decodeFlag(raw []byte) bool {
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		raw = []byte(str)
	}
	b, _ = strconv.ParseBool(strings.TrimSpace(string(raw)))
	return b
}
