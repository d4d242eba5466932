// Package watchlist owns the canonical watchlist: item order, the status
// lifecycle, the rating obligation and everything that is persisted.
package watchlist

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"hotlist/config"
	"hotlist/models"
)

var (
	ErrNotLoaded           = errors.New("watchlist not loaded")
	ErrItemNotFound        = errors.New("watchlist item not found")
	ErrFriendNotFound      = errors.New("friend not found")
	ErrFriendNameRequired  = errors.New("friend name is required")
	ErrFriendRequired      = errors.New("a recommending friend is required")
	ErrInvalidCandidate    = errors.New("candidate needs a title and a media type")
	ErrInvalidStatus       = errors.New("invalid status")
	ErrInvalidRating       = errors.New("rating must be a multiple of 0.5 between 0.5 and 5")
	ErrInvalidRatingSource = errors.New("invalid rating source")
	ErrNotActive           = errors.New("only items that are not watched can be reordered")
	ErrNoPendingRating     = errors.New("no rating is pending")
	ErrStalePendingRating  = errors.New("rating is pending for a different item")
	ErrCommitFailed        = errors.New("changes could not be saved")
)

// Persister loads and saves complete snapshots.
type Persister interface {
	Load(ctx context.Context) (models.Snapshot, error)
	Save(ctx context.Context, snap models.Snapshot) error
}

// Enricher turns a candidate into a complete item and backfills details for
// stored items.
type Enricher interface {
	Enrich(ctx context.Context, candidate models.CandidateResult, friendName, streamingLabel, note string) models.WatchlistItem
	Backfill(ctx context.Context, items []models.WatchlistItem) map[string]models.DetailRecord
}

// PendingRating marks the item that awaits a rating after being watched.
// Draft holds the value the user is previewing, if any.
type PendingRating struct {
	ItemID string   `json:"itemId"`
	Draft  *float64 `json:"draft,omitempty"`
}

// Engine mediates every mutation of the watchlist. Each operation runs to
// completion under the engine lock; remote lookups happen outside it.
type Engine struct {
	store    Persister
	enricher Enricher
	order    config.InsertOrder
	now      func() time.Time

	mu        sync.Mutex
	loaded    bool
	items     []models.WatchlistItem
	friends   []models.Friend
	prefs     models.Preferences
	onboarded bool
	pending   *PendingRating
	subs      map[int]chan models.Snapshot
	nextSubID int
}

// Option customizes an Engine.
type Option func(*Engine)

// WithInsertOrder controls whether new items go to the front or the back.
func WithInsertOrder(order config.InsertOrder) Option {
	return func(e *Engine) {
		if order == config.InsertOrderAppend || order == config.InsertOrderPrepend {
			e.order = order
		}
	}
}

// WithClock overrides the engine's time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine creates an engine. Call Load before any other operation.
func NewEngine(store Persister, enricher Enricher, opts ...Option) *Engine {
	e := &Engine{
		store:    store,
		enricher: enricher,
		order:    config.InsertOrderPrepend,
		now:      time.Now,
		prefs:    models.DefaultPreferences(),
		subs:     make(map[int]chan models.Snapshot),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Load replaces the in-memory state with the persisted snapshot.
func (e *Engine) Load(ctx context.Context) error {
	snap, err := e.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load watchlist: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.items = snap.Items
	if e.items == nil {
		e.items = []models.WatchlistItem{}
	}
	e.friends = snap.Friends
	if e.friends == nil {
		e.friends = []models.Friend{}
	}
	e.prefs = snap.Preferences
	if e.prefs.RatingSource == "" {
		e.prefs.RatingSource = models.RatingSourcePrimary
	}
	e.onboarded = snap.OnboardingComplete
	e.pending = nil
	e.loaded = true

	log.Printf("[watchlist] loaded %d items and %d friends", len(e.items), len(e.friends))
	e.notifyLocked()
	return nil
}

// Loaded reports whether Load has completed.
func (e *Engine) Loaded() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loaded
}

// Snapshot returns a deep copy of the current state.
func (e *Engine) Snapshot() models.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Subscribe returns a channel that receives the latest snapshot after every
// mutation. Slow readers only ever see the newest state. The returned func
// unsubscribes and closes the channel.
func (e *Engine) Subscribe() (<-chan models.Snapshot, func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.nextSubID
	e.nextSubID++
	ch := make(chan models.Snapshot, 1)
	e.subs[id] = ch
	if e.loaded {
		ch <- e.snapshotLocked()
	}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			e.mu.Lock()
			defer e.mu.Unlock()
			delete(e.subs, id)
			close(ch)
		})
	}
}

func (e *Engine) snapshotLocked() models.Snapshot {
	items := make([]models.WatchlistItem, len(e.items))
	for i, item := range e.items {
		items[i] = item.Clone()
	}
	friends := append([]models.Friend{}, e.friends...)
	prefs := e.prefs
	if e.prefs.Profile != nil {
		p := *e.prefs.Profile
		p.FavoriteGenres = append([]string(nil), p.FavoriteGenres...)
		p.StreamingServices = append([]string(nil), p.StreamingServices...)
		prefs.Profile = &p
	}
	return models.Snapshot{
		Items:              items,
		Friends:            friends,
		Preferences:        prefs,
		OnboardingComplete: e.onboarded,
	}
}

// commitLocked persists the current state and notifies subscribers. A failed
// save leaves the in-memory state in place.
func (e *Engine) commitLocked(ctx context.Context) error {
	snap := e.snapshotLocked()
	e.publishLocked(snap)
	if err := e.store.Save(ctx, snap); err != nil {
		log.Printf("[watchlist] failed to persist watchlist: %v", err)
		return fmt.Errorf("%w: %w", ErrCommitFailed, err)
	}
	return nil
}

func (e *Engine) notifyLocked() {
	if len(e.subs) == 0 {
		return
	}
	e.publishLocked(e.snapshotLocked())
}

func (e *Engine) publishLocked(snap models.Snapshot) {
	for _, ch := range e.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}

func (e *Engine) indexLocked(id string) int {
	for i := range e.items {
		if e.items[i].ID == id {
			return i
		}
	}
	return -1
}

// uniqueIDLocked returns id, or id with a time-ordered suffix when id is taken.
func (e *Engine) uniqueIDLocked(id string) string {
	if id != "" && e.indexLocked(id) < 0 {
		return id
	}
	for {
		suffix, err := uuid.NewV7()
		if err != nil {
			suffix = uuid.New()
		}
		candidate := suffix.String()
		if id != "" {
			candidate = id + "-" + candidate
		}
		if e.indexLocked(candidate) < 0 {
			return candidate
		}
	}
}
