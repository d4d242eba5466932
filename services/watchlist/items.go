package watchlist

import (
	"context"
	"log"
	"slices"
	"strings"

	"hotlist/config"
	"hotlist/models"
	"hotlist/services/enrichment"
	"hotlist/utils"
)

// View selects which part of the canonical list is returned.
type View string

const (
	ViewAll     View = "all"
	ViewActive  View = "active"
	ViewWatched View = "watched"
)

// ParseView maps a query value to a View, defaulting to ViewAll.
func ParseView(value string) View {
	switch View(strings.ToLower(strings.TrimSpace(value))) {
	case ViewActive:
		return ViewActive
	case ViewWatched:
		return ViewWatched
	}
	return ViewAll
}

func (v View) includes(item models.WatchlistItem) bool {
	switch v {
	case ViewActive:
		return item.Status.Active()
	case ViewWatched:
		return item.Status == models.StatusWatched
	}
	return true
}

// AddItem enriches the candidate and inserts the resulting item. Enrichment
// runs without the engine lock, so concurrent additions land in the order
// they finish. A friend name that is not yet known is added to the friends.
func (e *Engine) AddItem(ctx context.Context, candidate models.CandidateResult, friendName, streamingLabel, note string) (models.WatchlistItem, error) {
	friendName = strings.TrimSpace(friendName)
	if friendName == "" {
		return models.WatchlistItem{}, ErrFriendRequired
	}
	if strings.TrimSpace(candidate.Title) == "" || !candidate.MediaType.Valid() {
		return models.WatchlistItem{}, ErrInvalidCandidate
	}
	if !e.Loaded() {
		return models.WatchlistItem{}, ErrNotLoaded
	}

	item := e.enricher.Enrich(ctx, candidate, friendName, streamingLabel, note)

	e.mu.Lock()
	defer e.mu.Unlock()

	item.ID = e.uniqueIDLocked(item.ID)
	item.Status = models.StatusWant
	item.MyRating = nil
	if item.DateAdded.IsZero() {
		item.DateAdded = e.now()
	}
	if item.StreamingLabel == "" {
		item.StreamingLabel = models.UnknownStreaming
	}

	if e.order == config.InsertOrderAppend {
		e.items = append(e.items, item)
	} else {
		e.items = slices.Insert(e.items, 0, item)
	}
	if e.friendByNameLocked(friendName) < 0 {
		e.friends = append(e.friends, models.Friend{ID: newFriendID(), Name: friendName})
	}

	log.Printf("[watchlist] added %s %q recommended by %s", item.MediaType, item.Title, item.RecommendedBy)
	return item.Clone(), e.commitLocked(ctx)
}

// DeleteItem removes an item. A rating pending on it is dropped.
func (e *Engine) DeleteItem(ctx context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.loaded {
		return ErrNotLoaded
	}
	idx := e.indexLocked(id)
	if idx < 0 {
		return ErrItemNotFound
	}
	e.items = slices.Delete(e.items, idx, idx+1)
	if e.pending != nil && e.pending.ItemID == id {
		e.pending = nil
	}
	return e.commitLocked(ctx)
}

// SetStatus moves an item to status. Entering watched makes the item the
// subject of the pending rating, replacing any earlier one. Leaving watched
// keeps the recorded rating.
func (e *Engine) SetStatus(ctx context.Context, id string, status models.Status) (models.WatchlistItem, error) {
	if !status.Valid() {
		return models.WatchlistItem{}, ErrInvalidStatus
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.loaded {
		return models.WatchlistItem{}, ErrNotLoaded
	}
	idx := e.indexLocked(id)
	if idx < 0 {
		return models.WatchlistItem{}, ErrItemNotFound
	}

	e.items[idx].Status = status
	switch {
	case status == models.StatusWatched:
		e.pending = &PendingRating{ItemID: id}
	case e.pending != nil && e.pending.ItemID == id:
		e.pending = nil
	}
	return e.items[idx].Clone(), e.commitLocked(ctx)
}

// Reorder moves source to target's position within the active items. The
// source lands after the target when moving down and before it when moving
// up; watched items keep their positions in the canonical list.
func (e *Engine) Reorder(ctx context.Context, sourceID, targetID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.loaded {
		return ErrNotLoaded
	}
	src, dst := e.indexLocked(sourceID), e.indexLocked(targetID)
	if src < 0 || dst < 0 {
		return ErrItemNotFound
	}
	if !e.items[src].Status.Active() || !e.items[dst].Status.Active() {
		return ErrNotActive
	}
	if src == dst {
		return nil
	}

	var slots []int
	var active []models.WatchlistItem
	from, to := -1, -1
	for i, item := range e.items {
		if !item.Status.Active() {
			continue
		}
		switch i {
		case src:
			from = len(active)
		case dst:
			to = len(active)
		}
		slots = append(slots, i)
		active = append(active, item)
	}

	moved := active[from]
	active = slices.Delete(active, from, from+1)
	active = slices.Insert(active, to, moved)
	for k, slot := range slots {
		e.items[slot] = active[k]
	}
	return e.commitLocked(ctx)
}

// Items returns every item in canonical order.
func (e *Engine) Items() []models.WatchlistItem {
	return e.Filter(ViewAll, "")
}

// Active returns the items that are not watched, in canonical order.
func (e *Engine) Active() []models.WatchlistItem {
	return e.Filter(ViewActive, "")
}

// Watched returns the watched items, in canonical order.
func (e *Engine) Watched() []models.WatchlistItem {
	return e.Filter(ViewWatched, "")
}

// Item returns a copy of the item with the given id.
func (e *Engine) Item(id string) (models.WatchlistItem, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := e.indexLocked(id)
	if idx < 0 {
		return models.WatchlistItem{}, false
	}
	return e.items[idx].Clone(), true
}

// Filter returns the items in view whose title, recommender, director or cast
// match query, ignoring case and accents. An empty query matches everything.
func (e *Engine) Filter(view View, query string) []models.WatchlistItem {
	needle := utils.NormalizeText(query)

	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]models.WatchlistItem, 0, len(e.items))
	for _, item := range e.items {
		if !view.includes(item) {
			continue
		}
		if needle != "" && !matches(item, needle) {
			continue
		}
		out = append(out, item.Clone())
	}
	return out
}

func matches(item models.WatchlistItem, needle string) bool {
	fields := append([]string{item.Title, item.RecommendedBy, item.Director, item.StreamingLabel}, item.Cast...)
	for _, field := range fields {
		if strings.Contains(utils.NormalizeText(field), needle) {
			return true
		}
	}
	return false
}

// BackfillDetails fetches details for stored items that never got them and
// merges the results. Items deleted while the lookups ran are skipped.
func (e *Engine) BackfillDetails(ctx context.Context) (int, error) {
	if !e.Loaded() {
		return 0, ErrNotLoaded
	}

	var missing []models.WatchlistItem
	for _, item := range e.Items() {
		if item.NeedsDetails() {
			missing = append(missing, item)
		}
	}
	if len(missing) == 0 {
		return 0, nil
	}

	results := e.enricher.Backfill(ctx, missing)

	e.mu.Lock()
	defer e.mu.Unlock()

	updated := 0
	for id, details := range results {
		idx := e.indexLocked(id)
		if idx < 0 {
			continue
		}
		e.items[idx] = enrichment.Apply(e.items[idx], details)
		updated++
	}
	if updated == 0 {
		return 0, nil
	}
	log.Printf("[watchlist] backfilled details for %d items", updated)
	return updated, e.commitLocked(ctx)
}
