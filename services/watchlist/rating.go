package watchlist

import (
	"context"

	"hotlist/models"
)

// PendingRating returns the current rating obligation, if any.
func (e *Engine) PendingRating() (PendingRating, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.pending == nil {
		return PendingRating{}, false
	}
	p := PendingRating{ItemID: e.pending.ItemID}
	if e.pending.Draft != nil {
		v := *e.pending.Draft
		p.Draft = &v
	}
	return p, true
}

// SetDraftRating records the value the user is previewing for the pending
// item. Nothing is persisted.
func (e *Engine) SetDraftRating(id string, value float64) error {
	if !models.ValidRating(value) {
		return ErrInvalidRating
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkPendingLocked(id); err != nil {
		return err
	}
	e.pending.Draft = &value
	return nil
}

// RatingPreview returns the pending item as it would look with the draft
// rating applied.
func (e *Engine) RatingPreview() (models.WatchlistItem, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.pending == nil {
		return models.WatchlistItem{}, false
	}
	idx := e.indexLocked(e.pending.ItemID)
	if idx < 0 {
		return models.WatchlistItem{}, false
	}
	preview := e.items[idx].Clone()
	if e.pending.Draft != nil {
		v := *e.pending.Draft
		preview.MyRating = &v
	}
	return preview, true
}

// CancelRating drops the obligation without rating. The item stays watched.
func (e *Engine) CancelRating() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pending = nil
}

// RateItem records rating for id. It only applies while id is the pending
// rating subject and clears the obligation on success.
func (e *Engine) RateItem(ctx context.Context, id string, rating float64) (models.WatchlistItem, error) {
	if !models.ValidRating(rating) {
		return models.WatchlistItem{}, ErrInvalidRating
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.loaded {
		return models.WatchlistItem{}, ErrNotLoaded
	}
	if err := e.checkPendingLocked(id); err != nil {
		return models.WatchlistItem{}, err
	}
	idx := e.indexLocked(id)
	if idx < 0 {
		e.pending = nil
		return models.WatchlistItem{}, ErrItemNotFound
	}

	e.items[idx].MyRating = &rating
	e.pending = nil
	return e.items[idx].Clone(), e.commitLocked(ctx)
}

func (e *Engine) checkPendingLocked(id string) error {
	switch {
	case e.pending == nil:
		return ErrNoPendingRating
	case e.pending.ItemID != id:
		return ErrStalePendingRating
	}
	return nil
}
