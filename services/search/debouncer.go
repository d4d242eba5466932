// Package search debounces free-text metadata lookups.
package search

import (
	"context"
	"iter"
	"log"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"hotlist/models"
)

const (
	DefaultDelay     = 300 * time.Millisecond
	DefaultMinLength = 2
)

// Func runs one remote search.
type Func func(ctx context.Context, query string) iter.Seq[models.CandidateResult]

// Result is delivered once per generation that survives the quiet period.
type Result struct {
	Generation uint64
	Query      string
	Candidates []models.CandidateResult
}

// Debouncer delays a search until input pauses. Every Input starts a new
// generation; results are delivered only while their generation is current,
// so a superseded search never reaches the caller.
type Debouncer struct {
	search  Func
	deliver func(Result)
	delay   time.Duration
	minLen  int

	mu         sync.Mutex
	generation uint64
	timer      *time.Timer
	cancel     context.CancelFunc
	closed     bool

	// held while delivering so a stale result cannot land after a newer one
	deliverMu sync.Mutex
}

// Option customizes a Debouncer.
type Option func(*Debouncer)

// WithDelay sets the quiet period.
func WithDelay(d time.Duration) Option {
	return func(db *Debouncer) {
		if d > 0 {
			db.delay = d
		}
	}
}

// WithMinLength sets the shortest query that arms the timer.
func WithMinLength(n int) Option {
	return func(db *Debouncer) {
		if n > 0 {
			db.minLen = n
		}
	}
}

// NewDebouncer creates a debouncer that runs search and hands the results to
// deliver. deliver is called from a timer goroutine and must not call Input.
func NewDebouncer(search Func, deliver func(Result), opts ...Option) *Debouncer {
	d := &Debouncer{
		search:  search,
		deliver: deliver,
		delay:   DefaultDelay,
		minLen:  DefaultMinLength,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Input records a keystroke and returns the new generation. Queries shorter
// than the minimum length deliver an empty result right away and arm no timer.
func (d *Debouncer) Input(query string) uint64 {
	query = strings.TrimSpace(query)

	d.mu.Lock()
	d.generation++
	gen := d.generation
	d.stopLocked()
	if d.closed {
		d.mu.Unlock()
		return gen
	}
	if utf8.RuneCountInString(query) < d.minLen {
		d.mu.Unlock()
		d.publish(Result{Generation: gen, Query: query})
		return gen
	}
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen, query) })
	d.mu.Unlock()
	return gen
}

// Cancel supersedes any pending or in-flight search without starting a new one.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.generation++
	d.stopLocked()
}

// Close cancels outstanding work; later Input calls are ignored.
func (d *Debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	d.generation++
	d.stopLocked()
}

// Generation returns the current query generation.
func (d *Debouncer) Generation() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.generation
}

func (d *Debouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}

func (d *Debouncer) fire(gen uint64, query string) {
	d.mu.Lock()
	if d.closed || gen != d.generation {
		d.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.timer = nil
	d.mu.Unlock()
	defer cancel()

	candidates := slices.Collect(d.search(ctx, query))
	if ctx.Err() != nil {
		log.Printf("[search] discarded superseded results for %q", query)
		return
	}
	d.publish(Result{Generation: gen, Query: query, Candidates: candidates})
}

func (d *Debouncer) publish(r Result) {
	d.deliverMu.Lock()
	defer d.deliverMu.Unlock()
	if d.Generation() != r.Generation || d.deliver == nil {
		return
	}
	d.deliver(r)
}
