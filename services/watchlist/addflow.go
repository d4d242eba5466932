package watchlist

import (
	"context"
	"errors"
	"strings"
	"sync"

	"hotlist/models"
	"hotlist/services/search"
)

var (
	ErrSubmitPending = errors.New("an item is already being added")
	ErrNoCandidate   = errors.New("no candidate selected")
)

// AddState is the state of the add-item interaction. Exactly one of the
// Add* types below is current at any time.
type AddState interface {
	addState()
}

// AddIdle means no add is in progress.
type AddIdle struct{}

// AddSearching holds the query being typed and the latest results for it.
type AddSearching struct {
	Query   string
	Loading bool
	Results []models.CandidateResult
}

// AddCandidateSelected waits for the user to fill in friend and streaming.
type AddCandidateSelected struct {
	Candidate models.CandidateResult
}

// AddEnriching means the candidate is being enriched and inserted.
type AddEnriching struct {
	Candidate models.CandidateResult
}

// AddFailed keeps the candidate so the user can retry.
type AddFailed struct {
	Candidate models.CandidateResult
	Err       error
}

func (AddIdle) addState()              {}
func (AddSearching) addState()         {}
func (AddCandidateSelected) addState() {}
func (AddEnriching) addState()         {}
func (AddFailed) addState()            {}

// AddFlow drives the search, select and submit steps of adding an item.
type AddFlow struct {
	engine    *Engine
	debouncer *search.Debouncer

	// serializes SetQuery so state and debouncer generation advance together
	inputMu sync.Mutex

	mu    sync.Mutex
	state AddState
}

// NewAddFlow creates a flow that searches with searchFn and adds through engine.
func NewAddFlow(engine *Engine, searchFn search.Func, opts ...search.Option) *AddFlow {
	f := &AddFlow{engine: engine, state: AddIdle{}}
	f.debouncer = search.NewDebouncer(searchFn, f.deliver, opts...)
	return f
}

// State returns the current state.
func (f *AddFlow) State() AddState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// SetQuery records a keystroke. Results arrive once typing pauses.
func (f *AddFlow) SetQuery(query string) AddState {
	f.inputMu.Lock()
	defer f.inputMu.Unlock()

	query = strings.TrimSpace(query)
	f.mu.Lock()
	if _, busy := f.state.(AddEnriching); busy {
		state := f.state
		f.mu.Unlock()
		return state
	}
	f.state = AddSearching{Query: query, Loading: true}
	f.mu.Unlock()

	f.debouncer.Input(query)
	return f.State()
}

func (f *AddFlow) deliver(r search.Result) {
	f.mu.Lock()
	defer f.mu.Unlock()

	current, ok := f.state.(AddSearching)
	if !ok || current.Query != r.Query {
		return
	}
	f.state = AddSearching{Query: r.Query, Results: r.Candidates}
}

// Select picks a candidate and stops any pending search.
func (f *AddFlow) Select(candidate models.CandidateResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, busy := f.state.(AddEnriching); busy {
		return ErrSubmitPending
	}
	if strings.TrimSpace(candidate.Title) == "" || !candidate.MediaType.Valid() {
		return ErrInvalidCandidate
	}
	f.debouncer.Cancel()
	f.state = AddCandidateSelected{Candidate: candidate}
	return nil
}

// Submit adds the selected candidate. A second Submit while the first is
// still enriching is rejected with ErrSubmitPending.
func (f *AddFlow) Submit(ctx context.Context, friendName, streamingLabel, note string) (models.WatchlistItem, error) {
	f.mu.Lock()
	var candidate models.CandidateResult
	switch st := f.state.(type) {
	case AddEnriching:
		f.mu.Unlock()
		return models.WatchlistItem{}, ErrSubmitPending
	case AddCandidateSelected:
		candidate = st.Candidate
	case AddFailed:
		candidate = st.Candidate
	default:
		f.mu.Unlock()
		return models.WatchlistItem{}, ErrNoCandidate
	}
	if strings.TrimSpace(friendName) == "" {
		f.mu.Unlock()
		return models.WatchlistItem{}, ErrFriendRequired
	}
	f.state = AddEnriching{Candidate: candidate}
	f.mu.Unlock()

	item, err := f.engine.AddItem(ctx, candidate, friendName, streamingLabel, note)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil && !errors.Is(err, ErrCommitFailed) {
		f.state = AddFailed{Candidate: candidate, Err: err}
		return models.WatchlistItem{}, err
	}
	f.state = AddIdle{}
	return item, err
}

// Reset abandons the interaction. It has no effect while enriching.
func (f *AddFlow) Reset() AddState {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, busy := f.state.(AddEnriching); busy {
		return f.state
	}
	f.debouncer.Cancel()
	f.state = AddIdle{}
	return f.state
}

// Close stops the search debouncer.
func (f *AddFlow) Close() {
	f.debouncer.Close()
}
