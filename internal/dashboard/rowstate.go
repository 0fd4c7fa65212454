package dashboard

import (
	"maps"
	"sync"
	"time"

	"github.com/tuanvumaihuynh/stockdesk/internal/apperr"
)

// RowState is the transient status-update state of one order. The absence of
// a RowState means the row is idle.
type RowState struct {
	Loading bool    `json:"isLoading"`
	Error   *string `json:"error"`
}

type rowRecord struct {
	state RowState
	gen   uint64
}

// RowStates tracks per-order status updates: Loading, then Success or Error,
// then back to idle after a delay. Every attempt gets a generation so a revert
// timer only clears the attempt that scheduled it.
type RowStates struct {
	mu            sync.Mutex
	rows          map[string]rowRecord
	timers        map[uint64]*time.Timer
	lastGen       uint64
	successRevert time.Duration
	errorRevert   time.Duration
	closed        bool
}

func NewRowStates(successRevert, errorRevert time.Duration) *RowStates {
	return &RowStates{
		rows:          make(map[string]rowRecord),
		timers:        make(map[uint64]*time.Timer),
		successRevert: successRevert,
		errorRevert:   errorRevert,
	}
}

// Begin moves the row to Loading and returns the attempt's generation. It
// fails while a previous attempt for the same row is still loading.
func (r *RowStates) Begin(id string) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec, ok := r.rows[id]; ok && rec.state.Loading {
		return 0, apperr.UpdateInFlightErr
	}

	r.lastGen++
	r.rows[id] = rowRecord{state: RowState{Loading: true}, gen: r.lastGen}

	return r.lastGen, nil
}

func (r *RowStates) Succeed(id string, gen uint64) {
	r.finish(id, gen, RowState{}, r.successRevert)
}

func (r *RowStates) Fail(id string, gen uint64, msg string) {
	r.finish(id, gen, RowState{Error: &msg}, r.errorRevert)
}

// Get returns the row's state; ok is false when the row is idle.
func (r *RowStates) Get(id string) (RowState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.rows[id]
	return rec.state, ok
}

func (r *RowStates) Snapshot() map[string]RowState {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]RowState, len(r.rows))
	for id, rec := range r.rows {
		out[id] = rec.state
	}
	return out
}

// Close stops every pending revert timer.
func (r *RowStates) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true
	for t := range maps.Values(r.timers) {
		t.Stop()
	}
	clear(r.timers)
}

func (r *RowStates) finish(id string, gen uint64, state RowState, revertAfter time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.rows[id]
	if !ok || rec.gen != gen {
		return
	}
	r.rows[id] = rowRecord{state: state, gen: gen}

	if r.closed {
		return
	}
	r.timers[gen] = time.AfterFunc(revertAfter, func() { r.revert(id, gen) })
}

func (r *RowStates) revert(id string, gen uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.timers, gen)
	if rec, ok := r.rows[id]; ok && rec.gen == gen {
		delete(r.rows, id)
	}
}
