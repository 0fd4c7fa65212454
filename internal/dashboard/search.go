package dashboard

import (
	"sync"
	"time"
)

// Search debounces query changes: a burst of SetQuery calls results in a
// single apply once the query has been quiet for delay.
type Search struct {
	mu         sync.Mutex
	delay      time.Duration
	apply      func(query string)
	timer      *time.Timer
	gen        uint64
	pending    string
	hasPending bool
	closed     bool
}

// NewSearch creates a debouncer calling apply with the latest query. apply
// runs on the timer goroutine and must read whatever state it filters at call
// time.
func NewSearch(delay time.Duration, apply func(query string)) *Search {
	return &Search{
		delay: delay,
		apply: apply,
	}
}

// SetQuery records query and (re)starts the quiescence timer.
func (s *Search) SetQuery(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	s.pending = query
	s.hasPending = true
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
	}

	gen := s.gen
	s.timer = time.AfterFunc(s.delay, func() { s.fire(gen) })
}

// Pending returns the query waiting for the timer, if any.
func (s *Search) Pending() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.pending, s.hasPending
}

// Flush applies a pending query immediately.
func (s *Search) Flush() {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
	}
	query, ok := s.take()
	s.mu.Unlock()

	if ok {
		s.apply(query)
	}
}

// Close stops the timer; pending queries are dropped.
func (s *Search) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.hasPending = false
	if s.timer != nil {
		s.timer.Stop()
	}
}

func (s *Search) fire(gen uint64) {
	s.mu.Lock()
	// a newer SetQuery owns the timer now
	if gen != s.gen || s.closed {
		s.mu.Unlock()
		return
	}
	query, ok := s.take()
	s.mu.Unlock()

	if ok {
		s.apply(query)
	}
}

// take must be called with s.mu held.
func (s *Search) take() (string, bool) {
	if !s.hasPending {
		return "", false
	}
	s.hasPending = false
	return s.pending, true
}
