package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tuanvumaihuynh/stockdesk/internal/apperr"
)

// Token is a bearer token with an optional expiry. A zero ExpiresAt never expires.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// Valid reports whether the token can still be used at now, keeping leeway in reserve.
func (t Token) Valid(now time.Time, leeway time.Duration) bool {
	if t.Value == "" {
		return false
	}
	if t.ExpiresAt.IsZero() {
		return true
	}
	return now.Add(leeway).Before(t.ExpiresAt)
}

// Refresher obtains a new token when the current one is missing or expired.
type Refresher interface {
	Refresh(ctx context.Context) (Token, error)
}

// RefresherFunc adapts a function to Refresher.
type RefresherFunc func(ctx context.Context) (Token, error)

func (f RefresherFunc) Refresh(ctx context.Context) (Token, error) {
	return f(ctx)
}

// Session holds the credentials used by the remote client. It is passed to the
// client explicitly at construction instead of being read from global state.
type Session struct {
	mu        sync.Mutex
	token     Token
	refresher Refresher
	leeway    time.Duration
	now       func() time.Time
}

type Option func(*Session)

// WithLeeway refreshes tokens this long before they actually expire.
func WithLeeway(d time.Duration) Option {
	return func(s *Session) { s.leeway = d }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// New creates a session starting from initial. refresher may be nil.
func New(initial Token, refresher Refresher, opts ...Option) *Session {
	s := &Session{
		token:     initial,
		refresher: refresher,
		leeway:    30 * time.Second,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Static creates a session around a fixed, non-expiring token.
func Static(token string) *Session {
	return New(Token{Value: token}, nil)
}

// Token returns a usable bearer token, refreshing it first if needed.
func (s *Session) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token.Valid(s.now(), s.leeway) {
		return s.token.Value, nil
	}

	if s.refresher == nil {
		return "", apperr.SessionUnavailableErr
	}

	tok, err := s.refresher.Refresh(ctx)
	if err != nil {
		return "", apperr.SessionUnavailableErr.WrapParent(fmt.Errorf("refresh token: %w", err))
	}
	if !tok.Valid(s.now(), 0) {
		return "", apperr.SessionUnavailableErr
	}

	s.token = tok
	return tok.Value, nil
}

// Invalidate drops the current token, typically after the remote service
// answered 401, so the next call goes through the refresher.
func (s *Session) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.refresher != nil {
		s.token = Token{}
	}
}
