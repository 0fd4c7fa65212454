package dashboard

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/stockdesk/internal/apperr"
)

// Confirmation describes a destructive action waiting for the user to confirm it.
type Confirmation struct {
	Token        string `json:"token"`
	Kind         string `json:"kind"`
	TargetID     string `json:"targetId"`
	Title        string `json:"title"`
	Message      string `json:"message"`
	ConfirmLabel string `json:"confirmLabel"`
	CancelLabel  string `json:"cancelLabel"`
}

type pendingConfirmation struct {
	Confirmation
	commit  func(ctx context.Context) error
	running bool
}

// Confirmations holds pending confirmations. Nothing runs until Confirm is
// called with the token; Cancel discards the descriptor without side effects.
type Confirmations struct {
	mu      sync.Mutex
	pending map[string]*pendingConfirmation
}

func NewConfirmations() *Confirmations {
	return &Confirmations{
		pending: make(map[string]*pendingConfirmation),
	}
}

// Request registers a confirmation whose commit runs on Confirm. A target
// has at most one pending confirmation: requesting it again returns the
// existing one.
func (c *Confirmations) Request(desc Confirmation, commit func(ctx context.Context) error) Confirmation {
	if desc.ConfirmLabel == "" {
		desc.ConfirmLabel = "Delete"
	}
	if desc.CancelLabel == "" {
		desc.CancelLabel = "Cancel"
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if desc.TargetID != "" {
		for _, p := range c.pending {
			if p.Kind == desc.Kind && p.TargetID == desc.TargetID {
				return p.Confirmation
			}
		}
	}

	desc.Token = uuid.NewString()
	c.pending[desc.Token] = &pendingConfirmation{Confirmation: desc, commit: commit}
	return desc
}

func (c *Confirmations) Get(token string) (Confirmation, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.pending[token]
	if !ok {
		return Confirmation{}, false
	}
	return p.Confirmation, true
}

// Confirm runs the bound commit. The confirmation is discarded when the commit
// succeeds or its target no longer exists; on any other failure it stays
// pending so it can be retried or cancelled.
func (c *Confirmations) Confirm(ctx context.Context, token string) error {
	c.mu.Lock()
	p, ok := c.pending[token]
	if !ok {
		c.mu.Unlock()
		return apperr.ConfirmationNotFoundErr
	}
	if p.running {
		c.mu.Unlock()
		return apperr.UpdateInFlightErr.WithMsg("confirmation is already being processed")
	}
	p.running = true
	c.mu.Unlock()

	err := p.commit(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	p.running = false
	if err != nil && !errors.Is(err, apperr.NotFoundErr) {
		return err
	}
	delete(c.pending, token)

	return err
}

// Cancel discards a pending confirmation without running it.
func (c *Confirmations) Cancel(token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.pending[token]
	if !ok {
		return apperr.ConfirmationNotFoundErr
	}
	if p.running {
		return apperr.UpdateInFlightErr.WithMsg("confirmation is already being processed")
	}
	delete(c.pending, token)

	return nil
}

func (c *Confirmations) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.pending)
}
