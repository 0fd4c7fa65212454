package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tuanvumaihuynh/stockdesk/internal/session"
	"github.com/tuanvumaihuynh/stockdesk/internal/storage/db"
)

// ErrNoActiveSession is returned when the sessions table holds no usable token.
var ErrNoActiveSession = errors.New("no active session")

type SessionRepository interface {
	// GetActiveToken returns the most recent token that is neither revoked nor expired.
	GetActiveToken(ctx context.Context) (session.Token, error)
}

type sessionRepository struct {
	db db.DB
}

func NewSessionRepository(db db.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r sessionRepository) GetActiveToken(ctx context.Context) (session.Token, error) {
	var (
		token     string
		expiresAt *time.Time
	)
	err := r.db.QueryRow(ctx, `
		SELECT token, expires_at
		FROM sessions
		WHERE revoked_at IS NULL
		  AND (expires_at IS NULL OR expires_at > NOW())
		ORDER BY created_at DESC
		LIMIT 1;
	`).Scan(&token, &expiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return session.Token{}, ErrNoActiveSession
	}
	if err != nil {
		return session.Token{}, fmt.Errorf("select active session: %w", err)
	}

	tok := session.Token{Value: token}
	if expiresAt != nil {
		tok.ExpiresAt = *expiresAt
	}
	return tok, nil
}
