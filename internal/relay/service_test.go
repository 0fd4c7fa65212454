package relay

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/stockdesk/internal/config"
	"github.com/tuanvumaihuynh/stockdesk/internal/repository"
	"github.com/tuanvumaihuynh/stockdesk/internal/storage/db"
	"github.com/tuanvumaihuynh/stockdesk/internal/storage/mq"
)

type fakeDB struct{}

func (fakeDB) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (fakeDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

func (fakeDB) QueryRow(context.Context, string, ...any) pgx.Row { return nil }

func (f fakeDB) WithTx(_ context.Context, txFunc func(db.DB) error) error {
	return txFunc(f)
}

type fakeRepo struct {
	repository.OutboxMsgRepository
	pending []repository.ListUnprocessedOutboxMsgsResult
	updated []repository.BulkUpdateOutboxMsgsItem
	gotSize int32
}

func (r *fakeRepo) WithDB(db.DB) repository.OutboxMsgRepository { return r }

func (r *fakeRepo) ListUnprocessedOutboxMsgs(_ context.Context, params repository.ListUnprocessedOutboxMsgsParams) ([]repository.ListUnprocessedOutboxMsgsResult, error) {
	r.gotSize = params.BatchSize
	return r.pending, nil
}

func (r *fakeRepo) BulkUpdateOutboxMsgs(_ context.Context, params repository.BulkUpdateOutboxMsgsParams) error {
	r.updated = append(r.updated, params.Items...)
	return nil
}

type fakeProducer struct {
	mu       sync.Mutex
	produced []mq.ProduceMsg
	failOn   string
}

func (p *fakeProducer) Produce(_ context.Context, msg mq.ProduceMsg) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if msg.Topic == p.failOn {
		return errors.New("broker down")
	}
	p.produced = append(p.produced, msg)
	return nil
}

func TestRelayBatch(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.DiscardHandler)

	t.Run("Should do nothing on empty outbox", func(t *testing.T) {
		repo := &fakeRepo{}
		svc := NewService(config.Relay{BatchSize: 10, ProduceTimeout: time.Second}, logger, fakeDB{}, repo, &fakeProducer{})

		n, err := svc.relayBatch(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.Empty(t, repo.updated)
		assert.Equal(t, int32(10), repo.gotSize)
	})

	t.Run("Should mark every message and record producer errors", func(t *testing.T) {
		okID, failID := uuid.New(), uuid.New()
		key := "o1"
		repo := &fakeRepo{pending: []repository.ListUnprocessedOutboxMsgsResult{
			{ID: okID, Topic: "order.deleted", Payload: json.RawMessage(`{}`), PartitionKey: &key},
			{ID: failID, Topic: "stock.deleted", Payload: json.RawMessage(`{}`)},
		}}
		producer := &fakeProducer{failOn: "stock.deleted"}
		svc := NewService(config.Relay{BatchSize: 10, ProduceTimeout: time.Second}, logger, fakeDB{}, repo, producer)

		n, err := svc.relayBatch(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		require.Len(t, producer.produced, 1)
		assert.Equal(t, "o1", *producer.produced[0].PartitionKey)

		require.Len(t, repo.updated, 2)
		sort.Slice(repo.updated, func(i, j int) bool {
			return repo.updated[i].Error == nil && repo.updated[j].Error != nil
		})
		assert.Equal(t, okID, repo.updated[0].ID)
		assert.Nil(t, repo.updated[0].Error)
		assert.Equal(t, failID, repo.updated[1].ID)
		require.NotNil(t, repo.updated[1].Error)
		assert.Equal(t, "broker down", *repo.updated[1].Error)
	})
}
