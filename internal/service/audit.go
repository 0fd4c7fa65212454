package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tuanvumaihuynh/stockdesk/internal/dashboard"
	"github.com/tuanvumaihuynh/stockdesk/internal/event"
	"github.com/tuanvumaihuynh/stockdesk/internal/model"
	"github.com/tuanvumaihuynh/stockdesk/internal/repository"
	"github.com/tuanvumaihuynh/stockdesk/internal/storage/db"
	"github.com/tuanvumaihuynh/stockdesk/pkg/outbox"
	"github.com/tuanvumaihuynh/stockdesk/pkg/ptr"
)

var _ dashboard.Auditor = (*AuditService)(nil)

// AuditService writes dashboard mutations to the outbox. The relay publishes
// them to Kafka afterwards.
type AuditService struct {
	db            db.DB
	outboxMsgRepo repository.OutboxMsgRepository
	now           func() time.Time
}

func NewAuditService(
	db db.DB,
	outboxMsgRepo repository.OutboxMsgRepository,
) *AuditService {
	return &AuditService{
		db:            db,
		outboxMsgRepo: outboxMsgRepo,
		now:           time.Now,
	}
}

func (s *AuditService) OrderStatusUpdated(ctx context.Context, order model.Order, from model.OrderStatus) error {
	return s.record(ctx, event.TopicOrderStatusUpdated, order.ID, event.OrderStatusUpdatedEvent{
		OrderID:    order.ID,
		FromStatus: string(from),
		ToStatus:   string(order.Status),
		OccurredAt: s.now(),
	})
}

func (s *AuditService) OrderDeleted(ctx context.Context, order model.Order) error {
	return s.record(ctx, event.TopicOrderDeleted, order.ID, event.OrderDeletedEvent{
		OrderID:     order.ID,
		CustomerID:  order.Customer.ID,
		TotalAmount: int64(order.TotalAmount),
		OccurredAt:  s.now(),
	})
}

func (s *AuditService) StockDeleted(ctx context.Context, stock model.Stock) error {
	return s.record(ctx, event.TopicStockDeleted, stock.ID, event.StockDeletedEvent{
		StockID:     stock.ID,
		ProductID:   stock.Product.ID,
		BatchNumber: stock.BatchNumber,
		Quantity:    stock.Quantity,
		OccurredAt:  s.now(),
	})
}

// record stores the event keyed by the entity id so every event of one entity
// lands on the same partition.
func (s *AuditService) record(ctx context.Context, topic, key string, ev any) error {
	evBytes, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := s.db.WithTx(ctx, func(db db.DB) error {
		if err := s.outboxMsgRepo.
			WithDB(db).
			CreateOutboxMsg(ctx, repository.CreateOutboxMsgParams{
				Topic:        topic,
				Headers:      outbox.BuildHeaders(ctx),
				Payload:      evBytes,
				PartitionKey: ptr.New(key),
			}); err != nil {
			return fmt.Errorf("outbox msg repository create outbox msg: %w", err)
		}

		return nil
	}); err != nil {
		return fmt.Errorf("db with tx: %w", err)
	}

	return nil
}
