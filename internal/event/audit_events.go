package event

import (
	"context"
	"log/slog"
	"time"
)

const (
	TopicOrderStatusUpdated = "order.status_updated"
	TopicOrderDeleted       = "order.deleted"
	TopicStockDeleted       = "stock.deleted"
)

type OrderStatusUpdatedEvent struct {
	OrderID    string    `json:"order_id"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	OccurredAt time.Time `json:"occurred_at"`
}

type OrderDeletedEvent struct {
	OrderID     string    `json:"order_id"`
	CustomerID  string    `json:"customer_id"`
	TotalAmount int64     `json:"total_amount"`
	OccurredAt  time.Time `json:"occurred_at"`
}

type StockDeletedEvent struct {
	StockID     string    `json:"stock_id"`
	ProductID   string    `json:"product_id"`
	BatchNumber string    `json:"batch_number"`
	Quantity    int       `json:"quantity"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func (s *Service) handleOrderStatusUpdatedEvent(ctx context.Context, ev OrderStatusUpdatedEvent) error {
	s.logger.InfoContext(ctx, "order status updated",
		slog.String("order_id", ev.OrderID),
		slog.String("from", ev.FromStatus),
		slog.String("to", ev.ToStatus),
	)
	return nil
}

func (s *Service) handleOrderDeletedEvent(ctx context.Context, ev OrderDeletedEvent) error {
	s.logger.InfoContext(ctx, "order deleted", slog.Any("event", ev))
	return nil
}

func (s *Service) handleStockDeletedEvent(ctx context.Context, ev StockDeletedEvent) error {
	s.logger.InfoContext(ctx, "stock deleted", slog.Any("event", ev))
	return nil
}
