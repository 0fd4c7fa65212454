package dashboard

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tuanvumaihuynh/stockdesk/internal/apperr"
	"github.com/tuanvumaihuynh/stockdesk/internal/config"
	"github.com/tuanvumaihuynh/stockdesk/internal/model"
)

const KindOrder = "order"

type OrderSource interface {
	ListOrders(ctx context.Context) ([]model.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status model.OrderStatus) error
	DeleteOrder(ctx context.Context, id string) error
}

// OrderView is the order list as rendered, with the per-row update states.
type OrderView struct {
	View[model.Order]
	RowStates map[string]RowState
}

type OrderBoard struct {
	*listBoard[model.Order]

	source  OrderSource
	auditor Auditor
	rows    *RowStates
}

func NewOrderBoard(
	cfg config.Dashboard,
	logger *slog.Logger,
	source OrderSource,
	auditor Auditor,
	confirmations *Confirmations,
) *OrderBoard {
	logger = logger.With(slog.String("board", KindOrder))

	return &OrderBoard{
		listBoard: newListBoard(cfg, logger, MatchOrder, source.ListOrders, confirmations),
		source:    source,
		auditor:   auditor,
		rows:      NewRowStates(cfg.SuccessRevert, cfg.ErrorRevert),
	}
}

func (b *OrderBoard) OrderView() OrderView {
	return OrderView{
		View:      b.View(),
		RowStates: b.rows.Snapshot(),
	}
}

func (b *OrderBoard) RowState(id string) (RowState, bool) {
	return b.rows.Get(id)
}

// UpdateStatus asks the remote service to move order id to status. The listed
// order keeps its committed status until the remote call succeeds; a second
// request for the same order while one is loading is rejected.
func (b *OrderBoard) UpdateStatus(ctx context.Context, id string, status model.OrderStatus) (model.Order, error) {
	if err := status.Validate(); err != nil {
		return model.Order{}, apperr.ValidationErr.WithMsg(err.Error())
	}

	current, ok := b.items.Get(id)
	if !ok {
		return model.Order{}, apperr.NotFoundErr.WithMsg(fmt.Sprintf("order %s not found", id))
	}

	gen, err := b.rows.Begin(id)
	if err != nil {
		return model.Order{}, err
	}

	ctx, cancel := b.bind(ctx)
	defer cancel()

	if err := b.source.UpdateOrderStatus(ctx, id, status); err != nil {
		b.rows.Fail(id, gen, apperr.Message(err))
		b.logger.WarnContext(ctx, "error updating order status",
			slog.String("order_id", id),
			slog.String("status", string(status)),
			slog.Any("error", err),
		)
		return model.Order{}, fmt.Errorf("update order status: %w", err)
	}

	updated, ok := b.items.ReplaceByID(id, func(o model.Order) model.Order {
		return o.WithStatus(status)
	})
	if !ok {
		// deleted while the update was in flight
		updated = current.WithStatus(status)
	}
	b.rows.Succeed(id, gen)

	if err := b.auditor.OrderStatusUpdated(ctx, updated, current.Status); err != nil {
		b.logger.ErrorContext(ctx, "error auditing order status update",
			slog.String("order_id", id),
			slog.Any("error", err),
		)
	}

	return updated, nil
}

// RequestDelete returns the confirmation for deleting order id.
func (b *OrderBoard) RequestDelete(id string) (Confirmation, error) {
	return b.requestDelete(id,
		func(o model.Order) Confirmation {
			return Confirmation{
				Kind:  KindOrder,
				Title: "Delete order",
				Message: fmt.Sprintf("Are you sure you want to delete the order of %s (#%s)? This cannot be undone.",
					o.Customer.FullName(), o.ID),
			}
		},
		func(ctx context.Context, o model.Order) error {
			if err := b.source.DeleteOrder(ctx, o.ID); err != nil {
				return fmt.Errorf("delete order: %w", err)
			}
			if err := b.auditor.OrderDeleted(ctx, o); err != nil {
				b.logger.ErrorContext(ctx, "error auditing order deletion",
					slog.String("order_id", o.ID),
					slog.Any("error", err),
				)
			}
			return nil
		},
	)
}

// Browse returns a browser over the line items of order id.
func (b *OrderBoard) Browse(id string) (*Browser, error) {
	o, ok := b.items.Get(id)
	if !ok {
		return nil, apperr.NotFoundErr.WithMsg(fmt.Sprintf("order %s not found", id))
	}
	return NewBrowser(o.Items), nil
}

func (b *OrderBoard) Close() {
	b.listBoard.Close()
	b.rows.Close()
}
