package dashboard

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tuanvumaihuynh/stockdesk/internal/apperr"
	"github.com/tuanvumaihuynh/stockdesk/internal/config"
	"github.com/tuanvumaihuynh/stockdesk/internal/model"
)

// Auditor records mutations that the remote service accepted.
type Auditor interface {
	OrderStatusUpdated(ctx context.Context, order model.Order, from model.OrderStatus) error
	OrderDeleted(ctx context.Context, order model.Order) error
	StockDeleted(ctx context.Context, stock model.Stock) error
}

// listBoard is the part shared by the order and stock boards: a collection,
// its debounced search and the lifetime that in-flight remote calls are bound to.
type listBoard[T Keyed] struct {
	logger        *slog.Logger
	items         *Collection[T]
	search        *Search
	confirmations *Confirmations
	fetch         func(context.Context) ([]T, error)

	ctx    context.Context
	cancel context.CancelFunc
}

func newListBoard[T Keyed](
	cfg config.Dashboard,
	logger *slog.Logger,
	match Predicate[T],
	fetch func(context.Context) ([]T, error),
	confirmations *Confirmations,
) *listBoard[T] {
	ctx, cancel := context.WithCancel(context.Background())
	items := NewCollection(match)

	return &listBoard[T]{
		logger:        logger,
		items:         items,
		search:        NewSearch(cfg.SearchDebounce, items.ApplyQuery),
		confirmations: confirmations,
		fetch:         fetch,
		ctx:           ctx,
		cancel:        cancel,
	}
}

// bind derives a context that is cancelled when either ctx or the board is done.
func (b *listBoard[T]) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(b.ctx, cancel)

	return ctx, func() {
		stop()
		cancel()
	}
}

// Reload fetches the full collection again. A failed load leaves the
// collection empty with the error message exposed in View.
func (b *listBoard[T]) Reload(ctx context.Context) error {
	ctx, cancel := b.bind(ctx)
	defer cancel()

	if err := b.items.Load(ctx, b.fetch); err != nil {
		b.logger.WarnContext(ctx, "error loading collection", slog.Any("error", err))
		return err
	}

	b.logger.DebugContext(ctx, "collection loaded", slog.Int("count", len(b.items.Canonical())))
	return nil
}

// Search sets the query; the filtered collection follows after the debounce delay.
func (b *listBoard[T]) Search(query string) {
	b.search.SetQuery(query)
}

// FlushSearch applies a pending query right away.
func (b *listBoard[T]) FlushSearch() {
	b.search.Flush()
}

func (b *listBoard[T]) View() View[T] {
	return b.items.View()
}

// All returns the canonical collection, ignoring the search query.
func (b *listBoard[T]) All() []T {
	return b.items.Canonical()
}

func (b *listBoard[T]) Get(id string) (T, bool) {
	return b.items.Get(id)
}

// requestDelete registers a confirmation for deleting id. remove runs only
// when the confirmation is confirmed; the record leaves both collections only
// if remove succeeds.
func (b *listBoard[T]) requestDelete(
	id string,
	describe func(T) Confirmation,
	remove func(context.Context, T) error,
) (Confirmation, error) {
	item, ok := b.items.Get(id)
	if !ok {
		return Confirmation{}, apperr.NotFoundErr
	}

	desc := describe(item)
	desc.TargetID = id

	return b.confirmations.Request(desc, func(ctx context.Context) error {
		ctx, cancel := b.bind(ctx)
		defer cancel()

		// the record may have been deleted or dropped by a reload since the request
		current, ok := b.items.Get(id)
		if !ok {
			return apperr.NotFoundErr.WithMsg(fmt.Sprintf("%s %s not found", desc.Kind, id))
		}

		if err := remove(ctx, current); err != nil {
			b.logger.WarnContext(ctx, "error deleting record",
				slog.String("kind", desc.Kind),
				slog.String("id", id),
				slog.Any("error", err),
			)
			return err
		}

		b.items.RemoveByID(id)
		b.logger.InfoContext(ctx, "record deleted", slog.String("kind", desc.Kind), slog.String("id", id))

		return nil
	}), nil
}

// Close cancels in-flight remote calls and stops the search timer.
func (b *listBoard[T]) Close() {
	b.cancel()
	b.search.Close()
}
