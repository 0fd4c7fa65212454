package dashboard

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tuanvumaihuynh/stockdesk/internal/config"
	"github.com/tuanvumaihuynh/stockdesk/internal/model"
)

const KindStock = "stock"

type StockSource interface {
	ListStocks(ctx context.Context) ([]model.Stock, error)
	DeleteStock(ctx context.Context, id string) error
}

type StockBoard struct {
	*listBoard[model.Stock]

	source  StockSource
	auditor Auditor
}

func NewStockBoard(
	cfg config.Dashboard,
	logger *slog.Logger,
	source StockSource,
	auditor Auditor,
	confirmations *Confirmations,
) *StockBoard {
	logger = logger.With(slog.String("board", KindStock))

	return &StockBoard{
		listBoard: newListBoard(cfg, logger, MatchStock, source.ListStocks, confirmations),
		source:    source,
		auditor:   auditor,
	}
}

// LowStock returns the canonical batches at or below their alert threshold.
func (b *StockBoard) LowStock() []model.Stock {
	all := b.items.Canonical()
	low := make([]model.Stock, 0, len(all))
	for _, s := range all {
		if s.IsLowStock() {
			low = append(low, s)
		}
	}
	return low
}

// RequestDelete returns the confirmation for deleting stock batch id.
func (b *StockBoard) RequestDelete(id string) (Confirmation, error) {
	return b.requestDelete(id,
		func(s model.Stock) Confirmation {
			return Confirmation{
				Kind:  KindStock,
				Title: "Delete stock",
				Message: fmt.Sprintf("Are you sure you want to delete batch %s of %s? This cannot be undone.",
					s.BatchNumber, s.Product.Name),
			}
		},
		func(ctx context.Context, s model.Stock) error {
			if err := b.source.DeleteStock(ctx, s.ID); err != nil {
				return fmt.Errorf("delete stock: %w", err)
			}
			if err := b.auditor.StockDeleted(ctx, s); err != nil {
				b.logger.ErrorContext(ctx, "error auditing stock deletion",
					slog.String("stock_id", s.ID),
					slog.Any("error", err),
				)
			}
			return nil
		},
	)
}
