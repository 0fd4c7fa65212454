package remote

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tuanvumaihuynh/stockdesk/internal/model"
)

func (c *Client) ListStocks(ctx context.Context) ([]model.Stock, error) {
	body, err := c.do(ctx, http.MethodGet, c.endpoint("stock", "all-stocks"), nil)
	if err != nil {
		return nil, fmt.Errorf("list stocks: %w", err)
	}

	stocks, err := decodeEnvelope[[]model.Stock](body)
	if err != nil {
		return nil, fmt.Errorf("list stocks: %w", err)
	}

	items := make([]any, len(stocks))
	for i := range stocks {
		items[i] = stocks[i]
	}
	if err := c.validateAll(items); err != nil {
		return nil, fmt.Errorf("list stocks: %w", err)
	}

	if stocks == nil {
		stocks = []model.Stock{}
	}
	return stocks, nil
}

func (c *Client) DeleteStock(ctx context.Context, id string) error {
	body, err := c.do(ctx, http.MethodDelete, c.endpoint("stock", "delete-stock", id), nil)
	if err != nil {
		return fmt.Errorf("delete stock %s: %w", id, err)
	}

	if err := checkAck(body); err != nil {
		return fmt.Errorf("delete stock %s: %w", id, err)
	}

	return nil
}
