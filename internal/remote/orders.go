package remote

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tuanvumaihuynh/stockdesk/internal/model"
)

type updateOrderRequest struct {
	Status model.OrderStatus `json:"status"`
}

// ListOrders fetches every order. It fails as a whole: either all orders are
// returned or none.
func (c *Client) ListOrders(ctx context.Context) ([]model.Order, error) {
	body, err := c.do(ctx, http.MethodGet, c.endpoint("order", "all-orders"), nil)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	orders, err := decodeEnvelope[[]model.Order](body)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	items := make([]any, len(orders))
	for i := range orders {
		items[i] = orders[i]
	}
	if err := c.validateAll(items); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	if orders == nil {
		orders = []model.Order{}
	}
	return orders, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id string, status model.OrderStatus) error {
	body, err := c.do(ctx, http.MethodPut, c.endpoint("order", "update-order", id), updateOrderRequest{Status: status})
	if err != nil {
		return fmt.Errorf("update order %s: %w", id, err)
	}

	if err := checkAck(body); err != nil {
		return fmt.Errorf("update order %s: %w", id, err)
	}

	return nil
}

func (c *Client) DeleteOrder(ctx context.Context, id string) error {
	body, err := c.do(ctx, http.MethodDelete, c.endpoint("order", "delete-order", id), nil)
	if err != nil {
		return fmt.Errorf("delete order %s: %w", id, err)
	}

	if err := checkAck(body); err != nil {
		return fmt.Errorf("delete order %s: %w", id, err)
	}

	return nil
}
