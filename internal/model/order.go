package model

import (
	"fmt"
	"strings"
	"time"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusShipped   OrderStatus = "Shipped"
	OrderStatusDelivered OrderStatus = "Delivered"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

var orderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// OrderStatuses returns every known status in display order.
func OrderStatuses() []OrderStatus {
	out := make([]OrderStatus, len(orderStatuses))
	copy(out, orderStatuses)
	return out
}

// Validate implements the enum contract used by the `enum` validation tag.
func (s OrderStatus) Validate() error {
	for _, v := range orderStatuses {
		if s == v {
			return nil
		}
	}
	return fmt.Errorf("unknown order status: %q", string(s))
}

// ParseOrderStatus matches s case-insensitively against the known statuses.
func ParseOrderStatus(s string) (OrderStatus, error) {
	for _, v := range orderStatuses {
		if strings.EqualFold(string(v), strings.TrimSpace(s)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown order status: %q", s)
}

type OrderItem struct {
	Stock    Stock `json:"stock"`
	Quantity int   `json:"quantity"`
}

type Order struct {
	ID          string      `json:"_id" validate:"required"`
	Customer    Customer    `json:"customer"`
	Items       []OrderItem `json:"items"`
	TotalAmount Money       `json:"totalAmount"`
	Status      OrderStatus `json:"status"`
	CreatedAt   time.Time   `json:"createdAt"`
	IsDeleted   bool        `json:"isDeleted"`
}

func (o Order) Key() string { return o.ID }

// WithStatus returns a copy of the order carrying the new status. Items are
// shared with the receiver; callers never mutate them in place.
func (o Order) WithStatus(status OrderStatus) Order {
	o.Status = status
	return o
}
