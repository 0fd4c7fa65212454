package model

import "time"

// Stock is a batch of a product.
type Stock struct {
	ID            string     `json:"_id" validate:"required"`
	Product       Product    `json:"product"`
	BatchNumber   string     `json:"batchNumber"`
	Quantity      int        `json:"quantity" validate:"gte=0"`
	Size          string     `json:"size"`
	Price         Money      `json:"price"`
	LowStockAlert int        `json:"lowStockAlert"`
	RestockedAt   *time.Time `json:"restockedAt,omitempty"`
	Supplier      string     `json:"supplier"`
}

func (s Stock) Key() string { return s.ID }

// IsLowStock reports whether the batch has fallen to or below its alert threshold.
func (s Stock) IsLowStock() bool {
	return s.Quantity <= s.LowStockAlert
}
