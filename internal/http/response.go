package http

import (
	"time"

	"github.com/tuanvumaihuynh/stockdesk/internal/dashboard"
	"github.com/tuanvumaihuynh/stockdesk/internal/model"
)

type HealthResponse struct {
	Status string `json:"status"`
}

type SearchResponse struct {
	Query string `json:"query"`
}

// MoneyResponse carries the amount in minor units and its display form.
type MoneyResponse struct {
	Amount  int64  `json:"amount"`
	Display string `json:"display"`
}

type AddressResponse struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

type CustomerResponse struct {
	ID        string          `json:"id"`
	FirstName string          `json:"firstName"`
	LastName  string          `json:"lastName"`
	FullName  string          `json:"fullName"`
	Email     string          `json:"email"`
	Phone     string          `json:"phone"`
	Address   AddressResponse `json:"address"`
}

type ProductResponse struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Code        string        `json:"code"`
	Description string        `json:"description"`
	Size        string        `json:"size"`
	Color       string        `json:"color"`
	Price       MoneyResponse `json:"price"`
	Images      []string      `json:"images"`
	Category    string        `json:"category"`
}

type StockResponse struct {
	ID            string          `json:"id"`
	Product       ProductResponse `json:"product"`
	BatchNumber   string          `json:"batchNumber"`
	Quantity      int             `json:"quantity"`
	Size          string          `json:"size"`
	Price         MoneyResponse   `json:"price"`
	LowStockAlert int             `json:"lowStockAlert"`
	IsLowStock    bool            `json:"isLowStock"`
	RestockedAt   *time.Time      `json:"restockedAt"`
	Supplier      string          `json:"supplier"`
}

type OrderItemResponse struct {
	Stock    StockResponse `json:"stock"`
	Quantity int           `json:"quantity"`
}

type OrderResponse struct {
	ID          string              `json:"id"`
	Customer    CustomerResponse    `json:"customer"`
	Items       []OrderItemResponse `json:"items"`
	TotalAmount MoneyResponse       `json:"totalAmount"`
	Status      string              `json:"status"`
	CreatedAt   time.Time           `json:"createdAt"`
	IsDeleted   bool                `json:"isDeleted"`
}

type OrderListResponse struct {
	Items     []OrderResponse               `json:"items"`
	Query     string                        `json:"query"`
	Loaded    bool                          `json:"loaded"`
	Error     *string                       `json:"error"`
	RowStates map[string]dashboard.RowState `json:"rowStates"`
}

type StockListResponse struct {
	Items  []StockResponse `json:"items"`
	Query  string          `json:"query"`
	Loaded bool            `json:"loaded"`
	Error  *string         `json:"error"`
}

type BrowseResponse struct {
	OrderID    string             `json:"orderId"`
	ItemIndex  int                `json:"itemIndex"`
	ItemCount  int                `json:"itemCount"`
	ImageIndex int                `json:"imageIndex"`
	ImageCount int                `json:"imageCount"`
	Item       *OrderItemResponse `json:"item"`
	Image      *string            `json:"image"`
}

func toMoneyResponse(m model.Money) MoneyResponse {
	return MoneyResponse{Amount: int64(m), Display: m.String()}
}

func toProductResponse(p model.Product) ProductResponse {
	images := p.Images
	if images == nil {
		images = []string{}
	}

	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Code:        p.Code,
		Description: p.Description,
		Size:        p.Size,
		Color:       p.Color,
		Price:       toMoneyResponse(p.Price),
		Images:      images,
		Category:    p.Category,
	}
}

func toStockResponse(s model.Stock) StockResponse {
	return StockResponse{
		ID:            s.ID,
		Product:       toProductResponse(s.Product),
		BatchNumber:   s.BatchNumber,
		Quantity:      s.Quantity,
		Size:          s.Size,
		Price:         toMoneyResponse(s.Price),
		LowStockAlert: s.LowStockAlert,
		IsLowStock:    s.IsLowStock(),
		RestockedAt:   s.RestockedAt,
		Supplier:      s.Supplier,
	}
}

func toStockResponses(stocks []model.Stock) []StockResponse {
	items := make([]StockResponse, 0, len(stocks))
	for _, s := range stocks {
		items = append(items, toStockResponse(s))
	}
	return items
}

func toOrderItemResponse(item model.OrderItem) OrderItemResponse {
	return OrderItemResponse{
		Stock:    toStockResponse(item.Stock),
		Quantity: item.Quantity,
	}
}

func toOrderResponse(o model.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, toOrderItemResponse(item))
	}

	c := o.Customer
	return OrderResponse{
		ID: o.ID,
		Customer: CustomerResponse{
			ID:        c.ID,
			FirstName: c.FirstName,
			LastName:  c.LastName,
			FullName:  c.FullName(),
			Email:     c.Email,
			Phone:     c.Phone,
			Address: AddressResponse{
				Street:  c.Address.Street,
				City:    c.Address.City,
				State:   c.Address.State,
				ZipCode: c.Address.ZipCode,
				Country: c.Address.Country,
			},
		},
		Items:       items,
		TotalAmount: toMoneyResponse(o.TotalAmount),
		Status:      string(o.Status),
		CreatedAt:   o.CreatedAt,
		IsDeleted:   o.IsDeleted,
	}
}

func toOrderListResponse(v dashboard.OrderView) OrderListResponse {
	items := make([]OrderResponse, 0, len(v.Items))
	for _, o := range v.Items {
		items = append(items, toOrderResponse(o))
	}

	return OrderListResponse{
		Items:     items,
		Query:     v.Query,
		Loaded:    v.Loaded,
		Error:     errorPtr(v.Error),
		RowStates: v.RowStates,
	}
}

func toStockListResponse(v dashboard.View[model.Stock]) StockListResponse {
	return StockListResponse{
		Items:  toStockResponses(v.Items),
		Query:  v.Query,
		Loaded: v.Loaded,
		Error:  errorPtr(v.Error),
	}
}

func toBrowseResponse(orderID string, b *dashboard.Browser) BrowseResponse {
	res := BrowseResponse{
		OrderID:    orderID,
		ItemIndex:  b.ItemIndex(),
		ItemCount:  b.ItemCount(),
		ImageIndex: b.ImageIndex(),
		ImageCount: b.ImageCount(),
	}

	if item, ok := b.Item(); ok {
		itemRes := toOrderItemResponse(item)
		res.Item = &itemRes
	}
	if img, ok := b.Image(); ok {
		res.Image = &img
	}

	return res
}

func errorPtr(msg string) *string {
	if msg == "" {
		return nil
	}
	return &msg
}
