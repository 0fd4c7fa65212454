package dashboard

import (
	"strings"

	"github.com/tuanvumaihuynh/stockdesk/internal/model"
)

func normalizeQuery(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

func containsAny(query string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), query) {
			return true
		}
	}
	return false
}

// MatchOrder matches on customer name, status, email and phone.
func MatchOrder(o model.Order, query string) bool {
	return containsAny(query,
		o.Customer.FirstName,
		o.Customer.LastName,
		string(o.Status),
		o.Customer.Email,
		o.Customer.Phone,
	)
}

// MatchStock matches on product name, product code, batch number and supplier.
func MatchStock(s model.Stock, query string) bool {
	return containsAny(query,
		s.Product.Name,
		s.Product.Code,
		s.BatchNumber,
		s.Supplier,
	)
}
