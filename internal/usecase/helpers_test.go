package usecase_test

import (
	"context"
	"time"

	"github.com/Gunvolt24/shop_checkout/internal/domain"
	"github.com/shopspring/decimal"
)

type noopLogger struct{}

func (noopLogger) Infof(context.Context, string, ...any)  {}
func (noopLogger) Warnf(context.Context, string, ...any)  {}
func (noopLogger) Errorf(context.Context, string, ...any) {}

var fixedNow = time.Date(2025, 11, 26, 12, 0, 0, 0, time.UTC)

const (
	customerID = "cust-1"
	identity   = "user-1"
	orderID    = "order-1"
)

// checkoutRequest — две строки: 2 × 1.99 и 5 × 3.99, итого 23.93.
func checkoutRequest() *domain.OrderRequest {
	return &domain.OrderRequest{
		CustomerID: customerID,
		OrderDate:  fixedNow.Add(-time.Hour),
		Total:      decimal.RequireFromString("23.93"),
		Lines: []domain.OrderLine{
			{ProductID: "p-1", Name: "Tea", UnitPrice: decimal.RequireFromString("1.99"), Quantity: 2},
			{ProductID: "p-2", Name: "Coffee", UnitPrice: decimal.RequireFromString("3.99"), Quantity: 5},
		},
	}
}

func activeCustomer() *domain.Customer {
	return &domain.Customer{
		ID:          customerID,
		Identity:    identity,
		Active:      true,
		CanPurchase: true,
		Address: domain.Address{
			Line1:     "1 Main St",
			AreaCode:  "10001",
			Country:   "US",
			Telephone: "+1-555-0100",
		},
	}
}

func ownerCaller() domain.Caller {
	return domain.Caller{Identity: identity, Role: domain.RoleCustomer}
}

func expectedDemand() []domain.StockRequest {
	return []domain.StockRequest{{ProductID: "p-1", Quantity: 2}, {ProductID: "p-2", Quantity: 5}}
}
