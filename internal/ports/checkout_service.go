package ports

import (
	"context"

	"github.com/Gunvolt24/shop_checkout/internal/domain"
)

// CheckoutResult — итог оформления заказа, который видит транспортный слой.
type CheckoutResult struct {
	Outcome domain.Outcome
	OrderID string
	Reason  string
	// Retryable — для PersistenceFailure: повтор с теми же данными может пройти.
	Retryable bool
}

// CheckoutService — оформление и чтение заказов.
type CheckoutService interface {
	CreateOrder(ctx context.Context, req *domain.OrderRequest, caller domain.Caller) CheckoutResult
	GetOrder(ctx context.Context, orderID string) (*domain.PersistedOrder, error)
	OrdersByCustomer(ctx context.Context, customerID string, limit, offset int) ([]*domain.PersistedOrder, error)
}
