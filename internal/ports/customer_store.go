package ports

import (
	"context"

	"github.com/Gunvolt24/shop_checkout/internal/domain"
)

// CustomerStore — чтение клиентов. Отсутствие клиента — (nil, nil).
type CustomerStore interface {
	GetCustomer(ctx context.Context, customerID string) (*domain.Customer, error)
}
