package ports

import (
	"context"

	"github.com/Gunvolt24/shop_checkout/internal/domain"
)

// ProductStore — пакетные проверки каталога: один вызов на весь заказ.
type ProductStore interface {
	ProductsExist(ctx context.Context, products []domain.StockRequest) (bool, error)
	ProductsInStock(ctx context.Context, products []domain.StockRequest) (bool, error)
}
