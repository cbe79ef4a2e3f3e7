package usecase

import (
	"context"
	"fmt"

	"github.com/Gunvolt24/shop_checkout/internal/domain"
	"github.com/Gunvolt24/shop_checkout/internal/ports"
)

// InventoryChecker — проверяет каталог: все товары существуют и их хватает.
type InventoryChecker struct {
	products ports.ProductStore
}

// NewInventoryChecker — DI-конструктор.
func NewInventoryChecker(products ports.ProductStore) *InventoryChecker {
	return &InventoryChecker{products: products}
}

// Check — два пакетных вызова: существование (ErrProductNotFound), затем остатки (ErrInsufficientStock).
// Остатки проверяются только если все товары найдены.
func (c *InventoryChecker) Check(ctx context.Context, demand []domain.StockRequest) error {
	exist, err := c.products.ProductsExist(ctx, demand)
	if err != nil {
		return fmt.Errorf("check products exist: %w", err)
	}
	if !exist {
		return fmt.Errorf("%w: %d requested", ErrProductNotFound, len(demand))
	}

	inStock, err := c.products.ProductsInStock(ctx, demand)
	if err != nil {
		return fmt.Errorf("check products in stock: %w", err)
	}
	if !inStock {
		return ErrInsufficientStock
	}
	return nil
}
