package ports

import (
	"context"

	"github.com/Gunvolt24/shop_checkout/internal/domain"
)

type OrderValidator interface {
	Validate(ctx context.Context, order *domain.OrderRequest) error
}
