package ports

import (
	"context"

	"github.com/Gunvolt24/shop_checkout/internal/domain"
)

// BillingService — учёт оформленного заказа в биллинге.
type BillingService interface {
	RecordOrder(ctx context.Context, order *domain.PersistedOrder) error
}

// StockMirrorService — зеркало остатков: сообщаем об уменьшении по каждому товару.
type StockMirrorService interface {
	ReportReductions(ctx context.Context, orderID string, reductions []domain.StockRequest) error
}

// ReviewService — регистрация покупки для будущих запросов отзывов.
type ReviewService interface {
	RegisterPurchase(ctx context.Context, customerID, orderID string, productIDs []string) error
}
