package notify

import (
	"time"

	"github.com/Gunvolt24/shop_checkout/internal/domain"
	"github.com/shopspring/decimal"
)

// Типы событий (заголовок event-type).
const (
	EventOrderRecorded   = "order.recorded"
	EventStockReductions = "stock.reduced"
)

// OrderRecorded — событие для биллинга: заказ оформлен и сохранён.
type OrderRecorded struct {
	EventID    string             `json:"event_id"`
	OrderID    string             `json:"order_id"`
	CustomerID string             `json:"customer_id"`
	OrderDate  time.Time          `json:"order_date"`
	Total      decimal.Decimal    `json:"total"`
	Lines      []domain.OrderLine `json:"lines"`
	OccurredAt time.Time          `json:"occurred_at"`
}

// StockReduced — событие для зеркала остатков: сколько списано по каждому товару.
type StockReduced struct {
	EventID    string                `json:"event_id"`
	OrderID    string                `json:"order_id"`
	Reductions []domain.StockRequest `json:"reductions"`
	OccurredAt time.Time             `json:"occurred_at"`
}
