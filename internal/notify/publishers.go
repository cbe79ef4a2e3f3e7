package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Gunvolt24/shop_checkout/internal/domain"
	"github.com/Gunvolt24/shop_checkout/internal/ports"
	"github.com/google/uuid"
)

var (
	_ ports.BillingService     = (*BillingPublisher)(nil)
	_ ports.StockMirrorService = (*StockMirrorPublisher)(nil)
)

// publisher — издатель сообщений в брокер (kafka.Producer).
type publisher interface {
	Publish(ctx context.Context, key string, value []byte, headers map[string]string) error
}

// BillingPublisher — биллинг узнаёт об оформленных заказах из топика.
type BillingPublisher struct {
	pub publisher
	now func() time.Time
}

func NewBillingPublisher(pub publisher) *BillingPublisher {
	return &BillingPublisher{pub: pub, now: time.Now}
}

// RecordOrder — публикует OrderRecorded с ключом по ID заказа.
func (b *BillingPublisher) RecordOrder(ctx context.Context, order *domain.PersistedOrder) error {
	ev := OrderRecorded{
		EventID:    uuid.NewString(),
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		OrderDate:  order.OrderDate,
		Total:      order.Total,
		Lines:      order.Lines,
		OccurredAt: b.now().UTC(),
	}
	return publishJSON(ctx, b.pub, order.ID, EventOrderRecorded, ev.EventID, ev)
}

// StockMirrorPublisher — зеркало остатков получает списания по заказу одним событием.
type StockMirrorPublisher struct {
	pub publisher
	now func() time.Time
}

func NewStockMirrorPublisher(pub publisher) *StockMirrorPublisher {
	return &StockMirrorPublisher{pub: pub, now: time.Now}
}

// ReportReductions — публикует StockReduced; пустой список не публикуется.
func (s *StockMirrorPublisher) ReportReductions(ctx context.Context, orderID string, reductions []domain.StockRequest) error {
	if len(reductions) == 0 {
		return nil
	}
	ev := StockReduced{
		EventID:    uuid.NewString(),
		OrderID:    orderID,
		Reductions: reductions,
		OccurredAt: s.now().UTC(),
	}
	return publishJSON(ctx, s.pub, orderID, EventStockReductions, ev.EventID, ev)
}

func publishJSON(ctx context.Context, pub publisher, key, eventType, eventID string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", eventType, err)
	}
	return pub.Publish(ctx, key, raw, map[string]string{
		"event-type": eventType,
		"event-id":   eventID,
	})
}
