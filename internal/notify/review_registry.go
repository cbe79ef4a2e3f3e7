package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/Gunvolt24/shop_checkout/internal/ports"
	"github.com/redis/go-redis/v9"
)

var _ ports.ReviewService = (*ReviewRegistry)(nil)

// DefaultReviewTTL — сколько покупка даёт право на отзыв.
const DefaultReviewTTL = 90 * 24 * time.Hour

// redisPipeliner — нужная часть *redis.Client.
type redisPipeliner interface {
	TxPipeline() redis.Pipeliner
}

// ReviewRegistry — право на отзыв: множество товаров клиента в Redis с TTL.
// Ключи: review:eligible:<customer_id> (товары) и review:orders:<customer_id> (заказы-основания).
type ReviewRegistry struct {
	client redisPipeliner
	ttl    time.Duration
}

// NewReviewRegistry — ttl <= 0 — DefaultReviewTTL.
func NewReviewRegistry(client redisPipeliner, ttl time.Duration) *ReviewRegistry {
	if ttl <= 0 {
		ttl = DefaultReviewTTL
	}
	return &ReviewRegistry{client: client, ttl: ttl}
}

// RegisterPurchase — SADD товаров и заказа + EXPIRE в одной транзакции MULTI/EXEC.
func (r *ReviewRegistry) RegisterPurchase(ctx context.Context, customerID, orderID string, productIDs []string) error {
	if len(productIDs) == 0 {
		return nil
	}
	products := make([]any, 0, len(productIDs))
	for _, id := range productIDs {
		products = append(products, id)
	}
	eligibleKey, ordersKey := EligibleKey(customerID), "review:orders:"+customerID

	pipe := r.client.TxPipeline()
	pipe.SAdd(ctx, eligibleKey, products...)
	pipe.Expire(ctx, eligibleKey, r.ttl)
	pipe.SAdd(ctx, ordersKey, orderID)
	pipe.Expire(ctx, ordersKey, r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("register purchase customer_id=%s order_id=%s: %w", customerID, orderID, err)
	}
	return nil
}

// EligibleKey — ключ множества товаров, на которые клиент может оставить отзыв.
func EligibleKey(customerID string) string { return "review:eligible:" + customerID }
