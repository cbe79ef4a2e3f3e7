package memory

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/Gunvolt24/shop_checkout/internal/domain"
	"github.com/Gunvolt24/shop_checkout/internal/ports"
	"github.com/Gunvolt24/shop_checkout/pkg/metrics"
)

// Проверка, что OrderLRU удовлетворяет интерфейсу OrderCache.
var _ ports.OrderCache = (*OrderLRU)(nil)

type entry struct {
	id        string
	order     *domain.PersistedOrder
	expiresAt time.Time
}

// OrderLRU — LRU-кэш оформленных заказов с TTL (скользящим: продлевается при попадании).
// ttl <= 0 — записи не истекают, вытесняются только по ёмкости.
type OrderLRU struct {
	capacity int
	ttl      time.Duration
	now      func() time.Time

	mu    sync.Mutex
	ll    *list.List // front — самые свежие
	index map[string]*list.Element
}

// NewOrderLRU — конструктор; capacity <= 0 трактуется как 1.
func NewOrderLRU(capacity int, ttl time.Duration) *OrderLRU {
	if capacity <= 0 {
		capacity = 1
	}
	return &OrderLRU{
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
		ll:       list.New(),
		index:    make(map[string]*list.Element, capacity),
	}
}

// Get — копия заказа при попадании.
func (c *OrderLRU) Get(_ context.Context, orderID string) (*domain.PersistedOrder, bool) {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.index[orderID]
	if !ok {
		metrics.CacheOps.WithLabelValues("miss").Inc()
		return nil, false
	}
	ent := elem.Value.(*entry)
	if c.isExpired(ent, now) {
		c.removeElement(elem)
		metrics.CacheOps.WithLabelValues("expired").Inc()
		metrics.CacheSize.Set(float64(len(c.index)))
		return nil, false
	}

	c.ll.MoveToFront(elem)
	ent.expiresAt = c.expiryFrom(now)
	metrics.CacheOps.WithLabelValues("hit").Inc()
	return cloneOrder(ent.order), true
}

// Set — сохраняет копию; заказ без ID игнорируется.
func (c *OrderLRU) Set(_ context.Context, order *domain.PersistedOrder) error {
	if order == nil || order.ID == "" {
		return nil
	}
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.index[order.ID]; ok {
		ent := elem.Value.(*entry)
		ent.order = cloneOrder(order)
		ent.expiresAt = c.expiryFrom(now)
		c.ll.MoveToFront(elem)
		return nil
	}

	c.pruneExpiredFromBack(now)
	c.index[order.ID] = c.ll.PushFront(&entry{
		id:        order.ID,
		order:     cloneOrder(order),
		expiresAt: c.expiryFrom(now),
	})
	for c.ll.Len() > c.capacity {
		c.evictLRU()
	}
	metrics.CacheSize.Set(float64(len(c.index)))
	return nil
}

// WarmUp — массовая загрузка; прерывается при отмене контекста.
// Заказы идут от новых к старым, поэтому загружаются в обратном порядке:
// самый свежий оказывается в голове списка.
func (c *OrderLRU) WarmUp(ctx context.Context, orders []*domain.PersistedOrder) error {
	for i := len(orders) - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.Set(ctx, orders[i]); err != nil {
			return err
		}
	}
	return nil
}

// Len — текущее число записей (включая ещё не вычищенные истёкшие).
func (c *OrderLRU) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}
