package memory

import (
	"container/list"
	"time"

	"github.com/Gunvolt24/shop_checkout/internal/domain"
	"github.com/Gunvolt24/shop_checkout/pkg/metrics"
)

// Все функции ниже вызываются под c.mu.

// evictLRU — удаляет наименее используемый элемент.
func (c *OrderLRU) evictLRU() {
	if back := c.ll.Back(); back != nil {
		c.removeElement(back)
		metrics.CacheOps.WithLabelValues("evicted").Inc()
	}
}

func (c *OrderLRU) removeElement(elem *list.Element) {
	delete(c.index, elem.Value.(*entry).id)
	c.ll.Remove(elem)
}

func (c *OrderLRU) isExpired(ent *entry, now time.Time) bool {
	return c.ttl > 0 && now.After(ent.expiresAt)
}

func (c *OrderLRU) expiryFrom(now time.Time) time.Time {
	if c.ttl <= 0 {
		return time.Time{}
	}
	return now.Add(c.ttl)
}

// pruneExpiredFromBack — вычищает истёкшие записи с хвоста до первой актуальной.
func (c *OrderLRU) pruneExpiredFromBack(now time.Time) {
	for back := c.ll.Back(); back != nil && c.isExpired(back.Value.(*entry), now); back = c.ll.Back() {
		c.removeElement(back)
		metrics.CacheOps.WithLabelValues("expired").Inc()
	}
}

// cloneOrder — копия заказа вместе со строками: изменения снаружи не затрагивают кэш.
func cloneOrder(order *domain.PersistedOrder) *domain.PersistedOrder {
	if order == nil {
		return nil
	}
	cloned := *order
	if order.Lines != nil {
		cloned.Lines = append([]domain.OrderLine(nil), order.Lines...)
	}
	return &cloned
}
