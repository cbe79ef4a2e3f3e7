package memory

import (
	"context"
	"testing"
	"time"

	"github.com/Gunvolt24/shop_checkout/internal/domain"
	"github.com/shopspring/decimal"
)

func newOrder(id string) *domain.PersistedOrder {
	return &domain.PersistedOrder{
		ID:         id,
		CustomerID: "cust-1",
		Total:      decimal.RequireFromString("1.99"),
		Lines:      []domain.OrderLine{{ProductID: "p-1", Name: "x", UnitPrice: decimal.RequireFromString("1.99"), Quantity: 1}},
	}
}

// fakeClock — управляемое время для проверок TTL без sleep.
type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time          { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestCache(capacity int, ttl time.Duration) (*OrderLRU, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 11, 26, 12, 0, 0, 0, time.UTC)}
	c := NewOrderLRU(capacity, ttl)
	c.now = clock.now
	return c, clock
}

func TestSetGet_HitMiss(t *testing.T) {
	c, _ := newTestCache(2, 5*time.Minute)
	ctx := context.Background()

	// miss
	if _, ok := c.Get(ctx, "id-1"); ok {
		t.Fatalf("expected miss before Set")
	}

	// hit после Set
	_ = c.Set(ctx, newOrder("id-1"))
	got, ok := c.Get(ctx, "id-1")
	if !ok || got.ID != "id-1" {
		t.Fatalf("expected hit for id-1")
	}
}

func TestSet_IgnoresOrderWithoutID(t *testing.T) {
	c, _ := newTestCache(2, 0)
	ctx := context.Background()

	_ = c.Set(ctx, nil)
	_ = c.Set(ctx, &domain.PersistedOrder{})
	if c.Len() != 0 {
		t.Fatalf("expected empty cache, got %d", c.Len())
	}
}

func TestTTL_ExpiryAndSliding(t *testing.T) {
	c, clock := newTestCache(2, time.Minute)
	ctx := context.Background()

	_ = c.Set(ctx, newOrder("ttl"))
	clock.advance(50 * time.Second)
	if _, ok := c.Get(ctx, "ttl"); !ok {
		t.Fatalf("expected hit inside TTL")
	}

	// попадание продлило TTL
	clock.advance(50 * time.Second)
	if _, ok := c.Get(ctx, "ttl"); !ok {
		t.Fatalf("expected hit after sliding expiry")
	}

	clock.advance(61 * time.Second)
	if _, ok := c.Get(ctx, "ttl"); ok {
		t.Fatalf("expected miss after TTL expires")
	}
	if c.Len() != 0 {
		t.Fatalf("expired entry must be removed on Get")
	}
}

func TestSet_PrunesExpiredTail(t *testing.T) {
	c, clock := newTestCache(3, time.Minute)
	ctx := context.Background()

	_ = c.Set(ctx, newOrder("old-1"))
	_ = c.Set(ctx, newOrder("old-2"))
	clock.advance(2 * time.Minute)
	_ = c.Set(ctx, newOrder("fresh"))

	if c.Len() != 1 {
		t.Fatalf("expected only fresh entry, got %d", c.Len())
	}
}

func TestLRUEviction(t *testing.T) {
	c, _ := newTestCache(2, 0) // 0 = без TTL
	ctx := context.Background()

	_ = c.Set(ctx, newOrder("A"))
	_ = c.Set(ctx, newOrder("B"))
	// A сделать «свежим»
	if _, ok := c.Get(ctx, "A"); !ok {
		t.Fatalf("expected hit for A")
	}
	// Добавляем C — вытеснит B (самый старый)
	_ = c.Set(ctx, newOrder("C"))

	if _, ok := c.Get(ctx, "B"); ok {
		t.Fatalf("expected B to be evicted")
	}
	if _, ok := c.Get(ctx, "A"); !ok || c.Len() != 2 {
		t.Fatalf("expected A & C to stay in cache")
	}
}

func TestCloneImmutability(t *testing.T) {
	c, _ := newTestCache(1, 0)
	ctx := context.Background()
	orig := newOrder("Z")
	_ = c.Set(ctx, orig)

	// правка исходника после Set не должна попасть в кэш
	orig.Lines[0].Name = "changed-before"

	// меняем то, что вернул Get — не должно влиять на кэш
	o1, _ := c.Get(ctx, "Z")
	o1.Lines[0].Name = "changed"

	o2, _ := c.Get(ctx, "Z")
	if o2.Lines[0].Name != "x" {
		t.Fatalf("cache should return clones, not pointers to internal value, got %q", o2.Lines[0].Name)
	}
}

func TestWarmUp_NewestStaysOnEviction(t *testing.T) {
	c, _ := newTestCache(2, 0)
	ctx := context.Background()

	// порядок как из LastN: от новых к старым
	if err := c.WarmUp(ctx, []*domain.PersistedOrder{newOrder("new"), newOrder("mid"), newOrder("old")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := c.Get(ctx, "old"); ok {
		t.Fatalf("oldest order must be evicted first")
	}
	if _, ok := c.Get(ctx, "new"); !ok {
		t.Fatalf("newest order must stay")
	}
}

func TestWarmUp_CanceledContext(t *testing.T) {
	c, _ := newTestCache(10, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := c.WarmUp(ctx, []*domain.PersistedOrder{newOrder("a")}); err == nil {
		t.Fatalf("expected context error")
	}
	if c.Len() != 0 {
		t.Fatalf("nothing must be loaded after cancel")
	}
}
