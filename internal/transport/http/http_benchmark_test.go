//go:build !integration

package rest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/Gunvolt24/shop_checkout/internal/domain"
	"github.com/Gunvolt24/shop_checkout/internal/ports"
)

// --- Бенчмарки ---

// GetOrder (валидный заказ) — LEAN vs FULL пайплайн
func BenchmarkHTTP_GetOrder(b *testing.B) {
	ord := benchOrder("bench-order", "bench-cust")
	h := NewHandler(svcStub{one: ord}, nopLogger{}, 2*time.Second)

	lean := makeLeanRouter(h)
	full := makeFullRouter(h)

	b.Run("lean/no-mw", func(b *testing.B) {
		benchServe(b, lean, http.MethodGet, "/orders/"+ord.ID, "", http.StatusOK)
	})
	b.Run("full/prod-mw", func(b *testing.B) {
		benchServe(b, full, http.MethodGet, "/orders/"+ord.ID, "", http.StatusOK)
	})
}

// Потолок без маршалинга: тот же заказ, заранее закодированный JSON
func BenchmarkHTTP_GetOrder_PreMarshaledBytes(b *testing.B) {
	raw, _ := json.Marshal(benchOrder("bench-order", "bench-cust"))

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.GET("/orders/:id", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", raw)
	})

	benchServe(b, r, http.MethodGet, "/orders/bench-order", "", http.StatusOK)
}

// Пагинация: 10/50/100 — рост аллокаций и времени
func BenchmarkHTTP_ListByCustomer(b *testing.B) {
	for _, n := range []int{10, 50, 100} {
		b.Run("N="+strconv.Itoa(n), func(b *testing.B) {
			list := make([]*domain.PersistedOrder, 0, n)
			for i := 0; i < n; i++ {
				list = append(list, benchOrder("order-"+strconv.Itoa(i), "bench-cust"))
			}
			h := NewHandler(svcStub{list: list}, nopLogger{}, 2*time.Second)

			benchServe(b, makeLeanRouter(h), http.MethodGet, "/customers/bench-cust/orders?limit="+strconv.Itoa(n), "", http.StatusOK)
		})
	}
}

// POST /orders: декодирование заявки + ответ (сервис — заглушка)
func BenchmarkHTTP_CreateOrder(b *testing.B) {
	raw, _ := json.Marshal(domain.OrderRequest{
		CustomerID: "bench-cust",
		OrderDate:  time.Date(2025, 11, 26, 12, 0, 0, 0, time.UTC),
		Total:      decimal.RequireFromString("23.93"),
		Lines:      benchOrder("x", "bench-cust").Lines,
	})
	h := NewHandler(svcStub{}, nopLogger{}, 2*time.Second)

	benchServe(b, makeLeanRouter(h), http.MethodPost, "/orders", string(raw), http.StatusCreated)
}

// Ошибочный путь (404): "цена" роутера и 404-хендлера
func BenchmarkHTTP_404(b *testing.B) {
	h := NewHandler(svcStub{}, nopLogger{}, 2*time.Second)
	benchServe(b, makeFullRouter(h), http.MethodGet, "/nope", "", http.StatusNotFound)
}

// --- nopLogger — логгер, который не делает ничего. ---

type nopLogger struct{}

func (nopLogger) Infof(context.Context, string, ...any)  {}
func (nopLogger) Warnf(context.Context, string, ...any)  {}
func (nopLogger) Errorf(context.Context, string, ...any) {}

// --- Стабы ---

// svcStub — заранее подготовленные ответы (без аллокаций на каждом вызове)
type svcStub struct {
	one  *domain.PersistedOrder
	list []*domain.PersistedOrder
}

func (s svcStub) CreateOrder(context.Context, *domain.OrderRequest, domain.Caller) ports.CheckoutResult {
	return ports.CheckoutResult{Outcome: domain.OutcomeCreated, OrderID: "bench-order"}
}
func (s svcStub) GetOrder(context.Context, string) (*domain.PersistedOrder, error) { return s.one, nil }
func (s svcStub) OrdersByCustomer(context.Context, string, int, int) ([]*domain.PersistedOrder, error) {
	return s.list, nil
}

// --- функции-помощники ---

func benchOrder(id, customerID string) *domain.PersistedOrder {
	now := time.Date(2025, 11, 26, 12, 0, 0, 0, time.UTC)
	return &domain.PersistedOrder{
		ID:         id,
		CustomerID: customerID,
		OrderDate:  now,
		Total:      decimal.RequireFromString("23.93"),
		CreatedAt:  now,
		Lines: []domain.OrderLine{
			{ProductID: "p-1", Name: "Tea", UnitPrice: decimal.RequireFromString("1.99"), Quantity: 2},
			{ProductID: "p-2", Name: "Coffee", UnitPrice: decimal.RequireFromString("3.99"), Quantity: 5},
		},
	}
}

func makeLeanRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New() // без Recovery/otel/logger — меньше аллокаций
	r.POST("/orders", h.createOrder)
	r.GET("/orders/:id", h.getOrderByID)
	r.GET("/customers/:id/orders", h.listOrdersByCustomer)
	return r
}

func makeFullRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	return NewRouter(h, "")
}

func benchServe(b *testing.B, r http.Handler, method, path, body string, wantStatus int) {
	b.Helper()
	b.ReportAllocs()
	b.ResetTimer()

	// Параллельный режим ближе к реальности без TCP
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			var rd io.Reader = http.NoBody
			if body != "" {
				rd = strings.NewReader(body)
			}
			req, _ := http.NewRequest(method, path, rd)
			req.Header.Set("X-Caller-ID", "bench-user")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			_, _ = io.Copy(io.Discard, w.Body)
			if w.Code != wantStatus {
				b.Fatalf("status=%d", w.Code)
			}
		}
	})
}
