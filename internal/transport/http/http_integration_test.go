//go:build integration

package rest_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	cachemem "github.com/Gunvolt24/shop_checkout/internal/cache/memory"
	"github.com/Gunvolt24/shop_checkout/internal/domain"
	"github.com/Gunvolt24/shop_checkout/internal/notify"
	"github.com/Gunvolt24/shop_checkout/internal/ports"
	pgrepo "github.com/Gunvolt24/shop_checkout/internal/repo/postgres"
	"github.com/Gunvolt24/shop_checkout/internal/testutil"
	rest "github.com/Gunvolt24/shop_checkout/internal/transport/http"
	"github.com/Gunvolt24/shop_checkout/internal/usecase"
	"github.com/Gunvolt24/shop_checkout/pkg/httpx"
	"github.com/Gunvolt24/shop_checkout/pkg/logger"
	"github.com/Gunvolt24/shop_checkout/pkg/metrics"
	"github.com/Gunvolt24/shop_checkout/pkg/validate"
)

// 1) POST /orders — 201: заказ сохранён, остатки списаны, корзина очищена, уведомления отправлены;
// затем GET /orders/:id и GET /customers/:id/orders его возвращают
func TestHTTP_Checkout_EndToEnd_TC(t *testing.T) {
	env := newEnv(t)

	cust, a, b := env.seedShop(t, 10, 10)
	require.NoError(t, testutil.SeedBasketItem(env.ctx, env.pg.Pool, cust.ID, a, 2))

	resp := env.post(t, testutil.OrderRequest(cust.ID, a, b), cust.Identity, "customer")
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	orderID := created["order_id"]
	require.NotEmpty(t, orderID)
	require.Equal(t, "created", created["code"])
	require.Equal(t, "/orders/"+orderID, resp.Header.Get("Location"))

	qa, err := testutil.ProductQuantity(env.ctx, env.pg.Pool, a)
	require.NoError(t, err)
	require.Equal(t, 8, qa)
	n, err := testutil.BasketSize(env.ctx, env.pg.Pool, cust.ID)
	require.NoError(t, err)
	require.Zero(t, n)

	// уведомления
	require.Equal(t, []string{orderID}, env.billing.ids())
	require.Equal(t, []string{orderID}, env.stock.ids())
	members, err := env.rdb.SMembers(env.ctx, notify.EligibleKey(cust.ID)).Result()
	require.NoError(t, err)
	require.ElementsMatch(t, []string{a, b}, members)

	// чтение
	getResp, err := http.Get(env.ts.URL + "/orders/" + orderID)
	require.NoError(t, err)
	defer getResp.Body.Close()
	require.Equal(t, http.StatusOK, getResp.StatusCode)
	var got domain.PersistedOrder
	require.NoError(t, json.NewDecoder(getResp.Body).Decode(&got))
	require.Equal(t, orderID, got.ID)
	require.Len(t, got.Lines, 2)

	listResp, err := http.Get(env.ts.URL + fmt.Sprintf("/customers/%s/orders", cust.ID))
	require.NoError(t, err)
	defer listResp.Body.Close()
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	var list []domain.PersistedOrder
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&list))
	require.Len(t, list, 1)
	require.Equal(t, orderID, list[0].ID)
}

// 2) Отказы: каждый итог — свой статус и code, ничего не записано и не отправлено
func TestHTTP_Checkout_Rejections_TC(t *testing.T) {
	env := newEnv(t)

	cust, a, b := env.seedShop(t, 10, 4) // второго товара меньше 5
	other := testutil.MakeCustomer()
	require.NoError(t, testutil.SeedCustomer(env.ctx, env.pg.Pool, other))

	noLines := testutil.OrderRequest(cust.ID, a, b)
	noLines.Lines = nil

	cases := []struct {
		name     string
		req      domain.OrderRequest
		identity string
		role     string
		status   int
		code     string
	}{
		{"insufficient stock", testutil.OrderRequest(cust.ID, a, b), cust.Identity, "customer", http.StatusConflict, "insufficient_stock"},
		{"foreign customer", testutil.OrderRequest(cust.ID, a, b), other.Identity, "customer", http.StatusForbidden, "access_denied"},
		{"unknown customer", testutil.OrderRequest("cust-ghost", a, b), "staff-1", "staff", http.StatusNotFound, "customer_not_found"},
		{"unknown product", testutil.OrderRequest(cust.ID, a, "prod-ghost"), cust.Identity, "customer", http.StatusUnprocessableEntity, "product_not_found"},
		{"empty lines", noLines, cust.Identity, "customer", http.StatusBadRequest, "malformed_order"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := env.post(t, tc.req, tc.identity, tc.role)
			defer resp.Body.Close()
			require.Equal(t, tc.status, resp.StatusCode)

			var body map[string]string
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			require.Equal(t, tc.code, body["code"])
		})
	}

	qa, err := testutil.ProductQuantity(env.ctx, env.pg.Pool, a)
	require.NoError(t, err)
	require.Equal(t, 10, qa)
	require.Empty(t, env.billing.ids())
	require.Empty(t, env.stock.ids())
}

// 3) Staff оформляет за клиента; без заголовков вызывающего — 401
func TestHTTP_Checkout_StaffAndUnauthenticated_TC(t *testing.T) {
	env := newEnv(t)

	cust, a, b := env.seedShop(t, 10, 10)

	resp := env.post(t, testutil.OrderRequest(cust.ID, a, b), "", "")
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = env.post(t, testutil.OrderRequest(cust.ID, a, b), "ops-1", "staff")
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

// 4) GET /orders/:id — 404 когда заказа нет
func TestHTTP_GetOrder_NotFound_TC(t *testing.T) {
	env := newEnv(t)

	resp, err := http.Get(env.ts.URL + "/orders/not-existing-id")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	var got map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Equal(t, "order not found", got["error"])
}

// 5) GET /customers/:id/orders — пагинация и фильтрация по клиенту
func TestHTTP_ListOrdersByCustomer_Pagination_TC(t *testing.T) {
	env := newEnv(t)

	cust, a, b := env.seedShop(t, 100, 100)
	for i := 0; i < 3; i++ {
		o := testutil.MakeOrder(cust.ID, a, b)
		_, err := env.orders.CreateOrder(env.ctx, &o)
		require.NoError(t, err)
	}
	other, _, _ := env.seedShop(t, 1, 1)
	oOther := testutil.MakeOrder(other.ID, a, b)
	_, err := env.orders.CreateOrder(env.ctx, &oOther)
	require.NoError(t, err)

	resp, err := http.Get(env.ts.URL + fmt.Sprintf("/customers/%s/orders?limit=2&offset=1", cust.ID))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got []domain.PersistedOrder
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Len(t, got, 2)
	for _, ord := range got {
		require.Equal(t, cust.ID, ord.CustomerID)
	}
}

// 6) /ping, /metrics (после оформления есть счётчик итогов), 404 на неизвестный маршрут
func TestHTTP_Health_Metrics_And_404_TC(t *testing.T) {
	env := newEnv(t)

	cust, a, b := env.seedShop(t, 10, 10)
	resp := env.post(t, testutil.OrderRequest(cust.ID, a, b), cust.Identity, "customer")
	resp.Body.Close()

	ping, err := http.Get(env.ts.URL + "/ping")
	require.NoError(t, err)
	defer ping.Body.Close()
	require.Equal(t, http.StatusOK, ping.StatusCode)

	respM, err := http.Get(env.ts.URL + "/metrics")
	require.NoError(t, err)
	defer respM.Body.Close()
	require.Equal(t, http.StatusOK, respM.StatusCode)
	require.Contains(t, readAll(t, respM), "checkout_outcomes_total")

	resp404, err := http.Get(env.ts.URL + "/no/such/route")
	require.NoError(t, err)
	defer resp404.Body.Close()
	require.Equal(t, http.StatusNotFound, resp404.StatusCode)
}

// 7) Таймаут обработчика: медленный сервис — 500
func TestHTTP_GetOrder_Timeout_500_TC(t *testing.T) {
	logg, cleanup, err := logger.NewZapLogger(false)
	require.NoError(t, err)
	defer func() { _ = cleanup() }()

	h := rest.NewHandler(slowService{}, logg, 10*time.Millisecond)
	ts := httptest.NewServer(rest.NewRouter(h, ""))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/orders/any")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var got map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Equal(t, "internal server error", got["error"])
}

// --- функции помощники ---

type httpEnv struct {
	ctx     context.Context
	pg      *testutil.PGContainer
	orders  *pgrepo.OrderRepository
	rdb     *redis.Client
	billing *recorder
	stock   *recorder
	ts      *httptest.Server
}

func newEnv(t *testing.T) *httpEnv {
	t.Helper()

	pg := testutil.Postgres(t)
	rd := testutil.Redis(t)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	t.Cleanup(cancel)

	logg, cleanup, err := logger.NewZapLogger(false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cleanup() })

	metrics.MustRegister()

	rdb := redis.NewClient(&redis.Options{Addr: rd.Addr})
	t.Cleanup(func() { _ = rdb.Close() })

	e := &httpEnv{
		ctx:     ctx,
		pg:      pg,
		orders:  pgrepo.NewOrderRepository(pg.Pool),
		rdb:     rdb,
		billing: &recorder{},
		stock:   &recorder{},
	}

	svc := usecase.NewCheckoutService(usecase.CheckoutDeps{
		Validator:   validate.NewOrderValidator(),
		Customers:   pgrepo.NewCustomerRepository(pg.Pool),
		Products:    pgrepo.NewProductRepository(pg.Pool),
		Orders:      e.orders,
		Cache:       cachemem.NewOrderLRU(100, time.Minute),
		Billing:     e.billing,
		StockMirror: e.stock,
		Review:      notify.NewReviewRegistry(rdb, time.Hour),
		Log:         logg,
	}, usecase.CheckoutOptions{})

	e.ts = httptest.NewServer(rest.NewRouter(rest.NewHandler(svc, logg, 5*time.Second), ""))
	t.Cleanup(e.ts.Close)
	return e
}

func (e *httpEnv) seedShop(t *testing.T, qtyA, qtyB int) (domain.Customer, string, string) {
	t.Helper()
	cust := testutil.MakeCustomer()
	require.NoError(t, testutil.SeedCustomer(e.ctx, e.pg.Pool, cust))
	a, err := testutil.SeedProduct(e.ctx, e.pg.Pool, "Tea", qtyA)
	require.NoError(t, err)
	b, err := testutil.SeedProduct(e.ctx, e.pg.Pool, "Coffee", qtyB)
	require.NoError(t, err)
	return cust, a, b
}

func (e *httpEnv) post(t *testing.T, req domain.OrderRequest, identity, role string) *http.Response {
	t.Helper()
	raw, err := json.Marshal(req)
	require.NoError(t, err)

	httpReq, err := http.NewRequest(http.MethodPost, e.ts.URL+"/orders", strings.NewReader(string(raw)))
	require.NoError(t, err)
	httpReq.Header.Set("Content-Type", "application/json")
	if identity != "" {
		httpReq.Header.Set(httpx.HeaderCallerID, identity)
	}
	if role != "" {
		httpReq.Header.Set(httpx.HeaderCallerRole, role)
	}
	resp, err := http.DefaultClient.Do(httpReq)
	require.NoError(t, err)
	return resp
}

func readAll(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

// recorder — биллинг / зеркало остатков в памяти: запоминает ID заказов.
type recorder struct {
	mu     sync.Mutex
	orders []string
}

func (r *recorder) RecordOrder(_ context.Context, order *domain.PersistedOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = append(r.orders, order.ID)
	return nil
}

func (r *recorder) ReportReductions(_ context.Context, orderID string, _ []domain.StockRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = append(r.orders, orderID)
	return nil
}

func (r *recorder) ids() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.orders...)
}

// slowService — всегда ждёт ctx.Done() и возвращает ошибку контекста.
type slowService struct{}

func (slowService) CreateOrder(ctx context.Context, _ *domain.OrderRequest, _ domain.Caller) ports.CheckoutResult {
	<-ctx.Done()
	return ports.CheckoutResult{Outcome: domain.OutcomePersistenceFailure, Reason: ctx.Err().Error()}
}
func (slowService) GetOrder(ctx context.Context, _ string) (*domain.PersistedOrder, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}
func (slowService) OrdersByCustomer(ctx context.Context, _ string, _, _ int) ([]*domain.PersistedOrder, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}
