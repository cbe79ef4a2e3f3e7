//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Gunvolt24/shop_checkout/internal/domain"
	pgrepo "github.com/Gunvolt24/shop_checkout/internal/repo/postgres"
	"github.com/Gunvolt24/shop_checkout/internal/testutil"
)

// startDB — контейнер Postgres с применёнными миграциями и пул на него.
func startDB(t *testing.T) (*pgxpool.Pool, context.Context) {
	t.Helper()

	pg := testutil.Postgres(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return pg.Pool, ctx
}

// seedShop — клиент и два товара с заданными остатками.
func seedShop(t *testing.T, ctx context.Context, pool *pgxpool.Pool, qtyA, qtyB int) (domain.Customer, string, string) {
	t.Helper()
	cust := testutil.MakeCustomer()
	require.NoError(t, testutil.SeedCustomer(ctx, pool, cust))
	a, err := testutil.SeedProduct(ctx, pool, "Tea", qtyA)
	require.NoError(t, err)
	b, err := testutil.SeedProduct(ctx, pool, "Coffee", qtyB)
	require.NoError(t, err)
	return cust, a, b
}

// 1) Создание заказа: строки сохранены, остатки списаны, чтение возвращает то же самое
func TestRepo_CreateOrderAndGet_TC(t *testing.T) {
	t.Parallel()
	pool, ctx := startDB(t)
	repo := pgrepo.NewOrderRepository(pool)

	cust, a, b := seedShop(t, ctx, pool, 10, 10)
	ord := testutil.MakeOrder(cust.ID, a, b)

	id, err := repo.CreateOrder(ctx, &ord)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	qa, err := testutil.ProductQuantity(ctx, pool, a)
	require.NoError(t, err)
	qb, err := testutil.ProductQuantity(ctx, pool, b)
	require.NoError(t, err)
	require.Equal(t, 8, qa)
	require.Equal(t, 5, qb)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, id, got.ID)
	require.Equal(t, cust.ID, got.CustomerID)
	require.True(t, got.Total.Equal(decimal.RequireFromString("23.93")))
	require.True(t, got.OrderDate.Equal(ord.OrderDate))
	require.Len(t, got.Lines, 2)
	require.Equal(t, a, got.Lines[0].ProductID)
	require.True(t, got.Lines[0].UnitPrice.Equal(decimal.RequireFromString("1.99")))
	require.Equal(t, 5, got.Lines[1].Quantity)
}

// 2) Нехватка остатка при записи — откат целиком, ничего не списано
func TestRepo_CreateOrder_StockConflictRollsBack_TC(t *testing.T) {
	t.Parallel()
	pool, ctx := startDB(t)
	repo := pgrepo.NewOrderRepository(pool)

	cust, a, b := seedShop(t, ctx, pool, 10, 4) // второго товара меньше, чем 5
	ord := testutil.MakeOrder(cust.ID, a, b)

	_, err := repo.CreateOrder(ctx, &ord)
	require.ErrorIs(t, err, pgrepo.ErrStockConflict)

	qa, err := testutil.ProductQuantity(ctx, pool, a)
	require.NoError(t, err)
	require.Equal(t, 10, qa, "first product must not be decremented")

	list, err := repo.ListByCustomer(ctx, cust.ID, 10, 0)
	require.NoError(t, err)
	require.Empty(t, list)
}

// 3) Повторяющийся товар в строках списывается суммарно
func TestRepo_CreateOrder_DuplicateProductSummed_TC(t *testing.T) {
	t.Parallel()
	pool, ctx := startDB(t)
	repo := pgrepo.NewOrderRepository(pool)

	cust, a, b := seedShop(t, ctx, pool, 6, 10)
	ord := testutil.MakeOrder(cust.ID, a, b)
	ord.Lines = append(ord.Lines, domain.OrderLine{ProductID: a, Name: "Tea", UnitPrice: decimal.RequireFromString("1.99"), Quantity: 4})

	_, err := repo.CreateOrder(ctx, &ord)
	require.NoError(t, err)

	qa, err := testutil.ProductQuantity(ctx, pool, a)
	require.NoError(t, err)
	require.Equal(t, 0, qa)
}

// 4) Конкурентные заказы на последний остаток — ровно один успешен
func TestRepo_CreateOrder_ConcurrentLastUnit_TC(t *testing.T) {
	t.Parallel()
	pool, ctx := startDB(t)
	repo := pgrepo.NewOrderRepository(pool)

	cust, a, b := seedShop(t, ctx, pool, 2, 5) // ровно на один заказ

	const workers = 4
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ord := testutil.MakeOrder(cust.ID, a, b)
			_, err := repo.CreateOrder(ctx, &ord)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, pgrepo.ErrStockConflict):
				conflicts++
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1, succeeded)
	require.Equal(t, workers-1, conflicts)

	qa, err := testutil.ProductQuantity(ctx, pool, a)
	require.NoError(t, err)
	require.Equal(t, 0, qa)
}

// 5) ClearBasket — удаляет позиции и идемпотентен на пустой корзине
func TestRepo_ClearBasket_Idempotent_TC(t *testing.T) {
	t.Parallel()
	pool, ctx := startDB(t)
	repo := pgrepo.NewOrderRepository(pool)

	cust, a, b := seedShop(t, ctx, pool, 1, 1)
	require.NoError(t, testutil.SeedBasketItem(ctx, pool, cust.ID, a, 1))
	require.NoError(t, testutil.SeedBasketItem(ctx, pool, cust.ID, b, 1))

	require.NoError(t, repo.ClearBasket(ctx, cust.ID))
	n, err := testutil.BasketSize(ctx, pool, cust.ID)
	require.NoError(t, err)
	require.Zero(t, n)

	// повторный вызов на пустой корзине — успех
	require.NoError(t, repo.ClearBasket(ctx, cust.ID))
}

// 6) ListByCustomer — пагинация и сортировка по order_date DESC
func TestRepo_ListByCustomer_PaginationAndOrder_TC(t *testing.T) {
	t.Parallel()
	pool, ctx := startDB(t)
	repo := pgrepo.NewOrderRepository(pool)

	cust, a, b := seedShop(t, ctx, pool, 100, 100)
	other, _, _ := seedShop(t, ctx, pool, 1, 1)

	base := time.Now().UTC().Add(-time.Hour).Truncate(time.Microsecond)
	var ids []string
	for i := 0; i < 5; i++ {
		o := testutil.MakeOrder(cust.ID, a, b, testutil.WithOrderDate(base.Add(time.Duration(i)*time.Minute)))
		id, err := repo.CreateOrder(ctx, &o)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	o := testutil.MakeOrder(other.ID, a, b)
	_, err := repo.CreateOrder(ctx, &o)
	require.NoError(t, err)

	page1, err := repo.ListByCustomer(ctx, cust.ID, 2, 0)
	require.NoError(t, err)
	require.Len(t, page1, 2)
	require.Equal(t, ids[4], page1[0].ID)
	require.Equal(t, ids[3], page1[1].ID)
	require.Len(t, page1[0].Lines, 2)

	page3, err := repo.ListByCustomer(ctx, cust.ID, 2, 4)
	require.NoError(t, err)
	require.Len(t, page3, 1)
	require.Equal(t, ids[0], page3[0].ID)

	for _, pg := range [][]*domain.PersistedOrder{page1, page3} {
		for _, o := range pg {
			require.Equal(t, cust.ID, o.CustomerID)
		}
	}
}

// 7) LastN — последние N по времени создания, со строками
func TestRepo_LastN_ReturnsLatestFull_TC(t *testing.T) {
	t.Parallel()
	pool, ctx := startDB(t)
	repo := pgrepo.NewOrderRepository(pool)

	cust, a, b := seedShop(t, ctx, pool, 100, 100)
	base := time.Now().UTC().Add(-time.Hour)
	var ids []string
	for i := 0; i < 4; i++ {
		o := testutil.MakeOrder(cust.ID, a, b, testutil.WithCreatedAt(base.Add(time.Duration(i)*time.Minute)))
		id, err := repo.CreateOrder(ctx, &o)
		require.NoError(t, err)
		ids = append(ids, id)
	}

	latest3, err := repo.LastN(ctx, 3)
	require.NoError(t, err)
	require.Len(t, latest3, 3)
	require.Equal(t, []string{ids[3], ids[2], ids[1]}, []string{latest3[0].ID, latest3[1].ID, latest3[2].ID})
	for _, o := range latest3 {
		require.Len(t, o.Lines, 2)
	}
}

// 8) Клиенты и каталог
func TestRepo_CustomersAndProducts_TC(t *testing.T) {
	t.Parallel()
	pool, ctx := startDB(t)
	customers := pgrepo.NewCustomerRepository(pool)
	products := pgrepo.NewProductRepository(pool)

	cust, a, b := seedShop(t, ctx, pool, 3, 5)

	got, err := customers.GetCustomer(ctx, cust.ID)
	require.NoError(t, err)
	require.Equal(t, cust, *got)

	missing, err := customers.GetCustomer(ctx, "no-such-customer")
	require.NoError(t, err)
	require.Nil(t, missing)

	demand := []domain.StockRequest{{ProductID: a, Quantity: 3}, {ProductID: b, Quantity: 5}}
	ok, err := products.ProductsExist(ctx, demand)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = products.ProductsInStock(ctx, demand)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = products.ProductsInStock(ctx, []domain.StockRequest{{ProductID: a, Quantity: 4}, {ProductID: b, Quantity: 1}})
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = products.ProductsExist(ctx, []domain.StockRequest{{ProductID: a, Quantity: 1}, {ProductID: "ghost", Quantity: 1}})
	require.NoError(t, err)
	require.False(t, ok)
}

// 9) CreateOrder — ошибки входа
func TestRepo_CreateOrder_ValidationErrors_TC(t *testing.T) {
	t.Parallel()
	pool, ctx := startDB(t)
	repo := pgrepo.NewOrderRepository(pool)

	_, err := repo.CreateOrder(ctx, nil)
	require.Error(t, err)

	_, err = repo.CreateOrder(ctx, &domain.PersistedOrder{CustomerID: "c"})
	require.Error(t, err)

	o := testutil.MakeOrder("", "a", "b")
	_, err = repo.CreateOrder(ctx, &o)
	require.Error(t, err)
}
