//go:build integration

package testutil

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/Gunvolt24/shop_checkout/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

func randHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func UniqSuffix() string { return randHex(6) }

// MakeCustomer — активный клиент с полным адресом, которому разрешены покупки.
func MakeCustomer(opts ...func(*domain.Customer)) domain.Customer {
	c := domain.Customer{
		ID:          "cust-" + UniqSuffix(),
		Identity:    "user-" + UniqSuffix(),
		Active:      true,
		CanPurchase: true,
		Address: domain.Address{
			Line1:     "Main st 1",
			Town:      "Metropolis",
			AreaCode:  "000000",
			Country:   "NA",
			Telephone: "+1-202-555-01",
		},
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// SeedCustomer — вставка клиента напрямую (CRUD клиентов вне этого сервиса).
func SeedCustomer(ctx context.Context, pool *pgxpool.Pool, c domain.Customer) error {
	_, err := pool.Exec(ctx, `
		INSERT INTO customers (id, identity, active, can_purchase,
			address_line1, address_line2, address_town, address_state,
			address_area_code, address_country, address_telephone)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, c.ID, c.Identity, c.Active, c.CanPurchase,
		c.Address.Line1, c.Address.Line2, c.Address.Town, c.Address.State,
		c.Address.AreaCode, c.Address.Country, c.Address.Telephone)
	if err != nil {
		return fmt.Errorf("seed customer: %w", err)
	}
	return nil
}

// SeedProduct — товар с заданным остатком; возвращает id.
func SeedProduct(ctx context.Context, pool *pgxpool.Pool, name string, quantity int) (string, error) {
	id := "prod-" + UniqSuffix()
	if _, err := pool.Exec(ctx, `INSERT INTO products (id, name, quantity) VALUES ($1, $2, $3)`, id, name, quantity); err != nil {
		return "", fmt.Errorf("seed product: %w", err)
	}
	return id, nil
}

// SeedBasketItem — позиция в корзине клиента.
func SeedBasketItem(ctx context.Context, pool *pgxpool.Pool, customerID, productID string, quantity int) error {
	if _, err := pool.Exec(ctx, `
		INSERT INTO basket_items (customer_id, product_id, quantity) VALUES ($1, $2, $3)
	`, customerID, productID, quantity); err != nil {
		return fmt.Errorf("seed basket: %w", err)
	}
	return nil
}

// ProductQuantity — текущий остаток товара.
func ProductQuantity(ctx context.Context, pool *pgxpool.Pool, productID string) (int, error) {
	var q int
	err := pool.QueryRow(ctx, `SELECT quantity FROM products WHERE id = $1`, productID).Scan(&q)
	return q, err
}

// BasketSize — число позиций в корзине клиента.
func BasketSize(ctx context.Context, pool *pgxpool.Pool, customerID string) (int, error) {
	var n int
	err := pool.QueryRow(ctx, `SELECT count(*) FROM basket_items WHERE customer_id = $1`, customerID).Scan(&n)
	return n, err
}

// MakeOrder — заказ для прямой записи в хранилище: две строки (2 × 1.99, 5 × 3.99 = 23.93).
func MakeOrder(customerID, productA, productB string, opts ...func(*domain.PersistedOrder)) domain.PersistedOrder {
	now := time.Now().UTC().Truncate(time.Microsecond)
	o := domain.PersistedOrder{
		CustomerID: customerID,
		OrderDate:  now,
		Total:      decimal.RequireFromString("23.93"),
		CreatedAt:  now,
		Lines: []domain.OrderLine{
			{ProductID: productA, Name: "Tea", UnitPrice: decimal.RequireFromString("1.99"), Quantity: 2},
			{ProductID: productB, Name: "Coffee", UnitPrice: decimal.RequireFromString("3.99"), Quantity: 5},
		},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func WithOrderDate(t time.Time) func(*domain.PersistedOrder) {
	return func(o *domain.PersistedOrder) { o.OrderDate = t }
}

func WithCreatedAt(t time.Time) func(*domain.PersistedOrder) {
	return func(o *domain.PersistedOrder) { o.CreatedAt = t }
}

// OrderRequest — заявка на те же две строки.
func OrderRequest(customerID, productA, productB string) domain.OrderRequest {
	o := MakeOrder(customerID, productA, productB)
	return domain.OrderRequest{CustomerID: o.CustomerID, OrderDate: o.OrderDate, Total: o.Total, Lines: o.Lines}
}
