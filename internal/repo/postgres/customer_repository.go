package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Gunvolt24/shop_checkout/internal/domain"
	"github.com/Gunvolt24/shop_checkout/internal/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Проверка, что CustomerRepository удовлетворяет интерфейсу CustomerStore.
var _ ports.CustomerStore = (*CustomerRepository)(nil)

// CustomerRepository — чтение клиентов из Postgres.
type CustomerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository — конструктор CustomerRepository.
func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

// GetCustomer — клиент по id вместе с адресом. Если не нашли, возвращает (nil, nil).
func (r *CustomerRepository) GetCustomer(ctx context.Context, customerID string) (*domain.Customer, error) {
	var c domain.Customer
	err := r.pool.QueryRow(ctx, `
		SELECT id, identity, active, can_purchase,
			address_line1, address_line2, address_town, address_state,
			address_area_code, address_country, address_telephone
		FROM customers WHERE id = $1
	`, customerID).Scan(
		&c.ID, &c.Identity, &c.Active, &c.CanPurchase,
		&c.Address.Line1, &c.Address.Line2, &c.Address.Town, &c.Address.State,
		&c.Address.AreaCode, &c.Address.Country, &c.Address.Telephone,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select customer: %w", err)
	}
	return &c, nil
}
