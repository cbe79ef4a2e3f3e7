package postgres

import (
	"context"
	"fmt"
	"math"

	"github.com/Gunvolt24/shop_checkout/internal/domain"
	"github.com/Gunvolt24/shop_checkout/internal/ports"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Проверка, что ProductRepository удовлетворяет интерфейсу ProductStore.
var _ ports.ProductStore = (*ProductRepository)(nil)

// ProductRepository — пакетные проверки каталога: один запрос на весь заказ.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository — конструктор ProductRepository.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// ProductsExist — все товары из запроса есть в каталоге.
func (r *ProductRepository) ProductsExist(ctx context.Context, products []domain.StockRequest) (bool, error) {
	if len(products) == 0 {
		return true, nil
	}
	ids, _, err := demandArrays(products)
	if err != nil {
		return false, err
	}

	var found int
	if err := r.pool.QueryRow(ctx, `
		SELECT count(*) FROM products WHERE id = ANY($1::text[])
	`, ids).Scan(&found); err != nil {
		return false, fmt.Errorf("count products: %w", err)
	}
	return found == len(ids), nil
}

// ProductsInStock — остатка хватает по каждому товару (сравнение с текущим количеством).
func (r *ProductRepository) ProductsInStock(ctx context.Context, products []domain.StockRequest) (bool, error) {
	if len(products) == 0 {
		return true, nil
	}
	ids, qty, err := demandArrays(products)
	if err != nil {
		return false, err
	}

	var enough int
	if err := r.pool.QueryRow(ctx, `
		SELECT count(*)
		FROM products p
		JOIN unnest($1::text[], $2::int[]) AS r(id, qty) ON p.id = r.id
		WHERE p.quantity >= r.qty
	`, ids, qty).Scan(&enough); err != nil {
		return false, fmt.Errorf("check stock: %w", err)
	}
	return enough == len(ids), nil
}

// demandArrays — раскладывает спрос на параллельные массивы для unnest.
// Товары во входе уникальны (см. domain.StockRequests).
func demandArrays(products []domain.StockRequest) ([]string, []int32, error) {
	ids := make([]string, 0, len(products))
	qty := make([]int32, 0, len(products))
	for _, p := range products {
		q, err := toInt4(p.Quantity)
		if err != nil {
			return nil, nil, fmt.Errorf("product %s: %w", p.ProductID, err)
		}
		ids = append(ids, p.ProductID)
		qty = append(qty, q)
	}
	return ids, qty, nil
}

// toInt4 — количество в INTEGER без молчаливого усечения.
func toInt4(v int) (int32, error) {
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, fmt.Errorf("%w: quantity %d out of integer range", ports.ErrUnstorable, v)
	}
	return int32(v), nil
}
