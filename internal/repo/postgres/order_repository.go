package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Gunvolt24/shop_checkout/internal/domain"
	"github.com/Gunvolt24/shop_checkout/internal/ports"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Проверка, что OrderRepository удовлетворяет интерфейсу OrderStore.
var _ ports.OrderStore = (*OrderRepository)(nil)

// ErrStockConflict — к моменту записи остатка уже не хватает (конкурентный заказ успел раньше).
var ErrStockConflict = errors.New("stock changed concurrently")

// unstorable — ошибки классов SQLSTATE 22 (данные) и 23 (ограничения) помечаются
// ports.ErrUnstorable: повтор их не исправит.
func unstorable(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && (strings.HasPrefix(pgErr.Code, "22") || strings.HasPrefix(pgErr.Code, "23")) {
		return fmt.Errorf("%w: %w", ports.ErrUnstorable, err)
	}
	return err
}

// OrderRepository — реализация хранилища заказов на Postgres (pgxpool).
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository - конструктор OrderRepository.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository { return &OrderRepository{pool: pool} }

// CreateOrder — в одной транзакции: строка заказа, строки товаров (CopyFrom), списание остатков.
// Списание условное (quantity >= спроса); если обновлено меньше товаров, чем заказано,
// транзакция откатывается с ErrStockConflict. Частично сохранённого заказа не бывает.
func (r *OrderRepository) CreateOrder(ctx context.Context, order *domain.PersistedOrder) (string, error) {
	id, err := r.createOrder(ctx, order)
	if err != nil {
		return "", unstorable(err)
	}
	return id, nil
}

func (r *OrderRepository) createOrder(ctx context.Context, order *domain.PersistedOrder) (string, error) {
	if order == nil || len(order.Lines) == 0 {
		return "", errors.New("order is empty or has no lines")
	}
	if order.CustomerID == "" {
		return "", errors.New("customer_id is required")
	}

	id := order.ID
	if id == "" {
		id = uuid.NewString()
	}
	createdAt := order.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	transaction, err := r.pool.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer func() {
		// При уже завершённой транзакции Rollback вернёт ErrTxClosed — игнорируем.
		if rbErr := transaction.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			_ = rbErr
		}
	}()

	// 1) orders
	if _, err = transaction.Exec(ctx, `
		INSERT INTO orders (id, customer_id, order_date, total, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, id, order.CustomerID, order.OrderDate, numeric(order.Total), createdAt); err != nil {
		return "", fmt.Errorf("insert order: %w", err)
	}

	// 2) order_lines
	if err = copyLines(ctx, transaction, id, order.Lines); err != nil {
		return "", err
	}

	// 3) products — условное списание по суммарному спросу
	ids, qty, err := demandArrays(domain.StockRequests(order.Lines))
	if err != nil {
		return "", err
	}
	tag, err := transaction.Exec(ctx, `
		UPDATE products p
		SET quantity = p.quantity - r.qty
		FROM unnest($1::text[], $2::int[]) AS r(id, qty)
		WHERE p.id = r.id AND p.quantity >= r.qty
	`, ids, qty)
	if err != nil {
		return "", fmt.Errorf("decrement stock: %w", err)
	}
	if tag.RowsAffected() != int64(len(ids)) {
		return "", fmt.Errorf("%w: updated %d of %d products", ErrStockConflict, tag.RowsAffected(), len(ids))
	}

	// Завершаем транзакцию
	if err := transaction.Commit(ctx); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

// ClearBasket — идемпотентно удаляет корзину клиента (пустая корзина — не ошибка).
func (r *OrderRepository) ClearBasket(ctx context.Context, customerID string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM basket_items WHERE customer_id = $1`, customerID); err != nil {
		return fmt.Errorf("clear basket: %w", err)
	}
	return nil
}

// GetByID — получить заказ по id вместе со строками. Если не нашли, возвращает (nil, nil).
func (r *OrderRepository) GetByID(ctx context.Context, orderID string) (*domain.PersistedOrder, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, customer_id, order_date, total, created_at
		FROM orders WHERE id = $1
	`, orderID)
	order, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select order: %w", err)
	}

	if err := r.attachLines(ctx, []*domain.PersistedOrder{order}); err != nil {
		return nil, err
	}
	return order, nil
}

// ListByCustomer — постраничный список заказов клиента (новые первыми).
// Два запроса на страницу: заказы и строки всех заказов страницы; склейка в памяти с сохранением порядка.
func (r *OrderRepository) ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]*domain.PersistedOrder, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, customer_id, order_date, total, created_at
		FROM orders
		WHERE customer_id = $1
		ORDER BY order_date DESC, id DESC
		LIMIT $2 OFFSET $3
	`, customerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("select customer orders: %w", err)
	}
	orders, err := collectOrders(rows, limit)
	if err != nil {
		return nil, err
	}
	if err := r.attachLines(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// LastN — последние N созданных заказов (для прогрева кэша).
func (r *OrderRepository) LastN(ctx context.Context, n int) ([]*domain.PersistedOrder, error) {
	if n <= 0 {
		return []*domain.PersistedOrder{}, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, customer_id, order_date, total, created_at
		FROM orders
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, n)
	if err != nil {
		return nil, fmt.Errorf("select last orders: %w", err)
	}
	orders, err := collectOrders(rows, n)
	if err != nil {
		return nil, err
	}
	if err := r.attachLines(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// attachLines — один запрос строк для всех заказов, порядок строк — как при создании.
func (r *OrderRepository) attachLines(ctx context.Context, orders []*domain.PersistedOrder) error {
	if len(orders) == 0 {
		return nil
	}
	byID := make(map[string]*domain.PersistedOrder, len(orders))
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
		ids = append(ids, o.ID)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT order_id, product_id, name, unit_price, quantity
		FROM order_lines
		WHERE order_id = ANY($1::text[])
		ORDER BY order_id, line_no
	`, ids)
	if err != nil {
		return fmt.Errorf("select lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID string
			line    domain.OrderLine
			price   pgtype.Numeric
		)
		if err := rows.Scan(&orderID, &line.ProductID, &line.Name, &price, &line.Quantity); err != nil {
			return fmt.Errorf("scan line: %w", err)
		}
		if line.UnitPrice, err = fromNumeric(price); err != nil {
			return fmt.Errorf("line unit_price order_id=%s: %w", orderID, err)
		}
		if o := byID[orderID]; o != nil {
			o.Lines = append(o.Lines, line)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("lines rows: %w", err)
	}
	return nil
}

// collectOrders — читает заказы без строк и закрывает rows.
func collectOrders(rows pgx.Rows, capHint int) ([]*domain.PersistedOrder, error) {
	defer rows.Close()

	orders := make([]*domain.PersistedOrder, 0, capHint)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("orders rows: %w", err)
	}
	return orders, nil
}

// scanOrder — одна строка orders (id, customer_id, order_date, total, created_at).
func scanOrder(row pgx.Row) (*domain.PersistedOrder, error) {
	var (
		order domain.PersistedOrder
		total pgtype.Numeric
	)
	if err := row.Scan(&order.ID, &order.CustomerID, &order.OrderDate, &total, &order.CreatedAt); err != nil {
		return nil, err
	}
	var err error
	if order.Total, err = fromNumeric(total); err != nil {
		return nil, fmt.Errorf("order total id=%s: %w", order.ID, err)
	}
	order.OrderDate = order.OrderDate.UTC()
	order.CreatedAt = order.CreatedAt.UTC()
	return &order, nil
}

// copyLines — массовая вставка строк заказа через COPY.
func copyLines(ctx context.Context, tx pgx.Tx, orderID string, lines []domain.OrderLine) error {
	rows := make([][]any, 0, len(lines))
	for i, line := range lines {
		qty, err := toInt4(line.Quantity)
		if err != nil {
			return fmt.Errorf("line %d: %w", i+1, err)
		}
		rows = append(rows, []any{orderID, int32(i + 1), line.ProductID, line.Name, numeric(line.UnitPrice), qty})
	}

	_, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"order_lines"},
		[]string{"order_id", "line_no", "product_id", "name", "unit_price", "quantity"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("copy lines: %w", err)
	}
	return nil
}
