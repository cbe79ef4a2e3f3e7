package ports

import (
	"context"
	"errors"

	"github.com/Gunvolt24/shop_checkout/internal/domain"
)

// ErrUnstorable — хранилище отвергло сами данные заказа (переполнение, нарушение ограничения).
// Повтор с теми же данными даст тот же отказ.
var ErrUnstorable = errors.New("order data rejected by store")

// OrderStore — транзакционное хранилище заказов.
type OrderStore interface {
	// CreateOrder — атомарно сохраняет заказ со строками и списывает остатки.
	// Возвращает присвоенный ID; при ошибке ничего не применяется.
	CreateOrder(ctx context.Context, order *domain.PersistedOrder) (string, error)
	// ClearBasket — идемпотентно очищает корзину клиента.
	ClearBasket(ctx context.Context, customerID string) error

	GetByID(ctx context.Context, orderID string) (*domain.PersistedOrder, error)
	ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]*domain.PersistedOrder, error)
	LastN(ctx context.Context, n int) ([]*domain.PersistedOrder, error)
}
