package ports

import (
	"context"

	"github.com/Gunvolt24/shop_checkout/internal/domain"
)

// OrderCache — интерфейс кэша заказов.
// Требования к реализации: потокобезопасность; доступ по ключу не хуже O(1); возврат копий сущности.
type OrderCache interface {
	// Get — вернуть заказ по ID; (order, true) при попадании, (nil, false) при промахе/истечении.
	Get(ctx context.Context, orderID string) (*domain.PersistedOrder, bool)

	// Set — сохранить/обновить заказ в кэше.
	Set(ctx context.Context, order *domain.PersistedOrder) error

	// WarmUp — массовая загрузка кэша (например, при старте).
	// Реализация должна поддерживать отмену контекста.
	WarmUp(ctx context.Context, orders []*domain.PersistedOrder) error
}
