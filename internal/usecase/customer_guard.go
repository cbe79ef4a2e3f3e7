package usecase

import (
	"context"
	"fmt"

	"github.com/Gunvolt24/shop_checkout/internal/domain"
	"github.com/Gunvolt24/shop_checkout/internal/ports"
)

// CustomerGuard — находит покупателя и проверяет, что вызывающий вправе оформить заказ от его имени.
type CustomerGuard struct {
	customers ports.CustomerStore
}

// NewCustomerGuard — DI-конструктор.
func NewCustomerGuard(customers ports.CustomerStore) *CustomerGuard {
	return &CustomerGuard{customers: customers}
}

// Authorize — проверки по порядку, до первой ошибки:
//  1. клиент существует и активен, иначе ErrCustomerNotFound;
//  2. роль customer действует только от своего имени (staff — без проверки), иначе ErrAccessDenied;
//  3. клиенту разрешены покупки, иначе ErrAccessDenied;
//  4. адрес заполнен (line1, area_code, country, telephone), иначе ErrAccessDenied.
//
// Неактивный клиент неотличим от отсутствующего.
// Ошибка хранилища возвращается как есть (без sentinel).
func (g *CustomerGuard) Authorize(ctx context.Context, customerID string, caller domain.Caller) (*domain.Customer, error) {
	customer, err := g.customers.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("load customer %s: %w", customerID, err)
	}
	if customer == nil || !customer.Active {
		return nil, fmt.Errorf("%w: id=%s", ErrCustomerNotFound, customerID)
	}
	if caller.Role != domain.RoleStaff && customer.Identity != caller.Identity {
		return nil, fmt.Errorf("%w: caller %q is not the owner of customer %s", ErrAccessDenied, caller.Identity, customerID)
	}
	if !customer.CanPurchase {
		return nil, fmt.Errorf("%w: purchases disabled for customer %s", ErrAccessDenied, customerID)
	}
	if !customer.Address.Complete() {
		return nil, fmt.Errorf("%w: incomplete address for customer %s", ErrAccessDenied, customerID)
	}
	return customer, nil
}
