package validate

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/Gunvolt24/shop_checkout/internal/domain"
	"github.com/Gunvolt24/shop_checkout/internal/ports"
	"github.com/shopspring/decimal"
)

// Проверка, что OrderValidator удовлетворяет интерфейсу OrderValidator.
var _ ports.OrderValidator = (*OrderValidator)(nil)

// ErrInvalidOrder — базовая (sentinel error) ошибка валидации.
var ErrInvalidOrder = errors.New("order validation failed")

// Границы схемы хранения: количество — INTEGER, деньги — NUMERIC(12,2).
const (
	MaxQuantity = math.MaxInt32
	MoneyScale  = 2
)

// moneyLimit — наименьшая сумма, которая уже не помещается в NUMERIC(12,2).
var moneyLimit = decimal.New(1, 10)

// OrderValidator — структурная и смысловая проверка предложенного заказа.
// Чистая функция: без обращений к хранилищам.
type OrderValidator struct{}

// NewOrderValidator — конструктор OrderValidator.
// Возвращает ErrInvalidOrder (с обёрнутой причиной) при любой проблеме.
func NewOrderValidator() *OrderValidator { return &OrderValidator{} }

// Validate — проверки выполняются по порядку, до первой ошибки:
// строки заказа, количества, цены, итоговая сумма.
func (v *OrderValidator) Validate(_ context.Context, order *domain.OrderRequest) error {
	if order == nil {
		return fmt.Errorf("%w: заказ не может быть nil", ErrInvalidOrder)
	}
	if len(order.Lines) == 0 {
		return fmt.Errorf("%w: lines не должен быть пустым", ErrInvalidOrder)
	}
	for i := range order.Lines {
		if order.Lines[i].Quantity <= 0 {
			return fmt.Errorf("%w: lines[%d].quantity должен быть положительным", ErrInvalidOrder, i)
		}
		if order.Lines[i].Quantity > MaxQuantity {
			return fmt.Errorf("%w: lines[%d].quantity больше %d", ErrInvalidOrder, i, MaxQuantity)
		}
	}
	if err := checkDemand(order.Lines); err != nil {
		return err
	}
	for i := range order.Lines {
		if order.Lines[i].UnitPrice.IsNegative() {
			return fmt.Errorf("%w: lines[%d].unit_price должен быть неотрицательным", ErrInvalidOrder, i)
		}
		if err := checkMoney(order.Lines[i].UnitPrice); err != nil {
			return fmt.Errorf("%w: lines[%d].unit_price %v", ErrInvalidOrder, i, err)
		}
	}
	if order.Total.IsNegative() {
		return fmt.Errorf("%w: total должен быть неотрицательным", ErrInvalidOrder)
	}
	if err := checkMoney(order.Total); err != nil {
		return fmt.Errorf("%w: total %v", ErrInvalidOrder, err)
	}
	return nil
}

// checkDemand — суммарный спрос по одному товару (строки с одним product_id складываются)
// тоже не больше MaxQuantity.
func checkDemand(lines []domain.OrderLine) error {
	demand := make(map[string]int64, len(lines))
	for _, line := range lines {
		demand[line.ProductID] += int64(line.Quantity)
		if demand[line.ProductID] > MaxQuantity {
			return fmt.Errorf("%w: суммарное quantity товара %s больше %d", ErrInvalidOrder, line.ProductID, MaxQuantity)
		}
	}
	return nil
}

// checkMoney — не больше MoneyScale знаков после запятой и по модулю меньше moneyLimit.
func checkMoney(d decimal.Decimal) error {
	if !d.Equal(d.Truncate(MoneyScale)) {
		return fmt.Errorf("больше %d знаков после запятой", MoneyScale)
	}
	if d.Abs().GreaterThanOrEqual(moneyLimit) {
		return fmt.Errorf("не меньше %s", moneyLimit)
	}
	return nil
}
