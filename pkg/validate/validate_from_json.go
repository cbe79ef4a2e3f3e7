package validate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Gunvolt24/shop_checkout/internal/domain"
	"github.com/Gunvolt24/shop_checkout/internal/ports"
)

// DecodeOrderRequest — строгое декодирование заявки на заказ:
// неизвестные поля и данные после объекта считаются ошибкой.
func DecodeOrderRequest(raw []byte) (*domain.OrderRequest, error) {
	var order domain.OrderRequest
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&order); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	// гарантируем отсутствие полей вне структуры
	if err := dec.Decode(new(struct{})); err != io.EOF {
		return nil, fmt.Errorf("invalid json: trailing data")
	}
	return &order, nil
}

// ValidateOrderFromJSON — валидация заявки на заказ из JSON.
func ValidateOrderFromJSON(ctx context.Context, validator ports.OrderValidator, raw []byte) (*domain.OrderRequest, error) {
	order, err := DecodeOrderRequest(raw)
	if err != nil {
		return nil, err
	}
	if err := validator.Validate(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}
