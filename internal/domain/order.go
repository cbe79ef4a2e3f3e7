package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLine — строка заказа: товар, цена за единицу и количество.
type OrderLine struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// OrderRequest — предложенный клиентом заказ (живёт в рамках одного запроса).
type OrderRequest struct {
	CustomerID string          `json:"customer_id"`
	OrderDate  time.Time       `json:"order_date"`
	Total      decimal.Decimal `json:"total"`
	Lines      []OrderLine     `json:"lines"`
}

// PersistedOrder — сохранённый заказ. После создания не изменяется.
type PersistedOrder struct {
	ID         string          `json:"id"`
	CustomerID string          `json:"customer_id"`
	OrderDate  time.Time       `json:"order_date"`
	Total      decimal.Decimal `json:"total"`
	Lines      []OrderLine     `json:"lines"`
	CreatedAt  time.Time       `json:"created_at"`
}

// StockRequest — суммарный спрос на один товар в рамках заказа.
type StockRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// StockRequests — сворачивает строки заказа в уникальные пары {товар, количество}.
// Строки с одинаковым товаром суммируются; порядок — по первому вхождению.
func StockRequests(lines []OrderLine) []StockRequest {
	out := make([]StockRequest, 0, len(lines))
	idx := make(map[string]int, len(lines))
	for _, line := range lines {
		if i, ok := idx[line.ProductID]; ok {
			out[i].Quantity += line.Quantity
			continue
		}
		idx[line.ProductID] = len(out)
		out = append(out, StockRequest{ProductID: line.ProductID, Quantity: line.Quantity})
	}
	return out
}
