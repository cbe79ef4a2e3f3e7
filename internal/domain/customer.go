package domain

import "strings"

// Address — адрес клиента. Line1, AreaCode, Country и Telephone обязательны.
type Address struct {
	Line1     string `json:"line1"`
	Line2     string `json:"line2,omitempty"`
	Town      string `json:"town,omitempty"`
	State     string `json:"state,omitempty"`
	AreaCode  string `json:"area_code"`
	Country   string `json:"country"`
	Telephone string `json:"telephone"`
}

// Complete — все обязательные поля заданы и не пустые после trim.
func (a Address) Complete() bool {
	for _, v := range []string{a.Line1, a.AreaCode, a.Country, a.Telephone} {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}

// Customer — покупатель. Принадлежит другой подсистеме, здесь только читается.
type Customer struct {
	ID          string  `json:"id"`
	Identity    string  `json:"identity"` // идентичность, которой разрешено действовать от имени клиента
	Active      bool    `json:"active"`
	CanPurchase bool    `json:"can_purchase"`
	Address     Address `json:"address"`
}

// Product — товар каталога с текущим остатком.
type Product struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}
