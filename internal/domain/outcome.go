package domain

// Outcome — итог оформления заказа. Ровно одно значение на запрос.
type Outcome int

const (
	OutcomeCreated Outcome = iota
	OutcomeMalformedOrder
	OutcomeCustomerNotFound
	OutcomeAccessDenied
	OutcomeProductNotFound
	OutcomeInsufficientStock
	OutcomePersistenceFailure
)

var outcomeNames = [...]string{
	OutcomeCreated:            "created",
	OutcomeMalformedOrder:     "malformed_order",
	OutcomeCustomerNotFound:   "customer_not_found",
	OutcomeAccessDenied:       "access_denied",
	OutcomeProductNotFound:    "product_not_found",
	OutcomeInsufficientStock:  "insufficient_stock",
	OutcomePersistenceFailure: "persistence_failure",
}

// String — машинное имя итога (используется в метриках и в ответах API).
func (o Outcome) String() string {
	if o < 0 || int(o) >= len(outcomeNames) {
		return "unknown"
	}
	return outcomeNames[o]
}

// Failed — итог означает отказ (любой, кроме Created).
func (o Outcome) Failed() bool { return o != OutcomeCreated }
