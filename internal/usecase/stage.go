package usecase

// Stage — шаг конвейера оформления заказа.
type Stage int

const (
	StageValidating Stage = iota
	StageAuthorizingCustomer
	StageCheckingInventory
	StagePersisting
	StageClearingBasket
	StageDispatchingSideEffects
	StageDone
)

var stageNames = [...]string{
	StageValidating:             "validating",
	StageAuthorizingCustomer:    "authorizing_customer",
	StageCheckingInventory:      "checking_inventory",
	StagePersisting:             "persisting",
	StageClearingBasket:         "clearing_basket",
	StageDispatchingSideEffects: "dispatching_side_effects",
	StageDone:                   "done",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}
	return stageNames[s]
}
