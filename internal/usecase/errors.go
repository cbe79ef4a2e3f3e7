package usecase

import "errors"

// Терминальные отказы шагов оформления. Каждому соответствует ровно один domain.Outcome.
var (
	ErrCustomerNotFound  = errors.New("customer not found")
	ErrAccessDenied      = errors.New("access denied")
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// ErrCheckoutRejected — заявка из очереди отклонена окончательно (повторная обработка не поможет).
var ErrCheckoutRejected = errors.New("checkout rejected")

// errStagePanic — шаг завершился паникой (перехвачена в runStep).
var errStagePanic = errors.New("panic")
