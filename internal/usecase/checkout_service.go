package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Gunvolt24/shop_checkout/internal/domain"
	"github.com/Gunvolt24/shop_checkout/internal/ports"
	"github.com/Gunvolt24/shop_checkout/pkg/metrics"
	"github.com/Gunvolt24/shop_checkout/pkg/validate"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Проверка, что CheckoutService удовлетворяет порту транспорта.
var _ ports.CheckoutService = (*CheckoutService)(nil)

// queueCaller — от чьего имени обрабатываются заявки из очереди.
var queueCaller = domain.Caller{Identity: "checkout-queue", Role: domain.RoleStaff}

// CheckoutDeps — зависимости CheckoutService.
type CheckoutDeps struct {
	Validator   ports.OrderValidator
	Customers   ports.CustomerStore
	Products    ports.ProductStore
	Orders      ports.OrderStore
	Cache       ports.OrderCache
	Billing     ports.BillingService
	StockMirror ports.StockMirrorService
	Review      ports.ReviewService
	Log         ports.Logger
}

// CheckoutOptions — параметры оформления; нулевые значения заменяются умолчаниями.
type CheckoutOptions struct {
	OrderDateWindow time.Duration
	NotifyTimeout   time.Duration
	Now             func() time.Time // источник времени (подменяется в тестах)
}

// CheckoutService — оформление заказа и чтение оформленных заказов (без знаний о транспорте).
type CheckoutService struct {
	validator ports.OrderValidator
	guard     *CustomerGuard
	inventory *InventoryChecker
	orders    ports.OrderStore
	cache     ports.OrderCache
	effects   *SideEffectDispatcher
	log       ports.Logger
	tracer    trace.Tracer

	dateWindow time.Duration
	now        func() time.Time
	steps      []checkoutStep
}

// checkout — состояние одного оформления, которое шаги заполняют по очереди.
type checkout struct {
	req    *domain.OrderRequest
	caller domain.Caller
	demand []domain.StockRequest
	order  *domain.PersistedOrder
}

// checkoutStep — именованный шаг. Ошибка терминального шага завершает оформление,
// ошибка нетерминального — только логируется.
type checkoutStep struct {
	stage    Stage
	terminal bool
	run      func(ctx context.Context, c *checkout) error
}

// NewCheckoutService — DI-конструктор.
func NewCheckoutService(deps CheckoutDeps, opts CheckoutOptions) *CheckoutService {
	if opts.OrderDateWindow <= 0 {
		opts.OrderDateWindow = DefaultOrderDateWindow
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &CheckoutService{
		validator:  deps.Validator,
		guard:      NewCustomerGuard(deps.Customers),
		inventory:  NewInventoryChecker(deps.Products),
		orders:     deps.Orders,
		cache:      deps.Cache,
		effects:    NewSideEffectDispatcher(deps.Billing, deps.StockMirror, deps.Review, deps.Log, opts.NotifyTimeout),
		log:        deps.Log,
		tracer:     otel.Tracer("github.com/Gunvolt24/shop_checkout/internal/usecase"),
		dateWindow: opts.OrderDateWindow,
		now:        opts.Now,
	}
	s.steps = []checkoutStep{
		{stage: StageValidating, terminal: true, run: s.validate},
		{stage: StageAuthorizingCustomer, terminal: true, run: s.authorize},
		{stage: StageCheckingInventory, terminal: true, run: s.checkInventory},
		{stage: StagePersisting, terminal: true, run: s.persist},
		{stage: StageClearingBasket, run: s.clearBasket},
		{stage: StageDispatchingSideEffects, run: s.dispatch},
	}
	return s
}

// CreateOrder — конвейер оформления:
// Validating → AuthorizingCustomer → CheckingInventory → Persisting → ClearingBasket → DispatchingSideEffects → Done.
// Возвращает ровно один итог; паника шага не выходит наружу.
func (s *CheckoutService) CreateOrder(ctx context.Context, req *domain.OrderRequest, caller domain.Caller) (res ports.CheckoutResult) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "checkout.CreateOrder")
	defer func() {
		span.SetAttributes(attribute.String("checkout.outcome", res.Outcome.String()))
		span.End()
		metrics.CheckoutOutcomes.WithLabelValues(res.Outcome.String()).Inc()
		metrics.CheckoutDuration.WithLabelValues(res.Outcome.String()).Observe(time.Since(start).Seconds())
	}()

	c := &checkout{req: req, caller: caller}
	for _, step := range s.steps {
		err := s.runStep(ctx, step, c)
		if err == nil {
			continue
		}
		if step.terminal {
			outcome := outcomeOf(err)
			if outcome == domain.OutcomePersistenceFailure {
				s.log.Errorf(ctx, "checkout failed stage=%s customer_id=%s err=%v", step.stage, customerID(req), err)
			} else {
				s.log.Warnf(ctx, "checkout rejected stage=%s outcome=%s customer_id=%s err=%v", step.stage, outcome, customerID(req), err)
			}
			return ports.CheckoutResult{Outcome: outcome, Reason: err.Error(), Retryable: retryable(outcome, err)}
		}
		s.log.Warnf(ctx, "checkout stage=%s failed after commit order_id=%s err=%v", step.stage, c.order.ID, err)
	}

	s.log.Infof(ctx, "order created id=%s customer_id=%s lines=%d total=%s",
		c.order.ID, c.order.CustomerID, len(c.order.Lines), c.order.Total)
	return ports.CheckoutResult{Outcome: domain.OutcomeCreated, OrderID: c.order.ID}
}

// runStep — выполнить шаг в собственном span; паника превращается в ошибку.
func (s *CheckoutService) runStep(ctx context.Context, step checkoutStep, c *checkout) (err error) {
	ctx, span := s.tracer.Start(ctx, "checkout."+step.stage.String())
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("stage %s: %w: %v", step.stage, errStagePanic, r)
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	return step.run(ctx, c)
}

func (s *CheckoutService) validate(ctx context.Context, c *checkout) error {
	return s.validator.Validate(ctx, c.req)
}

func (s *CheckoutService) authorize(ctx context.Context, c *checkout) error {
	_, err := s.guard.Authorize(ctx, c.req.CustomerID, c.caller)
	return err
}

func (s *CheckoutService) checkInventory(ctx context.Context, c *checkout) error {
	c.demand = domain.StockRequests(c.req.Lines)
	return s.inventory.Check(ctx, c.demand)
}

// persist — нормализует дату и атомарно сохраняет заказ со списанием остатков.
func (s *CheckoutService) persist(ctx context.Context, c *checkout) error {
	now := s.now()
	order := &domain.PersistedOrder{
		CustomerID: c.req.CustomerID,
		OrderDate:  NormalizeOrderDate(c.req.OrderDate, now, s.dateWindow),
		Total:      c.req.Total,
		Lines:      append([]domain.OrderLine(nil), c.req.Lines...),
		CreatedAt:  now,
	}
	id, err := s.orders.CreateOrder(ctx, order)
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	order.ID = id
	c.order = order
	return nil
}

// clearBasket — заказ уже сохранён, поэтому ни кэш, ни ошибка очистки не меняют итог.
func (s *CheckoutService) clearBasket(ctx context.Context, c *checkout) error {
	s.cacheCreated(ctx, c.order)
	if err := s.orders.ClearBasket(ctx, c.order.CustomerID); err != nil {
		metrics.SideEffectFailures.WithLabelValues("basket").Inc()
		return fmt.Errorf("clear basket: %w", err)
	}
	return nil
}

// cacheCreated — положить свежий заказ в кэш; отказ или паника кэша только логируются.
func (s *CheckoutService) cacheCreated(ctx context.Context, order *domain.PersistedOrder) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Errorf(ctx, "cache.Set panic order_id=%s: %v", order.ID, r)
		}
	}()
	if err := s.cache.Set(ctx, order); err != nil {
		s.log.Warnf(ctx, "cache.Set failed order_id=%s err=%v", order.ID, err)
	}
}

func (s *CheckoutService) dispatch(ctx context.Context, c *checkout) error {
	s.effects.Dispatch(ctx, c.order, c.demand)
	return nil
}

// retryable — отказ хранилища, который может пройти при повторе.
// Данные, отвергнутые схемой, и паника шага повторяются с тем же итогом.
func retryable(outcome domain.Outcome, err error) bool {
	return outcome == domain.OutcomePersistenceFailure &&
		!errors.Is(err, ports.ErrUnstorable) &&
		!errors.Is(err, errStagePanic)
}

// outcomeOf — отображение ошибки терминального шага в итог.
// Всё, что не является отказом по правилам, считается отказом хранилища.
func outcomeOf(err error) domain.Outcome {
	switch {
	case errors.Is(err, validate.ErrInvalidOrder):
		return domain.OutcomeMalformedOrder
	case errors.Is(err, ErrCustomerNotFound):
		return domain.OutcomeCustomerNotFound
	case errors.Is(err, ErrAccessDenied):
		return domain.OutcomeAccessDenied
	case errors.Is(err, ErrProductNotFound):
		return domain.OutcomeProductNotFound
	case errors.Is(err, ErrInsufficientStock):
		return domain.OutcomeInsufficientStock
	default:
		return domain.OutcomePersistenceFailure
	}
}

func customerID(req *domain.OrderRequest) string {
	if req == nil {
		return ""
	}
	return req.CustomerID
}

// GetOrder — получить заказ по ID: сначала из кэша, при промахе — из БД с записью в кэш.
// Возвращает (order, nil) или (nil, nil), если записи нет.
func (s *CheckoutService) GetOrder(ctx context.Context, orderID string) (*domain.PersistedOrder, error) {
	if order, found := s.cache.Get(ctx, orderID); found {
		return order, nil
	}

	start := time.Now()
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		s.log.Errorf(ctx, "orders.GetByID failed order_id=%s err=%v", orderID, err)
		return nil, err
	}
	if order != nil {
		if setErr := s.cache.Set(ctx, order); setErr != nil {
			s.log.Warnf(ctx, "cache.Set failed order_id=%s err=%v", orderID, setErr)
		}
	}
	s.log.Infof(ctx, "db fetch order_id=%s took=%s", orderID, time.Since(start))
	return order, nil
}

// OrdersByCustomer — история заказов клиента (пагинация уже валидирована на верхнем уровне).
func (s *CheckoutService) OrdersByCustomer(ctx context.Context, customerID string, limit, offset int) ([]*domain.PersistedOrder, error) {
	return s.orders.ListByCustomer(ctx, customerID, limit, offset)
}

// WarmUpCache — прогрев кэша последними N заказами из БД.
// Если n <= 0, прогрев не выполняется (но это не ошибка).
func (s *CheckoutService) WarmUpCache(ctx context.Context, n int) error {
	if n <= 0 {
		s.log.Warnf(ctx, "cache warm-up skipped: n <= 0 (n=%d)", n)
		return nil
	}

	start := time.Now()
	list, err := s.orders.LastN(ctx, n)
	if err != nil {
		s.log.Errorf(ctx, "orders.LastN failed n=%d err=%v", n, err)
		return err
	}
	if warmUpErr := s.cache.WarmUp(ctx, list); warmUpErr != nil {
		s.log.Warnf(ctx, "cache.WarmUp failed err=%v", warmUpErr)
	}
	s.log.Infof(ctx, "cache warmed with %d orders in %s", len(list), time.Since(start))
	return nil
}

// SubmitFromMessage — оформить заказ из заявки, пришедшей через Kafka (raw JSON), с ролью staff.
// Отказы по правилам (битый JSON, валидация, клиент, права, каталог) — ErrCheckoutRejected;
// отказ хранилища — обычная ошибка (сообщение будет обработано повторно),
// кроме отказов, которые повтор не исправит.
func (s *CheckoutService) SubmitFromMessage(ctx context.Context, raw []byte) error {
	req, err := validate.DecodeOrderRequest(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCheckoutRejected, err)
	}

	res := s.CreateOrder(ctx, req, queueCaller)
	switch res.Outcome {
	case domain.OutcomeCreated:
		return nil
	case domain.OutcomePersistenceFailure:
		if !res.Retryable {
			return fmt.Errorf("%w: %s: %s", ErrCheckoutRejected, res.Outcome, res.Reason)
		}
		return fmt.Errorf("checkout %s: %s", res.Outcome, res.Reason)
	default:
		return fmt.Errorf("%w: %s: %s", ErrCheckoutRejected, res.Outcome, res.Reason)
	}
}
