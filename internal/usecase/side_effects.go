package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/Gunvolt24/shop_checkout/internal/domain"
	"github.com/Gunvolt24/shop_checkout/internal/ports"
	"github.com/Gunvolt24/shop_checkout/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

// DefaultNotifyTimeout — таймаут одного уведомления, если не задан в конфиге.
const DefaultNotifyTimeout = 2 * time.Second

// SideEffectDispatcher — best-effort уведомления после оформленного заказа:
// биллинг, зеркало остатков, регистрация покупки для отзывов.
type SideEffectDispatcher struct {
	billing ports.BillingService
	stock   ports.StockMirrorService
	review  ports.ReviewService
	log     ports.Logger
	timeout time.Duration
}

// NewSideEffectDispatcher — DI-конструктор. timeout <= 0 — DefaultNotifyTimeout.
func NewSideEffectDispatcher(
	billing ports.BillingService,
	stock ports.StockMirrorService,
	review ports.ReviewService,
	log ports.Logger,
	timeout time.Duration,
) *SideEffectDispatcher {
	if timeout <= 0 {
		timeout = DefaultNotifyTimeout
	}
	return &SideEffectDispatcher{
		billing: billing,
		stock:   stock,
		review:  review,
		log:     log,
		timeout: timeout,
	}
}

// Dispatch — запускает три уведомления параллельно и ждёт все.
// Отмена входящего запроса на них не влияет; у каждого свой таймаут.
// Ошибки (и паники) только логируются и считаются в метриках, наружу не возвращаются, повторов нет.
func (d *SideEffectDispatcher) Dispatch(ctx context.Context, order *domain.PersistedOrder, reductions []domain.StockRequest) {
	base := context.WithoutCancel(ctx)

	productIDs := make([]string, 0, len(reductions))
	for _, r := range reductions {
		productIDs = append(productIDs, r.ProductID)
	}

	var g errgroup.Group
	g.Go(d.notify(base, "billing", order.ID, func(ctx context.Context) error {
		return d.billing.RecordOrder(ctx, order)
	}))
	g.Go(d.notify(base, "stock_mirror", order.ID, func(ctx context.Context) error {
		return d.stock.ReportReductions(ctx, order.ID, reductions)
	}))
	g.Go(d.notify(base, "review", order.ID, func(ctx context.Context) error {
		return d.review.RegisterPurchase(ctx, order.CustomerID, order.ID, productIDs)
	}))

	if err := g.Wait(); err != nil {
		d.log.Warnf(ctx, "side effects finished with failures order_id=%s first=%v", order.ID, err)
	}
}

// notify — оборачивает вызов одного сервиса: таймаут, recover, лог и метрика.
func (d *SideEffectDispatcher) notify(
	base context.Context,
	service, orderID string,
	call func(ctx context.Context) error,
) func() error {
	return func() (err error) {
		ctx, cancel := context.WithTimeout(base, d.timeout)
		defer cancel()

		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%s: panic: %v", service, r)
			}
			if err != nil {
				metrics.SideEffectFailures.WithLabelValues(service).Inc()
				d.log.Warnf(ctx, "side effect failed service=%s order_id=%s err=%v", service, orderID, err)
			}
		}()

		if callErr := call(ctx); callErr != nil {
			return fmt.Errorf("%s: %w", service, callErr)
		}
		return nil
	}
}
