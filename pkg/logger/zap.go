package logger

import (
	"context"

	"github.com/Gunvolt24/shop_checkout/pkg/ctxmeta"
	"go.uber.org/zap"
)

// ZapLogger — реализация ports.Logger поверх zap.
// Метаданные запроса из контекста (request_id, caller_id, trace_id, span_id) добавляются полями.
type ZapLogger struct {
	base   *zap.Logger
	sugar  *zap.SugaredLogger
	isProd bool
}

func NewZapLogger(isProd bool) (*ZapLogger, func() error, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if isProd {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, nil, err
	}

	l := FromZap(logger.Named("checkout"))
	l.isProd = isProd
	return l, func() error { return l.base.Sync() }, nil
}

// FromZap — обёртка над готовым *zap.Logger (например, zaptest/observer в тестах).
func FromZap(base *zap.Logger) *ZapLogger {
	return &ZapLogger{base: base, sugar: base.Sugar()}
}

func (z *ZapLogger) Infof(ctx context.Context, format string, args ...any) {
	z.with(ctx).Infof(format, args...)
}
func (z *ZapLogger) Warnf(ctx context.Context, format string, args ...any) {
	z.with(ctx).Warnf(format, args...)
}
func (z *ZapLogger) Errorf(ctx context.Context, format string, args ...any) {
	z.with(ctx).Errorf(format, args...)
}

func (z *ZapLogger) with(ctx context.Context) *zap.SugaredLogger {
	fields := ctxmeta.Fields(ctx)
	if len(fields) == 0 {
		return z.sugar
	}
	return z.sugar.With(fields...)
}

func (z *ZapLogger) Base() *zap.Logger           { return z.base }
func (z *ZapLogger) Sugared() *zap.SugaredLogger { return z.sugar }
