package kafka

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/Gunvolt24/shop_checkout/internal/ports"
	"github.com/Gunvolt24/shop_checkout/pkg/metrics"
	"github.com/segmentio/kafka-go"
)

var _ ports.MessageConsumer = (*Consumer)(nil)

const (
	defaultProcessTimeout = 5 * time.Second
	defaultRetryInitial   = time.Second
	defaultRetryMax       = 30 * time.Second
)

// reader — то, что консьюмеру нужно от kafka.Reader.
type reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Config() kafka.ReaderConfig
	Close() error
}

// checkoutSubmitter — оформление заказа по сырому телу сообщения.
type checkoutSubmitter interface {
	SubmitFromMessage(ctx context.Context, raw []byte) error
}

// Consumer — читает заявки на оформление из топика и передаёт их в checkoutSubmitter.
//
// Сообщение коммитится, когда заказ оформлен или заявка окончательно отклонена.
// При отказе хранилища то же сообщение повторяется с паузой, пока не пройдёт
// или не отменится контекст: следующий коммит в партиции сдвинул бы оффсет
// за необработанную заявку.
type Consumer struct {
	reader         reader
	service        checkoutSubmitter
	log            ports.Logger
	processTimeout time.Duration
	retryInitial   time.Duration
	retryMax       time.Duration
	rnd            *rand.Rand
	closeOnce      sync.Once
}

// NewConsumer — консьюмер с ручным коммитом оффсетов; нулевые интервалы заменяются умолчаниями.
func NewConsumer(cfg *ConsumerConfig, service checkoutSubmitter, log ports.Logger) *Consumer {
	return newConsumer(kafka.NewReader(cfg.ReaderConfig()), service, log, cfg,
		rand.New(rand.NewSource(time.Now().UnixNano())))
}

func newConsumer(r reader, service checkoutSubmitter, log ports.Logger, cfg *ConsumerConfig, rnd *rand.Rand) *Consumer {
	return &Consumer{
		reader:         r,
		service:        service,
		log:            log,
		processTimeout: orDefault(cfg.ProcessTimeout, defaultProcessTimeout),
		retryInitial:   orDefault(cfg.RetryInitial, defaultRetryInitial),
		retryMax:       orDefault(cfg.RetryMax, defaultRetryMax),
		rnd:            rnd,
	}
}

// Run — цикл чтения до отмены контекста; возвращает ctx.Err().
func (c *Consumer) Run(ctx context.Context) error {
	rc := c.reader.Config()
	c.log.Infof(ctx, "kafka consumer started topic=%s group_id=%s brokers=%v", rc.Topic, rc.GroupID, rc.Brokers)

	fetchBackoff := newBackoff(c.retryInitial, c.retryMax, c.rnd)
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			d := fetchBackoff.Next()
			c.log.Warnf(ctx, "fetch failed: %v (retry in %s)", err, d)
			if !sleepCtx(ctx, d) {
				return ctx.Err()
			}
			continue
		}
		fetchBackoff.Reset()
		metrics.KafkaMessagesConsumed.WithLabelValues(rc.Topic).Inc()

		if !c.process(ctx, rc.Topic, &msg) {
			return ctx.Err()
		}
	}
}

// Close — закрывает reader; повторные вызовы ничего не делают.
func (c *Consumer) Close() (retErr error) {
	c.closeOnce.Do(func() {
		retErr = c.reader.Close()
	})
	return retErr
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
