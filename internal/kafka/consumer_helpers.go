package kafka

import (
	"context"
	"errors"
	"fmt"

	"github.com/Gunvolt24/shop_checkout/internal/usecase"
	"github.com/Gunvolt24/shop_checkout/pkg/ctxmeta"
	"github.com/Gunvolt24/shop_checkout/pkg/metrics"
	"github.com/segmentio/kafka-go"
)

// verdict — что делать с оффсетом после попытки.
type verdict int

const (
	verdictCommit verdict = iota
	verdictRetry
)

// process — доводит сообщение до коммита; false, если контекст отменён раньше.
func (c *Consumer) process(ctx context.Context, topic string, msg *kafka.Message) bool {
	ctx = ctxmeta.WithRequestID(ctx, fmt.Sprintf("%s/%d/%d", topic, msg.Partition, msg.Offset))

	retry := newBackoff(c.retryInitial, c.retryMax, c.rnd)
	for attempt := 1; ; attempt++ {
		if c.attempt(ctx, topic, msg, attempt) == verdictCommit {
			c.commit(ctx, msg)
			return true
		}
		if !sleepCtx(ctx, retry.Next()) {
			c.log.Warnf(ctx, "stopped before offset=%d was processed, left uncommitted", msg.Offset)
			return false
		}
	}
}

// attempt — одна попытка оформления с таймаутом processTimeout.
func (c *Consumer) attempt(ctx context.Context, topic string, msg *kafka.Message, n int) verdict {
	attemptCtx, cancel := context.WithTimeout(ctx, c.processTimeout)
	err := c.service.SubmitFromMessage(attemptCtx, msg.Value)
	cancel()

	switch {
	case err == nil:
		metrics.KafkaMessagesProcessed.WithLabelValues(topic).Inc()
		return verdictCommit
	case errors.Is(err, usecase.ErrCheckoutRejected):
		// повтор даст тот же итог
		metrics.KafkaMessagesFailed.WithLabelValues(topic).Inc()
		c.log.Warnf(ctx, "checkout rejected offset=%d key=%s: %v (skipped)", msg.Offset, msg.Key, err)
		return verdictCommit
	default:
		metrics.KafkaMessagesFailed.WithLabelValues(topic).Inc()
		c.log.Warnf(ctx, "process failed offset=%d attempt=%d: %v (retrying)", msg.Offset, n, err)
		return verdictRetry
	}
}

// commit — ошибка коммита только логируется: сообщение придёт снова после ребаланса.
func (c *Consumer) commit(ctx context.Context, msg *kafka.Message) {
	if err := c.reader.CommitMessages(ctx, *msg); err != nil {
		c.log.Warnf(ctx, "commit failed offset=%d: %v", msg.Offset, err)
	}
}
