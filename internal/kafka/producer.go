package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/Gunvolt24/shop_checkout/pkg/metrics"
	"github.com/segmentio/kafka-go"
)

// ProducerConfig — параметры издателя событий в один топик.
type ProducerConfig struct {
	Brokers      []string
	Topic        string
	WriteTimeout time.Duration
}

// writer — минимальный контракт над kafka.Writer (подменяется моками в тестах).
type writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer — синхронный издатель: WriteMessages возвращается после подтверждения брокером.
type Producer struct {
	writer writer
	topic  string
}

// NewProducer — kafka.Writer с балансировкой по ключу (события одного заказа — в одну партицию).
func NewProducer(cfg *ProducerConfig) *Producer {
	wt := cfg.WriteTimeout
	if wt <= 0 {
		wt = 5 * time.Second
	}
	return &Producer{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(cfg.Brokers...),
			Topic:                  cfg.Topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			WriteTimeout:           wt,
			AllowAutoTopicCreation: true,
		},
		topic: cfg.Topic,
	}
}

// Publish — одно сообщение с ключом и заголовками.
func (p *Producer) Publish(ctx context.Context, key string, value []byte, headers map[string]string) error {
	msg := kafka.Message{Key: []byte(key), Value: value}
	for k, v := range headers {
		msg.Headers = append(msg.Headers, kafka.Header{Key: k, Value: []byte(v)})
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish to %s: %w", p.topic, err)
	}
	metrics.KafkaMessagesPublished.WithLabelValues(p.topic).Inc()
	return nil
}

// Topic — топик издателя.
func (p *Producer) Topic() string { return p.topic }

// Close — сбрасывает буферы и закрывает соединения.
func (p *Producer) Close() error { return p.writer.Close() }
