package kafka

import (
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// ConsumerConfig — параметры потребителя заявок на оформление.
type ConsumerConfig struct {
	Brokers     []string
	Topic       string
	GroupID     string
	StartOffset string // first|last (регистр и пробелы не важны), по умолчанию last

	ProcessTimeout time.Duration // таймаут обработки одного сообщения
	RetryInitial   time.Duration // начальная пауза после ошибки FetchMessage
	RetryMax       time.Duration // потолок экспоненциальной паузы
}

// ReaderConfig — конфигурация kafka.Reader с ручным коммитом оффсетов.
func (c *ConsumerConfig) ReaderConfig() kafka.ReaderConfig {
	rc := kafka.ReaderConfig{
		Brokers:        c.Brokers,
		GroupID:        c.GroupID,
		Topic:          c.Topic,
		CommitInterval: 0,
	}

	if strings.EqualFold(strings.TrimSpace(c.StartOffset), "first") {
		rc.StartOffset = kafka.FirstOffset
	} else {
		rc.StartOffset = kafka.LastOffset
	}
	return rc
}
