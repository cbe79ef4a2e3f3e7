//go:build integration

package testutil

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// UniqueTopicAndGroup — уникальные топик и группа с общим префиксом base.
func UniqueTopicAndGroup(base string) (topic, group string) {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	topic = base + "-" + suffix
	return topic, topic + "-g"
}

// EnsureTopic — создаёт однопартиционный топик (существующий — не ошибка)
// и ждёт, пока он появится в метаданных брокера.
// broker: "host:port", "PLAINTEXT://host:port" или список через запятую (берётся первый).
func EnsureTopic(ctx context.Context, broker, topic string) error {
	client := &kafka.Client{Addr: kafka.TCP(bootstrapAddr(broker)), Timeout: 10 * time.Second}

	resp, err := client.CreateTopics(ctx, &kafka.CreateTopicsRequest{
		Topics: []kafka.TopicConfig{{Topic: topic, NumPartitions: 1, ReplicationFactor: 1}},
	})
	if err != nil {
		return fmt.Errorf("create topic %q: %w", topic, err)
	}
	if tErr := resp.Errors[topic]; tErr != nil && !errors.Is(tErr, kafka.TopicAlreadyExists) {
		return fmt.Errorf("create topic %q: %w", topic, tErr)
	}

	return waitTopicReady(ctx, client, topic)
}

func bootstrapAddr(raw string) string {
	first := strings.TrimSpace(strings.Split(raw, ",")[0])
	if u, err := url.Parse(first); err == nil && u.Host != "" && strings.Contains(first, "://") {
		return u.Host
	}
	return first
}

func waitTopicReady(ctx context.Context, client *kafka.Client, topic string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var last error
	for {
		meta, err := client.Metadata(ctx, &kafka.MetadataRequest{Topics: []string{topic}})
		switch {
		case err != nil:
			last = err
		case len(meta.Topics) == 1 && meta.Topics[0].Error == nil && len(meta.Topics[0].Partitions) > 0:
			return nil
		case len(meta.Topics) == 1:
			last = meta.Topics[0].Error
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("topic %q not ready: %w", topic, errors.Join(ctx.Err(), last))
		case <-time.After(200 * time.Millisecond):
		}
	}
}
