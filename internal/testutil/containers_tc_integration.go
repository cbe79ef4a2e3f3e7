//go:build integration

package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/modules/redpanda"
	"github.com/testcontainers/testcontainers-go/wait"

	pgrepo "github.com/Gunvolt24/shop_checkout/internal/repo/postgres"
)

const (
	postgresImage = "postgres:16-alpine"
	redpandaImage = "docker.redpanda.com/redpandadata/redpanda:v23.3.8"
	redisImage    = "redis:7-alpine"

	startTimeout = 2 * time.Minute
)

// Все контейнеры ниже останавливаются в t.Cleanup; ошибки запуска валят тест.

// PGContainer — Postgres с применёнными миграциями и пулом на него.
type PGContainer struct {
	DSN  string
	Pool *pgxpool.Pool
}

// KafkaEnv — однонодовый Redpanda.
type KafkaEnv struct {
	Brokers   []string
	BaseTopic string
}

// RedisEnv — Redis без пароля.
type RedisEnv struct {
	Addr string
}

// Postgres — поднимает Postgres, накатывает миграции и открывает пул.
func Postgres(tb testing.TB) *PGContainer {
	tb.Helper()
	ctx := startContext(tb)

	pg, err := postgres.Run(ctx, postgresImage,
		postgres.WithDatabase("checkout"),
		postgres.WithUsername("app"),
		postgres.WithPassword("app"),
		postgres.BasicWaitStrategies(),
		tc.WithLifecycleHooks(lifecycleLog(tb, "postgres")),
	)
	tc.CleanupContainer(tb, pg)
	require.NoError(tb, err, "run postgres")

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(tb, err, "postgres dsn")

	_, err = pgrepo.Migrate(ctx, dsn)
	require.NoError(tb, err, "migrate")

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(tb, err, "postgres pool")
	tb.Cleanup(pool.Close)

	return &PGContainer{DSN: dsn, Pool: pool}
}

// Kafka — поднимает Redpanda; топики создаются через EnsureTopic.
func Kafka(tb testing.TB, baseTopic string) *KafkaEnv {
	tb.Helper()
	ctx := startContext(tb)

	rp, err := redpanda.Run(ctx, redpandaImage,
		redpanda.WithAutoCreateTopics(),
		tc.WithLifecycleHooks(lifecycleLog(tb, "redpanda")),
	)
	tc.CleanupContainer(tb, rp)
	require.NoError(tb, err, "run redpanda")

	seed, err := rp.KafkaSeedBroker(ctx)
	require.NoError(tb, err, "redpanda seed broker")

	return &KafkaEnv{Brokers: []string{seed}, BaseTopic: baseTopic}
}

// Redis — поднимает Redis.
func Redis(tb testing.TB) *RedisEnv {
	tb.Helper()
	ctx := startContext(tb)

	rc, err := tc.Run(ctx, redisImage,
		tc.WithExposedPorts("6379/tcp"),
		tc.WithWaitStrategy(wait.ForLog("Ready to accept connections")),
		tc.WithLifecycleHooks(lifecycleLog(tb, "redis")),
	)
	tc.CleanupContainer(tb, rc)
	require.NoError(tb, err, "run redis")

	addr, err := rc.Endpoint(ctx, "")
	require.NoError(tb, err, "redis endpoint")

	return &RedisEnv{Addr: addr}
}

func startContext(tb testing.TB) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), startTimeout)
	tb.Cleanup(cancel)
	return ctx
}

// lifecycleLog — короткие отметки о готовности и остановке контейнера в выводе теста.
func lifecycleLog(tb testing.TB, name string) tc.ContainerLifecycleHooks {
	return tc.ContainerLifecycleHooks{
		PostReadies: []tc.ContainerHook{
			func(_ context.Context, c tc.Container) error {
				tb.Logf("[tc] %s ready id=%.12s", name, c.GetContainerID())
				return nil
			},
		},
		PostTerminates: []tc.ContainerHook{
			func(_ context.Context, c tc.Container) error {
				tb.Logf("[tc] %s terminated id=%.12s", name, c.GetContainerID())
				return nil
			},
		},
	}
}
