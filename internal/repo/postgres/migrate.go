package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Gunvolt24/shop_checkout/migrations"
	_ "github.com/jackc/pgx/v5/stdlib" // драйвер database/sql "pgx" для goose
	"github.com/pressly/goose/v3"
)

// Migrate — применяет встроенные миграции до последней версии.
// Возвращает число применённых миграций (0 — схема уже актуальна).
func Migrate(ctx context.Context, dsn string) (int, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return 0, fmt.Errorf("open db for migrations: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		_ = db.Close()
		return 0, fmt.Errorf("goose provider: %w", err)
	}
	defer provider.Close()

	results, err := provider.Up(ctx)
	if err != nil {
		return len(results), fmt.Errorf("goose up: %w", err)
	}
	return len(results), nil
}
