package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log"

	"github.com/pressly/goose/v3"
)

// Миграции вшиты в бинарник, путь к папке на диске не нужен.
//
//go:embed sql/*.sql
var FS embed.FS

const dir = "sql"

// Run применяет все миграции схемы.
func Run(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	log.Printf("Running migrations from embedded %s/", dir)
	if err := goose.UpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
