package migrations_test

import (
	"io/fs"
	"strings"
	"testing"

	"tenders/db/migrations"

	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	files, err := fs.Glob(migrations.FS, "sql/*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	body, err := fs.ReadFile(migrations.FS, files[0])
	require.NoError(t, err)

	sql := string(body)
	require.Contains(t, sql, "-- +goose Up")
	require.Contains(t, sql, "-- +goose Down")
	// уникальность пары (bid, reviewer) держит инвариант "один отзыв на ревьюера"
	require.True(t, strings.Contains(sql, "UNIQUE (bid_id, reviewer_id)"))
	require.True(t, strings.Contains(sql, "UNIQUE (organization_id, user_id)"))
}
