// Package dbtest opens throwaway SQLite databases carrying the real schema.
package dbtest

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"

	"github.com/storebilling/storebilling-backend/pkg/config"
	"github.com/storebilling/storebilling-backend/pkg/db"
	"github.com/storebilling/storebilling-backend/pkg/migrate"
)

// New returns a migrated in-memory database private to the test.
func New(t testing.TB) *db.Client {
	t.Helper()

	goose.SetLogger(goose.NopLogger())

	client, err := db.New(context.Background(), config.DBConfig{
		Driver: config.DBDriverSQLite,
		DSN:    "file:test_" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=on",
	}, nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	if err := migrate.Up(context.Background(), client); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return client
}
