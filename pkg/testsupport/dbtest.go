package testsupport

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// NewBunSQLiteDB opens a shared in-memory SQLite database wrapped in a bun.DB
// for repository tests. The connection pool is pinned to one connection so the
// shared cache survives for the duration of the test; the database closes with
// the test.
func NewBunSQLiteDB(tb testing.TB) *bun.DB {
	tb.Helper()

	sqlDB, err := sql.Open("sqlite3", "file::memory:?cache=shared")
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}

	db := bun.NewDB(sqlDB, sqlitedialect.New())
	db.SetMaxOpenConns(1)
	tb.Cleanup(func() {
		_ = db.Close()
	})
	return db
}
