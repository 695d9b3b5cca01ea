// Package testutil provides shared helpers for package tests: a migrated
// throwaway database and Echo request plumbing.
package testutil

import (
    "context"
    "database/sql"
    "net/http/httptest"
    "path/filepath"
    "strings"
    "testing"

    "github.com/labstack/echo/v4"
    _ "modernc.org/sqlite" // pure-Go driver so tests need no running MySQL

    "github.com/iliyamo/event-day-signup/internal/database"
)

// OpenDB opens a file-backed SQLite database in the test's temp directory
// and applies the schema.  A file (not :memory:) keeps the database shared
// across the pool's connections, which the concurrency tests rely on; the
// busy timeout makes concurrent writers queue instead of failing.
func OpenDB(t *testing.T) *sql.DB {
    t.Helper()
    path := filepath.Join(t.TempDir(), "test.db")
    dsn := "file:" + path + "?_pragma=busy_timeout(10000)&_pragma=foreign_keys(1)"
    db, err := sql.Open("sqlite", dsn)
    if err != nil {
        t.Fatalf("open sqlite: %v", err)
    }
    t.Cleanup(func() { _ = db.Close() })

    if err := database.Migrate(context.Background(), db, database.DialectSQLite); err != nil {
        t.Fatalf("migrate: %v", err)
    }
    return db
}

// NewRequest builds an Echo context around an httptest recorder.  The body
// string, when non-empty, is sent as JSON.
func NewRequest(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
    t.Helper()
    var reader *strings.Reader
    if body != "" {
        reader = strings.NewReader(body)
    } else {
        reader = strings.NewReader("")
    }
    req := httptest.NewRequest(method, target, reader)
    if body != "" {
        req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    }
    rec := httptest.NewRecorder()
    c := echo.New().NewContext(req, rec)
    return c, rec
}
