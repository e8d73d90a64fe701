package sqlite_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/harshimysarla/LuxeAI/internal/db"
	"github.com/harshimysarla/LuxeAI/internal/lounge/store"
	sqlitestore "github.com/harshimysarla/LuxeAI/internal/lounge/store/sqlite"
)

// openTestDB returns an in-memory SQLite connection with the same PRAGMAs
// and schema as production. It is closed when the test finishes.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	// The shared-cache URI keeps the database alive for the lifetime of the
	// pool even if sql.DB recycles the underlying conn.
	dsn := fmt.Sprintf(
		"file:test_%s?mode=memory&cache=shared&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)",
		t.Name(),
	)

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("openTestDB: sql.Open: %v", err)
	}
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)

	if err := db.Migrate(context.Background(), conn); err != nil {
		conn.Close()
		t.Fatalf("openTestDB: migrate: %v", err)
	}

	t.Cleanup(func() { conn.Close() })
	return conn
}

func newTestWriter(t *testing.T, conn *sql.DB) *db.Worker {
	t.Helper()

	w := db.NewWorker(conn)
	t.Cleanup(func() { w.Close() })
	return w
}

func newTestStore(t *testing.T) (*sqlitestore.Store, *sql.DB) {
	t.Helper()
	conn := openTestDB(t)
	return sqlitestore.New(conn, newTestWriter(t, conn)), conn
}

func seedIdentity(t *testing.T, s *sqlitestore.Store, username string) store.IdentityRecord {
	t.Helper()
	rec, err := s.CreateIdentity(context.Background(), store.IdentityRecord{Username: username, Active: true})
	if err != nil {
		t.Fatalf("seedIdentity %q: %v", username, err)
	}
	return rec
}

func seedLounge(t *testing.T, s *sqlitestore.Store, name string, seats int) store.LoungeRecord {
	t.Helper()
	rec, err := s.CreateLounge(context.Background(), store.LoungeRecord{
		Name:       name,
		Airport:    "Test Airport",
		TotalSeats: seats,
	})
	if err != nil {
		t.Fatalf("seedLounge %q: %v", name, err)
	}
	return rec
}
