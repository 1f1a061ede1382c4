package testhelpers

import (
	"context"
	"database/sql"
	"net/http/httptest"
	"testing"

	"github.com/johnwards/solarsail/internal/database"
	"github.com/johnwards/solarsail/internal/sandbox"
	"github.com/johnwards/solarsail/internal/store"
)

// Keys and portal ids served by NewSandbox.
const (
	SourceKey         = "source-key"
	DestinationKey    = "destination-key"
	SourcePortal      = int64(101)
	DestinationPortal = int64(202)
)

// NewTestDB returns an in-memory SQLite database configured the same way as
// production. The database is automatically closed when the test completes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

// NewStore returns a migrated Store over a fresh in-memory database.
func NewStore(t *testing.T) *store.Store {
	t.Helper()

	db := NewTestDB(t)
	if err := database.Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return store.New(db)
}

// NewSandbox starts a sandbox serving SourcePortal and DestinationPortal
// under SourceKey and DestinationKey. Nothing is seeded. The server is closed
// when the test completes.
func NewSandbox(t *testing.T) (*httptest.Server, *store.Store) {
	t.Helper()

	s := NewStore(t)
	srv := httptest.NewServer(sandbox.Handler(s, map[string]int64{
		SourceKey:      SourcePortal,
		DestinationKey: DestinationPortal,
	}, 0))
	t.Cleanup(srv.Close)

	return srv, s
}
