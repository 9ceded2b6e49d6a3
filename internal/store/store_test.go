package store

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/kmuriuki/matchday/internal/db"
	"github.com/kmuriuki/matchday/internal/queue"
)

var testDBCounter uint64

// newTestStores creates an EventStore and UserStore backed by a unique
// in-memory SQLite database and a fresh write queue.
func newTestStores(t *testing.T) (*EventStore, *UserStore) {
	t.Helper()
	// Each test gets its own named shared-cache memory DB so connections
	// in the pool all see the same tables without interfering across tests.
	id := atomic.AddUint64(&testDBCounter, 1)
	dsn := fmt.Sprintf("file:storetest%d?mode=memory&cache=shared", id)
	testDB, err := db.Open(dsn)
	if err != nil {
		t.Fatalf("newTestStores: open db: %v", err)
	}
	t.Cleanup(func() { testDB.Close() })

	q := queue.New(slog.Default())
	return NewEventStore(testDB, q, nil), NewUserStore(testDB, q, nil)
}
