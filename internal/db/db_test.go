package db

import (
	"os"
	"testing"
)

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/test.db"

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	// Verify schema tables exist
	for _, tbl := range []string{"users", "events"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, tbl).Scan(&name)
		if err != nil {
			t.Errorf("table %q not found: %v", tbl, err)
		}
	}

	// Running Open again on the same file should be idempotent (migrations are IF NOT EXISTS)
	db2, err := Open(path)
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}
	db2.Close()

	os.Remove(path)
}

func TestOpenInMemory(t *testing.T) {
	d, err := Open("file:testopen_inmem?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("Open memory: %v", err)
	}
	defer d.Close()
	if d == nil {
		t.Fatal("expected non-nil db")
	}
}
