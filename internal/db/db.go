// Package db handles SQLite initialisation and schema migrations.
//
// The driver is modernc.org/sqlite — a pure-Go port of SQLite. No CGo,
// no C compiler on the build machine, cross-compiles cleanly. The only
// visible difference from the CGo binding: the driver name is "sqlite"
// rather than "sqlite3".
package db

import (
	"database/sql"
	"fmt"
	"strings"

	// Blank import: the modernc driver registers itself with
	// database/sql under the name "sqlite" when this package loads.
	_ "modernc.org/sqlite"
)

// Open opens (or creates) the SQLite database at dsn and runs all migrations.
//
// Recommended DSN formats for modernc.org/sqlite:
//   - Production file: "matchday.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
//   - Tests:           "file:testXYZ?mode=memory&cache=shared"
//
// URI pragma parameters apply to every connection database/sql opens
// from the pool, so each one starts with the same settings rather than
// SQLite defaults.
func Open(dsn string) (*sql.DB, error) {
	// sql.Open does not open a real connection yet — it validates the
	// driver name and stores the DSN. The first real connection is made
	// lazily on the first query.
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// migrate runs each DDL statement in the schema individually. The
// sqlite drivers execute only the first statement of a multi-statement
// Exec, so the schema is split on ";" and looped.
func migrate(db *sql.DB) error {
	stmts := strings.Split(schema, ";")
	for _, stmt := range stmts {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration statement failed: %w\nstatement: %s", err, stmt)
		}
	}
	return nil
}

// schema contains every CREATE TABLE statement for the application.
//
//	users   — one row per account. The UNIQUE constraint on username is
//	          the storage-level duplicate guard; callers pre-check with
//	          UsernameExists because the insert path does not surface
//	          the violation distinctly.
//
//	events  — one row per event. hostedBy and participants hold a JSON
//	          serialization of the nested structures; the row is
//	          otherwise flat and typed. Timestamps are unix
//	          milliseconds (INTEGER).
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id         TEXT PRIMARY KEY,
    name       TEXT,
    username   TEXT UNIQUE,
    password   TEXT,
    created_at INTEGER
);

CREATE TABLE IF NOT EXISTS events (
    id               TEXT PRIMARY KEY,
    eventTitle       TEXT NOT NULL,
    eventDescription TEXT,
    eventLocation    TEXT,
    maxPlayerLimit   INTEGER,
    eventDateTime    INTEGER,
    createdDate      INTEGER,
    hostedBy         TEXT,
    participants     TEXT
);
`
