// CLAUDE:SUMMARY Tests for pragma application, schema options, and busy-retry helpers.
package dbopen_test

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/hazyhaar/dnav/dbopen"
)

// WHAT: the default open applies the WAL/foreign_keys/synchronous/busy_timeout
// pragmas the decision log relies on.
// WHY: a silently missing pragma shows up later as lock errors or broken FKs.
func TestOpen_DefaultPragmas(t *testing.T) {
	db := dbopen.OpenMemory(t)

	var journalMode string
	if err := db.QueryRow("PRAGMA journal_mode").Scan(&journalMode); err != nil {
		t.Fatal(err)
	}
	// :memory: may report "memory" instead of "wal" for journal_mode,
	// but the PRAGMA was still executed successfully.
	if journalMode != "wal" && journalMode != "memory" {
		t.Fatalf("journal_mode = %q, want wal or memory", journalMode)
	}

	var fk int
	if err := db.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatal(err)
	}
	if fk != 1 {
		t.Fatalf("foreign_keys = %d, want 1", fk)
	}

	var sync int
	if err := db.QueryRow("PRAGMA synchronous").Scan(&sync); err != nil {
		t.Fatal(err)
	}
	// synchronous NORMAL = 1
	if sync != 1 {
		t.Fatalf("synchronous = %d, want 1 (NORMAL)", sync)
	}

	var busyTimeout int
	if err := db.QueryRow("PRAGMA busy_timeout").Scan(&busyTimeout); err != nil {
		t.Fatal(err)
	}
	if busyTimeout != 10_000 {
		t.Fatalf("busy_timeout = %d, want 10000", busyTimeout)
	}
}

func TestOpenMemory(t *testing.T) {
	db := dbopen.OpenMemory(t)
	if err := db.Ping(); err != nil {
		t.Fatal(err)
	}
}

// WHAT: pragma options override the defaults.
func TestPragmaOptions(t *testing.T) {
	db := dbopen.OpenMemory(t,
		dbopen.WithBusyTimeout(5000),
		dbopen.WithoutForeignKeys(),
		dbopen.WithCacheSize(-64000),
		dbopen.WithSynchronous("FULL"),
	)

	checks := []struct {
		pragma string
		want   int
	}{
		{"busy_timeout", 5000},
		{"foreign_keys", 0},
		{"cache_size", -64000},
		{"synchronous", 2}, // FULL
	}
	for _, c := range checks {
		var got int
		if err := db.QueryRow("PRAGMA " + c.pragma).Scan(&got); err != nil {
			t.Fatal(err)
		}
		if got != c.want {
			t.Errorf("%s = %d, want %d", c.pragma, got, c.want)
		}
	}
}

// WHAT: WithSchema applies DDL after pragmas; the tables are usable at once.
// WHY: decisionlog opens its store with exactly this option.
func TestWithSchema(t *testing.T) {
	schema := `CREATE TABLE log_entries (id TEXT PRIMARY KEY, title TEXT);`
	db := dbopen.OpenMemory(t, dbopen.WithSchema(schema))

	_, err := db.Exec(`INSERT INTO log_entries (id, title) VALUES ('dec_1', 'Open the Lyon office')`)
	if err != nil {
		t.Fatalf("insert into schema-created table: %v", err)
	}

	var title string
	if err := db.QueryRow(`SELECT title FROM log_entries WHERE id = 'dec_1'`).Scan(&title); err != nil {
		t.Fatal(err)
	}
	if title != "Open the Lyon office" {
		t.Fatalf("title = %q", title)
	}
}

func TestWithSchemaFile(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "schema.sql")
	if err := os.WriteFile(schemaPath, []byte(`CREATE TABLE log_entries (id TEXT PRIMARY KEY);`), 0o644); err != nil {
		t.Fatal(err)
	}

	db := dbopen.OpenMemory(t, dbopen.WithSchemaFile(schemaPath))

	if _, err := db.Exec(`INSERT INTO log_entries (id) VALUES ('dec_1')`); err != nil {
		t.Fatalf("insert into schema-file table: %v", err)
	}
}

// WHAT: WithMkdirAll creates missing parent directories for the db file.
// WHY: `dnav serve` defaults DB_PATH to db/dnav.db under a fresh checkout.
func TestWithMkdirAll(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "db", "nested", "dnav.db")

	db, err := dbopen.Open(dbPath, dbopen.WithMkdirAll())
	if err != nil {
		t.Fatalf("open with mkdirall: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(filepath.Dir(dbPath)); err != nil {
		t.Fatalf("directory not created: %v", err)
	}
}

// WHAT: IsBusy matches the lock messages sqlite emits, wherever they appear
// in the error chain's text.
func TestIsBusy(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("no such table: log_entries"), false},
		{errors.New("SQLITE_BUSY"), true},
		{errors.New("database is locked"), true},
		{errors.New("database table is locked"), true},
		{errors.New("promote: SQLITE_BUSY (5)"), true},
		{errors.New("rescore failed: database is locked (retry)"), true},
	}
	for _, tt := range tests {
		if got := dbopen.IsBusy(tt.err); got != tt.want {
			t.Errorf("IsBusy(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

// WHAT: RunTx commits when fn succeeds and rolls back when fn errors,
// passing the original error through unwrapped.
// WHY: decisionlog surfaces ErrDuplicate from inside RunTx via errors.Is.
func TestRunTx(t *testing.T) {
	db := dbopen.OpenMemory(t, dbopen.WithSchema(`CREATE TABLE log_entries (id TEXT PRIMARY KEY, title TEXT)`))
	ctx := context.Background()

	err := dbopen.RunTx(ctx, db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO log_entries (id, title) VALUES ('dec_1', 'committed')`)
		return err
	})
	if err != nil {
		t.Fatalf("RunTx: %v", err)
	}

	sentinel := errors.New("roll this back")
	err = dbopen.RunTx(ctx, db, func(tx *sql.Tx) error {
		tx.Exec(`INSERT INTO log_entries (id, title) VALUES ('dec_2', 'doomed')`)
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("RunTx error = %v, want sentinel", err)
	}

	var count int
	db.QueryRow(`SELECT COUNT(*) FROM log_entries`).Scan(&count)
	if count != 1 {
		t.Fatalf("count = %d, want 1 (second tx rolled back)", count)
	}
}

func TestExec(t *testing.T) {
	db := dbopen.OpenMemory(t, dbopen.WithSchema(`CREATE TABLE log_entries (id TEXT PRIMARY KEY)`))
	ctx := context.Background()

	if _, err := dbopen.Exec(ctx, db, `INSERT INTO log_entries (id) VALUES (?)`, "dec_1"); err != nil {
		t.Fatalf("Exec: %v", err)
	}

	var count int
	db.QueryRow(`SELECT COUNT(*) FROM log_entries`).Scan(&count)
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}
}

// WHAT: a cancelled context aborts RunTx instead of starting the transaction.
func TestRunTx_ContextCancelled(t *testing.T) {
	db := dbopen.OpenMemory(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := dbopen.RunTx(ctx, db, func(tx *sql.Tx) error {
		return nil
	})
	if err == nil {
		t.Fatal("expected error on cancelled context")
	}
}
