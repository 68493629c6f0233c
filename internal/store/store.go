package store

import (
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// pragma is a connection setting applied on every Open.
type pragma struct {
	name  string
	value string
}

// The log has a single writer: the CLI process that lowers.
var pragmas = []pragma{
	{"journal_mode", "WAL"},
	{"synchronous", "NORMAL"},
	{"busy_timeout", "5000"},
}

// migration moves the conversions table to version. Each step runs in
// its own transaction together with the user_version bump.
type migration struct {
	version int
	purpose string
	stmt    string
}

var migrations = []migration{
	{
		version: 1,
		purpose: "index conversions by run for history --run",
		stmt:    `CREATE INDEX IF NOT EXISTS idx_conversions_run ON conversions(run_id, seq)`,
	},
	{
		version: 2,
		purpose: "key cache lookups by name as well as content hash",
		stmt: `
			DROP INDEX IF EXISTS idx_conversions_lookup;
			CREATE INDEX IF NOT EXISTS idx_conversions_cache
			ON conversions(pattern_hash, target, engine_version, pattern_name, seq);
		`,
	},
}

// SchemaVersion is the user_version of a fully migrated log.
var SchemaVersion = migrations[len(migrations)-1].version

// Store is the SQLite-backed conversion log.
type Store struct {
	db *sql.DB
}

// Open opens the conversion log at path, creating it when missing, and
// brings its schema up to SchemaVersion. Reopening a current log is a
// no-op.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open conversion log: %w", err)
	}
	// One connection keeps pragmas and migrations on the same session.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	if err := s.db.Ping(); err != nil {
		return fmt.Errorf("connect conversion log: %w", err)
	}
	for _, p := range pragmas {
		if _, err := s.db.Exec(fmt.Sprintf("PRAGMA %s = %s", p.name, p.value)); err != nil {
			return fmt.Errorf("set pragma %s: %w", p.name, err)
		}
	}
	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("create conversions table: %w", err)
	}
	return s.migrate()
}

// migrate applies every migration newer than the stored user_version.
func (s *Store) migrate() error {
	from, err := s.userVersion()
	if err != nil {
		return err
	}
	for _, m := range migrations {
		if m.version <= from {
			continue
		}
		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("migration %d: %w", m.version, err)
		}
		if _, err := tx.Exec(m.stmt); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s): %w", m.version, m.purpose, err)
		}
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", m.version)); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d: set user_version: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migration %d: %w", m.version, err)
		}
	}
	return nil
}

func (s *Store) userVersion() (int, error) {
	var v int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("read user_version: %w", err)
	}
	return v, nil
}

// Close closes the log.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
