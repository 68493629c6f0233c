package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func indexExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'index' AND name = ?", name).Scan(&n))
	return n == 1
}

func TestOpen_CreatesLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mbqc.db")

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(path)
	require.NoError(t, err)

	v, err := s.userVersion()
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, v)
	assert.True(t, indexExists(t, s.db, "idx_conversions_run"))
	assert.True(t, indexExists(t, s.db, "idx_conversions_cache"))
}

func TestOpen_ReopenKeepsConversions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mbqc.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.WriteConversion(ctx, createTestConversion("c1", "h1", "circuit", 1)))
	require.NoError(t, s.Close())

	for i := 0; i < 2; i++ {
		s, err = Open(path)
		require.NoError(t, err, "reopen %d", i)
		all, err := s.ListConversions(ctx, 0)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, "c1", all[0].ID)
		require.NoError(t, s.Close())
	}
}

func TestOpen_Pragmas(t *testing.T) {
	s := createTestStore(t)

	// SQLite reports some settings in normalized form.
	want := map[string]string{
		"journal_mode": "wal",
		"synchronous":  "1",
		"busy_timeout": "5000",
	}
	for _, p := range pragmas {
		var got string
		require.NoError(t, s.db.QueryRow("PRAGMA "+p.name).Scan(&got))
		assert.Equal(t, want[p.name], got, p.name)
	}
}

func TestOpen_MigratesVersionOneLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.db")

	// A log written before cache lookups were keyed by name.
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = db.Exec(schemaSQL + `
		CREATE INDEX idx_conversions_run ON conversions(run_id, seq);
		CREATE INDEX idx_conversions_lookup ON conversions(pattern_hash, target, engine_version, seq);
		INSERT INTO conversions (id, run_id, pattern_hash, pattern_name, target, artifact, seq, engine_version)
		VALUES ('old', 'r', 'h1', 'hadamard', 'circuit', 'qasm', 1, '0.1.0');
		PRAGMA user_version = 1;
	`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	v, err := s.userVersion()
	require.NoError(t, err)
	assert.Equal(t, 2, v)
	assert.False(t, indexExists(t, s.db, "idx_conversions_lookup"))
	assert.True(t, indexExists(t, s.db, "idx_conversions_cache"))

	got, ok, err := s.LatestConversion(context.Background(), "h1", "hadamard", "circuit", "0.1.0")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "old", got.ID)
	assert.Equal(t, []string{}, warningCodes(got))
}

func TestOpen_InvalidPath(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing", "dir", "mbqc.db"))
	assert.Error(t, err)
}

func warningCodes(c Conversion) []string {
	codes := make([]string, 0, len(c.Warnings))
	for _, w := range c.Warnings {
		codes = append(codes, w.Code)
	}
	return codes
}
