package store

import (
	"path/filepath"
	"testing"
)

// createTestStore creates a new store in a temp directory for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestConversion creates a conversion with minimal required fields.
func createTestConversion(id, hash, target string, seq int64) Conversion {
	return Conversion{
		ID:            id,
		RunID:         "run-1",
		PatternHash:   hash,
		PatternName:   "p",
		Target:        target,
		Artifact:      "artifact " + id,
		Seq:           seq,
		EngineVersion: "0.1.0",
	}
}
