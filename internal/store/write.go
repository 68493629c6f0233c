package store

import (
	"context"
	"fmt"

	"github.com/roach88/mbqc/internal/lower"
)

// Conversion is one row of the conversion log.
type Conversion struct {
	ID            string          `json:"id"`
	RunID         string          `json:"run_id"`
	PatternHash   string          `json:"pattern_hash"`
	PatternName   string          `json:"pattern_name"`
	Target        string          `json:"target"`
	Artifact      string          `json:"artifact"`
	Warnings      []lower.Warning `json:"warnings"`
	Seq           int64           `json:"seq"`
	EngineVersion string          `json:"engine_version"`
}

// WriteConversion inserts a conversion record into the store.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - duplicate IDs are silently ignored.
func (s *Store) WriteConversion(ctx context.Context, c Conversion) error {
	warnings, err := marshalWarnings(c.Warnings)
	if err != nil {
		return fmt.Errorf("write conversion: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO conversions
		(id, run_id, pattern_hash, pattern_name, target, artifact, warnings, seq, engine_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		c.ID,
		c.RunID,
		c.PatternHash,
		c.PatternName,
		c.Target,
		c.Artifact,
		warnings,
		c.Seq,
		c.EngineVersion,
	)
	if err != nil {
		return fmt.Errorf("write conversion: %w", err)
	}

	return nil
}
