package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const conversionColumns = `id, run_id, pattern_hash, pattern_name, target, artifact, warnings, seq, engine_version`

// LatestConversion returns the most recent conversion of the named
// pattern with the given hash through target by the given engine version.
// The name is part of the key because graph and program artifacts embed
// it. Returns false if none exists.
func (s *Store) LatestConversion(ctx context.Context, patternHash, patternName, target, engineVersion string) (Conversion, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+conversionColumns+`
		FROM conversions
		WHERE pattern_hash = ? AND target = ? AND engine_version = ? AND pattern_name = ?
		ORDER BY seq DESC, id COLLATE BINARY DESC
		LIMIT 1
	`, patternHash, target, engineVersion, patternName)

	c, err := scanConversion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Conversion{}, false, nil
	}
	if err != nil {
		return Conversion{}, false, err
	}
	return c, true, nil
}

// ListConversions returns the most recent limit conversions in log order.
// A limit <= 0 returns the whole log.
//
// Returns an empty slice (not nil) if the log is empty.
func (s *Store) ListConversions(ctx context.Context, limit int) ([]Conversion, error) {
	if limit <= 0 {
		return s.queryConversions(ctx, `
			SELECT `+conversionColumns+`
			FROM conversions
			ORDER BY seq ASC, id COLLATE BINARY ASC
		`)
	}
	return s.queryConversions(ctx, `
		SELECT `+conversionColumns+` FROM (
			SELECT `+conversionColumns+`
			FROM conversions
			ORDER BY seq DESC, id COLLATE BINARY DESC
			LIMIT ?
		)
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, limit)
}

// ReadRun returns the conversions written under one run id in log order.
func (s *Store) ReadRun(ctx context.Context, runID string) ([]Conversion, error) {
	return s.queryConversions(ctx, `
		SELECT `+conversionColumns+`
		FROM conversions
		WHERE run_id = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, runID)
}

// LastSeq returns the highest seq in the log, or 0 when it is empty.
func (s *Store) LastSeq(ctx context.Context) (int64, error) {
	var seq int64
	if err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) FROM conversions`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("query last seq: %w", err)
	}
	return seq, nil
}

func (s *Store) queryConversions(ctx context.Context, query string, args ...any) ([]Conversion, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query conversions: %w", err)
	}
	defer rows.Close()

	conversions := []Conversion{}
	for rows.Next() {
		c, err := scanConversion(rows)
		if err != nil {
			return nil, err
		}
		conversions = append(conversions, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate conversions: %w", err)
	}

	return conversions, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanConversion(row scanner) (Conversion, error) {
	var c Conversion
	var warnings string
	err := row.Scan(
		&c.ID,
		&c.RunID,
		&c.PatternHash,
		&c.PatternName,
		&c.Target,
		&c.Artifact,
		&warnings,
		&c.Seq,
		&c.EngineVersion,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Conversion{}, err
	}
	if err != nil {
		return Conversion{}, fmt.Errorf("scan conversion: %w", err)
	}

	c.Warnings, err = unmarshalWarnings(warnings)
	if err != nil {
		return Conversion{}, err
	}
	return c, nil
}
