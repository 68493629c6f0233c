package store

import (
	"context"
	"fmt"

	"github.com/roach88/mbqc/internal/lower"
	"github.com/roach88/mbqc/internal/pattern"
)

// Recorder appends conversions under one run id, stamping each with the
// next seq of a clock resumed from the log.
type Recorder struct {
	store *Store
	clock *Clock
	runID string
}

// NewRecorder starts a run. The clock resumes from LastSeq.
func NewRecorder(ctx context.Context, s *Store, gen IDGenerator) (*Recorder, error) {
	last, err := s.LastSeq(ctx)
	if err != nil {
		return nil, err
	}
	return &Recorder{store: s, clock: NewClockAt(last), runID: gen.Generate()}, nil
}

// RunID returns the id shared by every row this recorder writes.
func (r *Recorder) RunID() string {
	return r.runID
}

// Record writes one conversion of p through target.
func (r *Recorder) Record(ctx context.Context, p *pattern.Pattern, target, artifact string, warnings []lower.Warning) (Conversion, error) {
	hash, err := pattern.Hash(p)
	if err != nil {
		return Conversion{}, fmt.Errorf("record conversion: %w", err)
	}

	seq := r.clock.Next()
	id, err := pattern.ConversionID(hash, target, seq)
	if err != nil {
		return Conversion{}, fmt.Errorf("record conversion: %w", err)
	}

	c := Conversion{
		ID:            id,
		RunID:         r.runID,
		PatternHash:   hash,
		PatternName:   p.Name,
		Target:        target,
		Artifact:      artifact,
		Warnings:      warnings,
		Seq:           seq,
		EngineVersion: pattern.EngineVersion,
	}
	if err := r.store.WriteConversion(ctx, c); err != nil {
		return Conversion{}, err
	}
	if c.Warnings == nil {
		c.Warnings = []lower.Warning{}
	}
	return c, nil
}

// Cached returns the latest conversion of p, matched by content hash and
// name, through target by this engine version, if any.
func (r *Recorder) Cached(ctx context.Context, p *pattern.Pattern, target string) (Conversion, bool, error) {
	hash, err := pattern.Hash(p)
	if err != nil {
		return Conversion{}, false, fmt.Errorf("lookup conversion: %w", err)
	}
	return r.store.LatestConversion(ctx, hash, p.Name, target, pattern.EngineVersion)
}
