package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/mbqc/internal/lower"
	"github.com/roach88/mbqc/internal/pattern"
	"github.com/roach88/mbqc/internal/store"
	"github.com/roach88/mbqc/internal/target"
	"github.com/roach88/mbqc/internal/testutil"
)

// Harness runs scenarios against one conversion store.
type Harness struct {
	store    *store.Store
	recorder *store.Recorder
	logger   *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
// An error is returned only when the scenario cannot be executed at all;
// unmet expectations are reported in Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	ctx := context.Background()
	rec, err := store.NewRecorder(ctx, st, testutil.NewFixedIDGenerator(scenario.RunID))
	if err != nil {
		return nil, fmt.Errorf("failed to start run: %w", err)
	}

	h := &Harness{
		store:    st,
		recorder: rec,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	return h.run(ctx, scenario)
}

func (h *Harness) run(ctx context.Context, s *Scenario) (*Result, error) {
	p, err := s.LoadPattern()
	if err != nil {
		return nil, fmt.Errorf("failed to load pattern: %w", err)
	}

	result := NewResult()
	opts := []lower.Option{
		lower.WithLogger(h.logger),
		lower.WithWarningHandler(func(w lower.Warning) {
			result.Warnings = append(result.Warnings, w)
		}),
	}
	if s.MaxCommands != 0 {
		opts = append(opts, lower.WithMaxCommands(s.MaxCommands))
	}

	art, err := target.Lower(s.Target, p, opts...)
	if err != nil {
		var ute *target.UnknownTargetError
		if errors.As(err, &ute) {
			return nil, err
		}
		result.ErrorCode = string(lower.CodeOf(err))
		checkError(result, s.Expect, err)
		return result, nil
	}
	result.Artifact = art

	if err := h.record(ctx, p, result); err != nil {
		return nil, err
	}

	for _, msg := range EvaluateExpectations(result, s.Expect) {
		result.AddError(msg)
	}

	h.logger.Info("scenario completed",
		"scenario", s.Name,
		"target", s.Target,
		"pass", result.Pass)

	return result, nil
}

// record writes the conversion and reads it back from the log.
func (h *Harness) record(ctx context.Context, p *pattern.Pattern, result *Result) error {
	written, err := h.recorder.Record(ctx, p, result.Artifact.Target, result.Artifact.Text, result.Warnings)
	if err != nil {
		return fmt.Errorf("failed to record conversion: %w", err)
	}

	run, err := h.store.ReadRun(ctx, h.recorder.RunID())
	if err != nil {
		return fmt.Errorf("failed to read run: %w", err)
	}
	if len(run) != 1 || run[0].ID != written.ID {
		return fmt.Errorf("conversion log out of sync: wrote %s, read %d rows", written.ID, len(run))
	}
	result.Conversion = &run[0]
	return nil
}
