package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/mbqc/internal/lower"
	"github.com/roach88/mbqc/internal/store"
	"github.com/roach88/mbqc/internal/target"
)

// LowerOptions holds flags for the lower command.
type LowerOptions struct {
	*RootOptions
	Target      string
	Pattern     string // pattern name when the source declares several
	Output      string // artifact path; stdout when empty
	Database    string // conversion store; no caching when empty
	Watch       bool
	MaxCommands int

	// IDGenerator overrides the run id source (for testing).
	IDGenerator store.IDGenerator
}

// LowerResult is the JSON payload of a lowering.
type LowerResult struct {
	Pattern      string          `json:"pattern"`
	Target       string          `json:"target"`
	Text         string          `json:"text"`
	Results      []int           `json:"results,omitempty"`
	Qubits       int             `json:"qubits,omitempty"`
	Bits         int             `json:"bits,omitempty"`
	Cached       bool            `json:"cached"`
	ConversionID string          `json:"conversion_id,omitempty"`
	Output       string          `json:"output,omitempty"`
	Warnings     []lower.Warning `json:"-"`
}

// NewLowerCommand creates the lower command.
func NewLowerCommand(rootOpts *RootOptions) *cobra.Command {
	return newLowerCommand(&LowerOptions{RootOptions: rootOpts})
}

func newLowerCommand(opts *LowerOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lower <pattern-file>",
		Short: "Lower a pattern to a target",
		Long: `Lower a measurement pattern to a dataflow graph, a guppy program,
or an OpenQASM 3 circuit.

The pattern source is a .cue file or package directory, or a .yaml/.json
document. With --db, a conversion of the same pattern (same name and
content) by the same engine version is reused; otherwise the new
conversion is recorded.

Examples:
  mbqc lower hadamard.yaml --target circuit
  mbqc lower ./patterns --pattern ghz --target program -o ghz.py
  mbqc lower chain.cue --target graph --db mbqc.db --watch`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLower(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Target, "target", "t", target.Circuit, "target backend (graph|program|circuit)")
	cmd.Flags().StringVarP(&opts.Pattern, "pattern", "p", "", "pattern name to lower")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the artifact to this file")
	cmd.Flags().StringVar(&opts.Database, "db", "", "conversion store path")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "re-lower whenever the pattern source changes")
	cmd.Flags().IntVar(&opts.MaxCommands, "max-commands", lower.DefaultMaxCommands, "command budget (<= 0 disables)")

	return cmd
}

func runLower(opts *LowerOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, cmd)

	if !target.Valid(opts.Target) {
		msg := (&target.UnknownTargetError{Name: opts.Target}).Error()
		_ = formatter.Error(ErrCodeGeneric, msg, nil)
		return NewExitError(ExitCommandError, msg)
	}

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	l := &lowerer{opts: opts, logger: logger, formatter: formatter}

	if opts.Database != "" {
		logger.Debug("opening conversion store", "path", opts.Database)
		st, err := store.Open(opts.Database)
		if err != nil {
			_ = formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				logger.Error("error closing database", "error", closeErr)
			}
		}()

		gen := opts.IDGenerator
		if gen == nil {
			gen = store.UUIDv7Generator{}
		}
		l.recorder, err = store.NewRecorder(ctx, st, gen)
		if err != nil {
			_ = formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to start run", err)
		}
		logger.Debug("run started", "run_id", l.recorder.RunID())
	}

	if !opts.Watch {
		return l.lowerOnce(ctx, path)
	}

	w, err := newPatternWatcher(path)
	if err != nil {
		_ = formatter.Error(ErrCodeWatchFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to watch pattern source", err)
	}
	defer w.Close()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("received signal, stopping watch", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	// A failed lowering is reported and the watch keeps going.
	relower := func() {
		if err := l.lowerOnce(ctx, path); err != nil {
			logger.Warn("lowering failed", "path", path, "error", err)
		}
	}

	relower()
	logger.Info("watching for changes", "path", path)
	if err := w.Run(ctx, logger, relower); err != nil && !errors.Is(err, context.Canceled) {
		return WrapExitError(ExitFailure, "watch error", err)
	}
	logger.Info("watch stopped")
	return nil
}

// lowerer performs one lowering per call, sharing the recorder across
// watch iterations so every conversion lands in one run.
type lowerer struct {
	opts      *LowerOptions
	logger    *slog.Logger
	formatter *OutputFormatter
	recorder  *store.Recorder
}

func (l *lowerer) lowerOnce(ctx context.Context, path string) error {
	p, err := LoadPattern(path, l.opts.Pattern)
	if err != nil {
		_ = l.formatter.Error(errorCode(err), err.Error(), nil)
		var loadErr *LoadError
		if errors.As(err, &loadErr) && loadErr.Code == ErrCodeNotFound {
			return WrapExitError(ExitCommandError, "failed to load pattern", err)
		}
		return WrapExitError(ExitFailure, "failed to load pattern", err)
	}

	// A stream over budget must fail, so it never reads the cache.
	useCache := l.recorder != nil && lower.NewBudget(l.opts.MaxCommands).Allows(len(p.Commands))
	if useCache {
		conv, ok, err := l.recorder.Cached(ctx, p, l.opts.Target)
		if err != nil {
			_ = l.formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to read conversion store", err)
		}
		if ok {
			l.logger.Debug("conversion cache hit", "pattern", p.Name, "target", conv.Target, "id", conv.ID)
			for _, w := range conv.Warnings {
				l.logger.Warn("pattern audit", "code", w.Code, "node", w.Node, "command", w.Index, "message", w.Message)
			}
			return l.emit(LowerResult{
				Pattern:      p.Name,
				Target:       conv.Target,
				Text:         conv.Artifact,
				Cached:       true,
				ConversionID: conv.ID,
				Warnings:     conv.Warnings,
			})
		}
	}

	var warnings []lower.Warning
	art, err := target.Lower(l.opts.Target, p,
		lower.WithLogger(l.logger),
		lower.WithMaxCommands(l.opts.MaxCommands),
		lower.WithWarningHandler(func(w lower.Warning) {
			warnings = append(warnings, w)
		}),
	)
	if err != nil {
		_ = l.formatter.Error(errorCode(err), err.Error(), nil)
		return WrapExitError(ExitFailure, "lowering failed", err)
	}

	res := LowerResult{
		Pattern:  p.Name,
		Target:   art.Target,
		Text:     art.Text,
		Results:  art.Results,
		Qubits:   art.Qubits,
		Bits:     art.Bits,
		Warnings: warnings,
	}

	if l.recorder != nil {
		conv, err := l.recorder.Record(ctx, p, art.Target, art.Text, warnings)
		if err != nil {
			_ = l.formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to record conversion", err)
		}
		res.ConversionID = conv.ID
		l.logger.Debug("conversion recorded", "id", conv.ID, "seq", conv.Seq)
	}

	return l.emit(res)
}

// emit writes the artifact to --output or stdout and reports the result.
func (l *lowerer) emit(res LowerResult) error {
	if l.opts.Output != "" {
		if err := os.WriteFile(l.opts.Output, []byte(res.Text), 0644); err != nil {
			_ = l.formatter.Error(ErrCodeWriteFailed, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to write artifact", err)
		}
		res.Output = l.opts.Output
	}

	if l.formatter.Format == "json" {
		return l.formatter.SuccessWithWarnings(res, res.Warnings)
	}

	if res.Output != "" {
		fmt.Fprintf(l.formatter.Writer, "Wrote %s %s to %s\n", res.Target, res.Pattern, res.Output)
		return nil
	}
	fmt.Fprint(l.formatter.Writer, res.Text)
	return nil
}
