package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/mbqc/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Limit    int
	RunID    string
}

// HistoryEntry summarizes one recorded conversion.
type HistoryEntry struct {
	Seq           int64    `json:"seq"`
	ID            string   `json:"id"`
	RunID         string   `json:"run_id"`
	Pattern       string   `json:"pattern"`
	PatternHash   string   `json:"pattern_hash"`
	Target        string   `json:"target"`
	EngineVersion string   `json:"engine_version"`
	Warnings      []string `json:"warnings"`
}

// HistoryResult is the payload of the history command.
type HistoryResult struct {
	Conversions []HistoryEntry `json:"conversions"`
	Total       int            `json:"total"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded conversions",
		Long: `List conversions recorded by "mbqc lower --db" in log order.

Exit codes:
  0 - Success
  2 - Command error (database not found, etc.)

Examples:
  mbqc history --db mbqc.db
  mbqc history --db mbqc.db --limit 10
  mbqc history --db mbqc.db --run 0192f5c4-...`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "conversion store path (required)")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "show the last n conversions (<= 0 shows all)")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "only show conversions from this run")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// store.Open would create a fresh database.
	if _, err := os.Stat(opts.Database); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("database not found: %s", opts.Database))
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	var convs []store.Conversion
	if opts.RunID != "" {
		convs, err = st.ReadRun(ctx, opts.RunID)
	} else {
		convs, err = st.ListConversions(ctx, opts.Limit)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read conversions", err)
	}

	result := HistoryResult{
		Conversions: make([]HistoryEntry, 0, len(convs)),
		Total:       len(convs),
	}
	for _, c := range convs {
		codes := make([]string, len(c.Warnings))
		for i, w := range c.Warnings {
			codes[i] = w.Code
		}
		result.Conversions = append(result.Conversions, HistoryEntry{
			Seq:           c.Seq,
			ID:            c.ID,
			RunID:         c.RunID,
			Pattern:       c.PatternName,
			PatternHash:   c.PatternHash,
			Target:        c.Target,
			EngineVersion: c.EngineVersion,
			Warnings:      codes,
		})
	}

	if opts.Format == "json" {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(CLIResponse{Status: "ok", Data: result})
	}
	return outputHistoryText(cmd, result)
}

// outputHistoryText outputs one line per conversion.
func outputHistoryText(cmd *cobra.Command, result HistoryResult) error {
	w := cmd.OutOrStdout()

	if result.Total == 0 {
		fmt.Fprintln(w, "No conversions recorded.")
		return nil
	}

	for _, e := range result.Conversions {
		fmt.Fprintf(w, "[%d] %s -> %s  %s  run=%s",
			e.Seq, e.Pattern, e.Target, truncateID(e.ID), truncateID(e.RunID))
		if len(e.Warnings) > 0 {
			fmt.Fprintf(w, "  warnings=%v", e.Warnings)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "\nTotal: %d conversion(s)\n", result.Total)
	return nil
}

// truncateID shortens an ID for display.
func truncateID(id string) string {
	if len(id) <= 16 {
		return id
	}
	return id[:8] + "..." + id[len(id)-8:]
}
