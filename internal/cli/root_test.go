package cli

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs cmd with args and returns what it wrote to stdout.
// Logs and verbose output go to a separate buffer.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "mbqc", cmd.Use)
	assert.Contains(t, cmd.Long, "OpenQASM")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"lower", "validate", "test", "history"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestLowerCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	lowerCmd, _, err := cmd.Find([]string{"lower"})
	require.NoError(t, err)

	targetFlag := lowerCmd.Flags().Lookup("target")
	require.NotNil(t, targetFlag)
	assert.Equal(t, "t", targetFlag.Shorthand)
	assert.Equal(t, "circuit", targetFlag.DefValue)

	outputFlag := lowerCmd.Flags().Lookup("output")
	require.NotNil(t, outputFlag)
	assert.Equal(t, "o", outputFlag.Shorthand)

	budgetFlag := lowerCmd.Flags().Lookup("max-commands")
	require.NotNil(t, budgetFlag)
	assert.Equal(t, "1000000", budgetFlag.DefValue)

	for _, name := range []string{"pattern", "db", "watch"} {
		assert.NotNil(t, lowerCmd.Flags().Lookup(name), name)
	}
}

func TestHistoryCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	historyCmd, _, err := cmd.Find([]string{"history"})
	require.NoError(t, err)

	dbFlag := historyCmd.Flags().Lookup("db")
	require.NotNil(t, dbFlag)
	// --db is required, so default is empty
	assert.Equal(t, "", dbFlag.DefValue)

	limitFlag := historyCmd.Flags().Lookup("limit")
	require.NotNil(t, limitFlag)
	assert.Equal(t, "20", limitFlag.DefValue)
}

func TestInvalidFormat(t *testing.T) {
	cmd := NewRootCommand()
	_, err := execute(t, cmd, "--format", "xml", "validate", "testdata/hadamard.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad path")))
	assert.Equal(t, ExitFailure, GetExitCode(assert.AnError))

	wrapped := WrapExitError(ExitFailure, "lowering failed", assert.AnError)
	assert.ErrorIs(t, wrapped, assert.AnError)
	assert.Equal(t, "lowering failed: "+assert.AnError.Error(), wrapped.Error())
}
