package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mbqc/internal/lower"
)

func hadamardResult() LowerResult {
	return LowerResult{
		Pattern: "hadamard",
		Target:  "circuit",
		Text:    "OPENQASM 3.0;\n",
		Results: []int{1, 0},
		Qubits:  1,
		Bits:    1,
	}
}

func TestFormatter_LowerResultJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, f.Success(hadamardResult()))

	var resp lowerResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Nil(t, resp.Error)
	assert.Equal(t, hadamardResult().Results, resp.Data.Results)
	assert.Equal(t, "circuit", resp.Data.Target)
	assert.NotContains(t, buf.String(), `"warnings"`, "no warnings, no field")
	assert.NotContains(t, buf.String(), `"conversion_id"`)
}

func TestFormatter_CachedResultOmitsCounts(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, f.Success(LowerResult{
		Pattern:      "hadamard",
		Target:       "graph",
		Text:         "graph hadamard\n",
		Cached:       true,
		ConversionID: "c0ffee",
	}))

	out := buf.String()
	assert.Contains(t, out, `"cached":true`)
	assert.Contains(t, out, `"conversion_id":"c0ffee"`)
	assert.NotContains(t, out, `"results"`)
	assert.NotContains(t, out, `"qubits"`)
}

func TestFormatter_LoweringErrorJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: buf}

	lerr := lower.NewDanglingOutputError(7)
	require.NoError(t, f.Error(errorCode(lerr), lerr.Error(), lerr.Details))

	var resp lowerResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, string(lower.ErrCodeDanglingOutput), resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "node=7")
}

func TestFormatter_LoadErrorText(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "text", Writer: buf}

	err := &LoadError{Code: ErrCodeNoSuchName, Message: `no pattern named "ghz"`}
	require.NoError(t, f.Error(errorCode(err), err.Message, map[string]string{"source": "patterns.cue"}))

	assert.Equal(t, "Error [E006]: no pattern named \"ghz\"\n", buf.String(), "details only in verbose mode")
}

func TestFormatter_LoweringErrorTextVerbose(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "text", Writer: buf, Verbose: true}

	lerr := lower.NewUnknownCommandError(3, "Q")
	require.NoError(t, f.Error(errorCode(lerr), lerr.Error(), []string{"command 3"}))

	assert.Contains(t, buf.String(), "Error [UNKNOWN_COMMAND_KIND]")
	assert.Contains(t, buf.String(), "Details: [command 3]")
}

func TestFormatter_VerboseLogAvoidsJSONStream(t *testing.T) {
	for _, verbose := range []bool{true, false} {
		out := &bytes.Buffer{}
		diag := &bytes.Buffer{}
		f := &OutputFormatter{Format: "json", Writer: out, ErrWriter: diag, Verbose: verbose}

		f.VerboseLog("Validating pattern: %s", "hadamard")

		assert.Empty(t, out.String())
		if verbose {
			assert.Equal(t, "Validating pattern: hadamard\n", diag.String())
		} else {
			assert.Empty(t, diag.String())
		}
	}
}

func TestFormatter_WarningsJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: buf}

	warnings := []lower.Warning{{Code: lower.WarnNeverPrepared, Node: 5, Index: 0, Message: "node is never prepared"}}
	require.NoError(t, f.SuccessWithWarnings(hadamardResult(), warnings))

	var resp lowerResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, warnings, resp.Warnings)
}

func TestFormatter_WarningsTextGoToErrWriter(t *testing.T) {
	out := &bytes.Buffer{}
	diag := &bytes.Buffer{}
	f := &OutputFormatter{Format: "text", Writer: out, ErrWriter: diag}

	warnings := []lower.Warning{{Code: lower.WarnPreparedLate, Node: 2, Index: 1, Message: "referenced before preparation"}}
	require.NoError(t, f.SuccessWithWarnings("done", warnings))

	assert.Equal(t, "done\n", out.String())
	assert.Equal(t, "warning: PREPARED_LATE: referenced before preparation (command=1, node=2)\n", diag.String())
}

func TestExitError_WrapsLoweringError(t *testing.T) {
	lerr := lower.NewDanglingOutputError(1)
	err := WrapExitError(ExitFailure, "lowering failed", lerr)

	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.True(t, lower.IsDanglingOutput(err))
	assert.True(t, errors.Is(err, lerr))
	assert.Equal(t, "lowering failed: "+lerr.Error(), err.Error())
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
}
