package target

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mbqc/internal/lower"
	"github.com/roach88/mbqc/internal/pattern"
	"github.com/roach88/mbqc/internal/target/circuit"
	"github.com/roach88/mbqc/internal/target/graph"
	"github.com/roach88/mbqc/internal/target/program"
	"github.com/roach88/mbqc/internal/testutil"
)

var quiet = lower.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

func chain() *pattern.Pattern { return testutil.Chain(0.5) }

func TestLower_AllTargets(t *testing.T) {
	for _, name := range Names {
		t.Run(name, func(t *testing.T) {
			a, err := Lower(name, chain(), quiet)
			require.NoError(t, err)
			assert.Equal(t, name, a.Target)
			assert.Equal(t, 1, a.Qubits)
			assert.Equal(t, 2, a.Bits)
			assert.NotEmpty(t, a.Text)

			data, err := a.JSON()
			require.NoError(t, err)
			assert.NotEmpty(t, data)
		})
	}
}

func TestLower_DataTypes(t *testing.T) {
	a, err := Lower(Graph, chain(), quiet)
	require.NoError(t, err)
	assert.IsType(t, &graph.Graph{}, a.Data)

	a, err = Lower(Program, chain(), quiet)
	require.NoError(t, err)
	require.IsType(t, &program.Program{}, a.Data)
	assert.Equal(t, "chain", a.Data.(*program.Program).Name)

	a, err = Lower(Circuit, chain(), quiet)
	require.NoError(t, err)
	assert.IsType(t, &circuit.Circuit{}, a.Data)
}

func TestLower_ProgramNameFallsBack(t *testing.T) {
	p := chain()
	p.Name = "two qubit-chain"
	a, err := Lower(Program, p, quiet)
	require.NoError(t, err)
	assert.Contains(t, a.Text, "def "+program.DefaultFunctionName+"(")
}

func TestLower_UnknownTarget(t *testing.T) {
	_, err := Lower("hugr", chain(), quiet)
	var ute *UnknownTargetError
	require.True(t, errors.As(err, &ute))
	assert.Equal(t, "hugr", ute.Name)
	assert.False(t, Valid("hugr"))
	assert.True(t, Valid(Circuit))
}

func TestLower_PropagatesDriverErrors(t *testing.T) {
	p := &pattern.Pattern{Name: "dangling", Outputs: []int{7}}
	for _, name := range Names {
		_, err := Lower(name, p, quiet)
		assert.True(t, lower.IsDanglingOutput(err), name)
	}
}

func TestLower_ResultOrder(t *testing.T) {
	p := &pattern.Pattern{
		Name:    "order",
		Inputs:  []int{4, 1},
		Outputs: []int{4, 1},
		Commands: []pattern.Command{
			pattern.Prepare{Node: 9},
			pattern.Prepare{Node: 3},
			pattern.Measure{Node: 9},
			pattern.Measure{Node: 3},
			pattern.Measure{Node: 3},
		},
	}
	a, err := Lower(Circuit, p, quiet)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 4, 3, 9}, a.Results)
	assert.Equal(t, 2, a.Qubits)
	assert.Equal(t, 2, a.Bits)
}

func TestLower_ReportsWarningsOnEveryTarget(t *testing.T) {
	for _, name := range Names {
		t.Run(name, func(t *testing.T) {
			var got []lower.Warning
			_, err := Lower(name, testutil.Unprepared(), quiet, lower.WithWarningHandler(func(w lower.Warning) {
				got = append(got, w)
			}))
			require.NoError(t, err)
			require.NotEmpty(t, got)
			assert.Equal(t, lower.WarnNeverPrepared, got[0].Code)
			assert.Equal(t, 5, got[0].Node)
		})
	}
}
