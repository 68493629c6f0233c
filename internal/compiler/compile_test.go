package compiler

import (
	"errors"
	"math"
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mbqc/internal/pattern"
)

func compileOne(t *testing.T, src, name string) (*pattern.Pattern, error) {
	t.Helper()
	ctx := cuecontext.New()
	v := ctx.CompileString(src)
	require.NoError(t, v.Err())
	return CompilePattern(v.LookupPath(cue.ParsePath("pattern." + name)))
}

func TestCompilePatternBasic(t *testing.T) {
	p, err := compileOne(t, `
		pattern: hadamard: {
			inputs: [0]
			outputs: [1]
			commands: [
				{kind: "N", node: 1},
				{kind: "E", nodes: [0, 1]},
				{kind: "M", node: 0, plane: "XY"},
				{kind: "X", node: 1, domain: [0]},
			]
		}
	`, "hadamard")
	require.NoError(t, err)

	assert.Equal(t, "hadamard", p.Name)
	assert.Equal(t, []int{0}, p.Inputs)
	assert.Equal(t, []int{1}, p.Outputs)
	assert.Equal(t, []pattern.Command{
		pattern.Prepare{Node: 1},
		pattern.Entangle{A: 0, B: 1},
		pattern.Measure{Node: 0, Plane: pattern.PlaneXY},
		pattern.CorrectX(1, 0),
	}, p.Commands)
}

func TestCompilePatternExpressions(t *testing.T) {
	p, err := compileOne(t, `
		import "math"

		pattern: rot: {
			outputs: [1]
			commands: [
				{kind: "N", node: 0},
				{kind: "N", node: 1},
				{kind: "M", node: 0, plane: "YZ", angle: math.Pi / 2},
				{kind: "C", node: 1, clifford: 2 * 3},
			]
		}
	`, "rot")
	require.NoError(t, err)

	assert.Empty(t, p.Inputs, "inputs default to []")
	m, ok := p.Commands[2].(pattern.Measure)
	require.True(t, ok)
	assert.Equal(t, pattern.PlaneYZ, m.Plane)
	assert.InDelta(t, math.Pi/2, m.Angle, 1e-15)
	assert.Equal(t, pattern.Clifford{Node: 1, Index: 6}, p.Commands[3])
}

func TestCompilePatternSchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unknown kind", `pattern: p: { commands: [{kind: "Q", node: 0}] }`},
		{"missing kind", `pattern: p: { commands: [{node: 0}] }`},
		{"unknown field", `pattern: p: { commands: [{kind: "N", node: 0, colour: "red"}] }`},
		{"negative node", `pattern: p: { commands: [{kind: "N", node: -1}] }`},
		{"bad plane", `pattern: p: { commands: [{kind: "M", node: 0, plane: "xx"}] }`},
		{"swapped plane", `pattern: p: { commands: [{kind: "M", node: 0, plane: "ZX"}] }`},
		{"missing plane", `pattern: p: { commands: [{kind: "M", node: 0}] }`},
		{"three nodes", `pattern: p: { commands: [{kind: "E", nodes: [0, 1, 2]}] }`},
		{"string input", `pattern: p: { inputs: ["a"], commands: [] }`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compileOne(t, tt.src, "p")
			require.Error(t, err)
		})
	}
}

func TestCompilePatternMissingNodesIsRecordError(t *testing.T) {
	_, err := compileOne(t, `pattern: p: { commands: [{kind: "E"}] }`, "p")
	require.Error(t, err)

	var ce *CompileError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "commands[0]", ce.Field)
	assert.Contains(t, ce.Message, "exactly 2 nodes")
}

func TestCompilePatternFormatGate(t *testing.T) {
	_, err := compileOne(t, `pattern: p: { format: "2.1.0", commands: [] }`, "p")
	var ce *CompileError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "format", ce.Field)
	assert.Contains(t, ce.Message, "not supported")

	_, err = compileOne(t, `pattern: p: { format: "1.4.2", commands: [] }`, "p")
	assert.NoError(t, err)
}

func TestLoadCUEFile(t *testing.T) {
	ps, err := LoadCUEFile("testdata/patterns.cue")
	require.NoError(t, err)
	require.Len(t, ps, 2)

	assert.Equal(t, "hadamard", ps[0].Name)
	assert.Equal(t, "quarter-turn", ps[1].Name)
	assert.Len(t, ps[1].Commands, 8)

	m := ps[1].Commands[4].(pattern.Measure)
	assert.InDelta(t, -math.Pi/4, m.Angle, 1e-15)
}

func TestLoadCUEFile_Errors(t *testing.T) {
	_, err := LoadCUEFile("testdata/missing.cue")
	assert.Error(t, err)
}

func TestCompileError_Format(t *testing.T) {
	e := &CompileError{Field: "format", Message: "bad"}
	assert.Equal(t, "format: bad", e.Error())
}

func TestCheckFormat(t *testing.T) {
	assert.NoError(t, CheckFormat(""))
	assert.NoError(t, CheckFormat("1.0.0"))
	assert.NoError(t, CheckFormat("1.9"))
	assert.ErrorContains(t, CheckFormat("0.9.0"), "not supported")
	assert.ErrorContains(t, CheckFormat("2.0.0"), "not supported")
	assert.ErrorContains(t, CheckFormat("one"), "invalid format version")
}
