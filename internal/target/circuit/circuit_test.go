package circuit

import (
	"encoding/json"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mbqc/internal/lower"
	"github.com/roach88/mbqc/internal/pattern"
)

func lowerPattern(t *testing.T, p *pattern.Pattern) *Circuit {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c, err := lower.Convert[int, Condition, *Circuit](p, NewEmitter(p.Name), lower.WithLogger(logger))
	require.NoError(t, err)
	return c
}

func hadamard() *pattern.Pattern {
	return &pattern.Pattern{
		Name:    "hadamard",
		Inputs:  []int{0},
		Outputs: []int{1},
		Commands: []pattern.Command{
			pattern.Prepare{Node: 1},
			pattern.Entangle{A: 0, B: 1},
			pattern.Measure{Node: 0, Plane: pattern.PlaneXY},
			pattern.CorrectX(1, 0),
		},
	}
}

func TestEmitter_Hadamard(t *testing.T) {
	c := lowerPattern(t, hadamard())

	assert.Equal(t, 2, c.NumQubits)
	assert.Equal(t, 1, c.NumBits)
	assert.Equal(t, []int{1}, c.OutputQubits)
	assert.Equal(t, []Condition{{Bits: []int{0}}}, c.OutputBits)

	assert.Equal(t, `OPENQASM 3.0;
include "stdgates.inc";
qubit[2] q;
bit[1] m;
h q[1];
cz q[0], q[1];
h q[0];
m[0] = measure q[0];
if (m[0]) x q[1];
// results: q[1], m[0]
`, c.QASM())
}

func TestEmitter_ParityConditions(t *testing.T) {
	p := &pattern.Pattern{
		Name:    "parity",
		Outputs: []int{3},
		Commands: []pattern.Command{
			pattern.Prepare{Node: 1},
			pattern.Prepare{Node: 2},
			pattern.Prepare{Node: 3},
			pattern.Measure{Node: 1, Plane: pattern.PlaneYZ},
			pattern.Measure{Node: 2, Plane: pattern.PlaneYZ},
			pattern.CorrectZ(3, 2, 1),
			pattern.CorrectX(3, 9),
		},
	}
	c := lowerPattern(t, p)

	assert.Equal(t, `OPENQASM 3.0;
include "stdgates.inc";
qubit[3] q;
bit[2] m;
h q[0];
h q[1];
h q[2];
m[0] = measure q[0];
m[1] = measure q[1];
if (m[0] ^ m[1]) z q[2];
if (false) x q[2];
// results: q[2], m[0], m[1]
`, c.QASM())

	cond := c.Conditional()
	require.Len(t, cond, 2)
	assert.True(t, cond[0].Condition.Eval([]bool{true, false}))
	assert.False(t, cond[0].Condition.Eval([]bool{true, true}))
	assert.True(t, cond[1].Condition.False())
	assert.False(t, cond[1].Condition.Eval([]bool{true, true}))
}

func TestEmitter_RotationsKeepRadians(t *testing.T) {
	p := &pattern.Pattern{
		Name:    "rot",
		Inputs:  []int{0, 1, 2},
		Outputs: []int{3},
		Commands: []pattern.Command{
			pattern.Prepare{Node: 3},
			pattern.Measure{Node: 0, Plane: pattern.PlaneXY, Angle: math.Pi / 2},
			pattern.Measure{Node: 1, Plane: pattern.PlaneYZ, Angle: 0.25},
			pattern.Measure{Node: 2, Plane: pattern.PlaneXZ, Angle: 2},
		},
	}
	c := lowerPattern(t, p)

	assert.Equal(t, 1, c.Count(OpRz))
	assert.Equal(t, 1, c.Count(OpRx))
	assert.Equal(t, 1, c.Count(OpRy))
	assert.Equal(t, 3, c.Count(OpMeasure))

	var args []float64
	for _, in := range c.Instructions {
		args = append(args, in.Args...)
	}
	assert.Equal(t, []float64{-math.Pi / 2, -0.25, 2}, args)
	assert.Contains(t, c.QASM(), "rz(-1.5707963267948966) q[0];")
	assert.Contains(t, c.QASM(), "ry(2) q[2];")
}

func TestEmitter_CliffordSkipsIdentity(t *testing.T) {
	p := &pattern.Pattern{
		Name:    "clifford",
		Inputs:  []int{0},
		Outputs: []int{0},
		Commands: []pattern.Command{
			pattern.Clifford{Node: 0, Index: 0},
			pattern.Clifford{Node: 0, Index: 3},
		},
	}
	c := lowerPattern(t, p)

	require.Len(t, c.Instructions, 1)
	assert.Equal(t, Instruction{Op: OpSdg, Qubits: []int{0}}, c.Instructions[0])
	assert.Contains(t, c.QASM(), "sdg q[0];")
	assert.NotContains(t, c.QASM(), "bit[")
}

func TestEmitter_NeverMeasuredAncilla(t *testing.T) {
	p := &pattern.Pattern{
		Name: "unmeasured",
		Commands: []pattern.Command{
			pattern.Measure{Node: 4},
		},
	}
	c := lowerPattern(t, p)

	assert.Empty(t, c.Instructions)
	assert.Equal(t, []Condition{{}}, c.OutputBits)
	assert.Equal(t, "OPENQASM 3.0;\ninclude \"stdgates.inc\";\n// results: false\n", c.QASM())
}

func TestEmitter_ConditionIsCopied(t *testing.T) {
	e := NewEmitter("copy")
	q := e.Allocate(1)[0]
	cond := Condition{Bits: []int{0}}
	e.ApplyConditionalUnary(lower.GateX, cond, q)
	cond.Bits[0] = 5

	assert.Equal(t, []int{0}, e.c.Instructions[0].Condition.Bits)
}

func TestCondition_String(t *testing.T) {
	assert.Equal(t, "false", Condition{}.String())
	assert.Equal(t, "m[3]", Condition{Bits: []int{3}}.String())
	assert.Equal(t, "m[0] ^ m[2]", Condition{Bits: []int{0, 2}}.String())
}

func TestCircuit_JSON(t *testing.T) {
	c := lowerPattern(t, hadamard())

	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Contains(t, string(data), `{"op":"X","qubits":[1],"condition":{"bits":[0]}}`)
	assert.Contains(t, string(data), `{"op":"Measure","qubits":[0],"bits":[0]}`)

	var decoded Circuit
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, c.Instructions, decoded.Instructions)
}
