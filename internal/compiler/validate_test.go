package compiler

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mbqc/internal/pattern"
)

type bogus struct{}

func (bogus) Kind() pattern.Kind { return "Q" }

func codes(errs []ValidationError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Code
	}
	return out
}

func TestValidate_Clean(t *testing.T) {
	p, err := LoadYAMLFile("testdata/chain.yaml")
	require.NoError(t, err)
	assert.Empty(t, Validate(p))
}

func TestValidate_CollectsAll(t *testing.T) {
	p := &pattern.Pattern{
		Inputs:  []int{0, 0},
		Outputs: []int{-1, 2, 2},
		Commands: []pattern.Command{
			pattern.Entangle{A: 3, B: 3},
			pattern.Measure{Node: 0, Plane: "AB"},
			pattern.Correction{Node: 2, Pauli: "Y"},
			pattern.CorrectZ(2, -4),
			bogus{},
		},
	}

	errs := Validate(p)
	assert.Equal(t, []string{
		ErrPatternNameEmpty,
		ErrDuplicateInput,
		ErrNegativeNode,
		ErrDuplicateOutput,
		ErrSelfEntangle,
		ErrInvalidPlane,
		ErrUnknownCommand,
		ErrNegativeNode,
		ErrUnknownCommand,
	}, codes(errs))

	assert.Equal(t, "inputs[1]", errs[1].Field)
	assert.Equal(t, "commands[1].plane", errs[5].Field)
	assert.Equal(t, "commands[3]", errs[7].Field)
}

func TestValidationError_Format(t *testing.T) {
	e := ValidationError{Field: "name", Message: "required", Code: ErrPatternNameEmpty}
	assert.Equal(t, "[E201] name: required", e.Error())

	e.Line = 4
	assert.Equal(t, "[E201] line 4: name: required", e.Error())
}

func TestValidate_NonFiniteAngle(t *testing.T) {
	p := &pattern.Pattern{
		Name:   "rot",
		Inputs: []int{0},
		Commands: []pattern.Command{
			pattern.Measure{Node: 0, Plane: pattern.PlaneXY, Angle: math.NaN()},
			pattern.Measure{Node: 0, Plane: pattern.PlaneYZ, Angle: math.Inf(-1)},
			pattern.Measure{Node: 0, Plane: pattern.PlaneXZ, Angle: 1.5},
		},
	}

	errs := Validate(p)
	assert.Equal(t, []string{ErrNonFiniteAngle, ErrNonFiniteAngle}, codes(errs))
	assert.Equal(t, "commands[0].angle", errs[0].Field)
	assert.Equal(t, "commands[1].angle", errs[1].Field)
}

func TestValidate_MissingPlane(t *testing.T) {
	p := &pattern.Pattern{
		Name:     "m",
		Inputs:   []int{0},
		Commands: []pattern.Command{pattern.Measure{Node: 0}},
	}
	assert.Equal(t, []string{ErrInvalidPlane}, codes(Validate(p)))
}
