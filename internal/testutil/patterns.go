// Package testutil holds fixtures shared by tests across packages.
package testutil

import "github.com/roach88/mbqc/internal/pattern"

// Hadamard returns the two-node pattern implementing H on one input.
func Hadamard() *pattern.Pattern {
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

// Chain returns a three-node linear cluster with an XY rotation of angle
// on the input and byproduct corrections on the output.
func Chain(angle float64) *pattern.Pattern {
	return &pattern.Pattern{
		Name:    "chain",
		Inputs:  []int{0},
		Outputs: []int{2},
		Commands: []pattern.Command{
			pattern.Prepare{Node: 1},
			pattern.Prepare{Node: 2},
			pattern.Entangle{A: 0, B: 1},
			pattern.Entangle{A: 1, B: 2},
			pattern.Measure{Node: 0, Plane: pattern.PlaneXY, Angle: angle},
			pattern.Measure{Node: 1, Plane: pattern.PlaneXY},
			pattern.CorrectX(2, 1),
			pattern.CorrectZ(2, 0),
		},
	}
}

// Unprepared returns a pattern that touches a node nobody prepared, so
// lowering it yields a NEVER_PREPARED warning.
func Unprepared() *pattern.Pattern {
	return &pattern.Pattern{
		Name:    "unprepared",
		Inputs:  []int{0},
		Outputs: []int{0},
		Commands: []pattern.Command{
			pattern.Measure{Node: 5},
			pattern.CorrectZ(0, 5),
		},
	}
}
