// Package target selects a backend by name and lowers a pattern through it.
package target

import (
	"encoding/json"
	"fmt"
	"regexp"
	"slices"

	"github.com/roach88/mbqc/internal/lower"
	"github.com/roach88/mbqc/internal/pattern"
	"github.com/roach88/mbqc/internal/target/circuit"
	"github.com/roach88/mbqc/internal/target/graph"
	"github.com/roach88/mbqc/internal/target/program"
)

// Target names.
const (
	Graph   = "graph"
	Program = "program"
	Circuit = "circuit"
)

// Names lists the supported targets in display order.
var Names = []string{Graph, Program, Circuit}

// Artifact is the result of lowering a pattern through one target.
type Artifact struct {
	Target string `json:"target"`

	// Text is the human-readable rendering: a graph listing, program
	// source, or OpenQASM.
	Text string `json:"text"`

	// Data is the typed result: *graph.Graph, *program.Program or
	// *circuit.Circuit.
	Data any `json:"data"`

	// Results lists the node behind each result in order: output qubits
	// ascending, then measured nodes ascending.
	Results []int `json:"results"`

	Qubits int `json:"qubits"`
	Bits   int `json:"bits"`
}

// JSON returns the indented JSON encoding of Data.
func (a *Artifact) JSON() ([]byte, error) {
	return json.MarshalIndent(a.Data, "", "  ")
}

// UnknownTargetError is returned for a name not in Names.
type UnknownTargetError struct {
	Name string
}

func (e *UnknownTargetError) Error() string {
	return fmt.Sprintf("unknown target %q (want one of %v)", e.Name, Names)
}

// Valid reports whether name is a supported target.
func Valid(name string) bool {
	return slices.Contains(Names, name)
}

// Lower lowers p through the named target.
func Lower(name string, p *pattern.Pattern, opts ...lower.Option) (*Artifact, error) {
	switch name {
	case Graph:
		g, err := lower.Convert[graph.Wire, graph.Wire, *graph.Graph](p, graph.NewEmitter(p.Name), opts...)
		if err != nil {
			return nil, err
		}
		return newArtifact(name, g.Render(), g, p), nil

	case Program:
		prog, err := lower.Convert[string, string, *program.Program](p, program.NewEmitter(functionName(p.Name)), opts...)
		if err != nil {
			return nil, err
		}
		return newArtifact(name, prog.Source(), prog, p), nil

	case Circuit:
		c, err := lower.Convert[int, circuit.Condition, *circuit.Circuit](p, circuit.NewEmitter(p.Name), opts...)
		if err != nil {
			return nil, err
		}
		return newArtifact(name, c.QASM(), c, p), nil

	default:
		return nil, &UnknownTargetError{Name: name}
	}
}

func newArtifact(name, text string, data any, p *pattern.Pattern) *Artifact {
	qubits := slices.Sorted(slices.Values(p.Outputs))
	bits := lower.MeasuredNodes(p)
	return &Artifact{
		Target:  name,
		Text:    text,
		Data:    data,
		Results: append(qubits, bits...),
		Qubits:  len(qubits),
		Bits:    len(bits),
	}
}

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// functionName uses the pattern name when it is a valid identifier.
func functionName(name string) string {
	if identifier.MatchString(name) {
		return name
	}
	return program.DefaultFunctionName
}
