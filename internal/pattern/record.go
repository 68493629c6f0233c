package pattern

import (
	"fmt"
	"math"
	"slices"
)

// Record is the flat serializable form of a Command.
// Only the fields meaningful for Kind are read.
type Record struct {
	Kind     string  `json:"kind" yaml:"kind"`
	Node     int     `json:"node" yaml:"node"`
	Nodes    []int   `json:"nodes,omitempty" yaml:"nodes,omitempty"`
	Plane    string  `json:"plane,omitempty" yaml:"plane,omitempty"`
	Angle    float64 `json:"angle,omitempty" yaml:"angle,omitempty"`
	Domain   []int   `json:"domain,omitempty" yaml:"domain,omitempty"`
	Clifford int     `json:"clifford,omitempty" yaml:"clifford,omitempty"`
}

// Command converts the record to its typed Command.
func (r Record) Command() (Command, error) {
	switch Kind(r.Kind) {
	case KindPrepare:
		return Prepare{Node: r.Node}, nil
	case KindEntangle:
		if len(r.Nodes) != 2 {
			return nil, fmt.Errorf("entangle needs exactly 2 nodes, got %d", len(r.Nodes))
		}
		return Entangle{A: r.Nodes[0], B: r.Nodes[1]}, nil
	case KindMeasure:
		if r.Plane == "" {
			return nil, fmt.Errorf("measure of node %d needs a plane (XY, YZ or XZ)", r.Node)
		}
		plane, err := ParsePlane(r.Plane)
		if err != nil {
			return nil, err
		}
		if math.IsNaN(r.Angle) || math.IsInf(r.Angle, 0) {
			return nil, fmt.Errorf("measure of node %d: angle %v is not finite", r.Node, r.Angle)
		}
		return Measure{Node: r.Node, Plane: plane, Angle: r.Angle}, nil
	case KindCorrectX, KindCorrectZ:
		return Correction{Node: r.Node, Pauli: Kind(r.Kind), Domain: slices.Clone(r.Domain)}, nil
	case KindClifford:
		return Clifford{Node: r.Node, Index: r.Clifford}, nil
	default:
		return nil, fmt.Errorf("unknown command kind %q", r.Kind)
	}
}

// RecordOf converts a typed Command to its flat form.
func RecordOf(c Command) (Record, error) {
	switch cmd := c.(type) {
	case Prepare:
		return Record{Kind: string(KindPrepare), Node: cmd.Node}, nil
	case Entangle:
		return Record{Kind: string(KindEntangle), Nodes: []int{cmd.A, cmd.B}}, nil
	case Measure:
		return Record{Kind: string(KindMeasure), Node: cmd.Node, Plane: string(cmd.Plane), Angle: cmd.Angle}, nil
	case Correction:
		return Record{Kind: string(cmd.Pauli), Node: cmd.Node, Domain: slices.Clone(cmd.Domain)}, nil
	case Clifford:
		return Record{Kind: string(KindClifford), Node: cmd.Node, Clifford: cmd.Index}, nil
	default:
		return Record{}, fmt.Errorf("unsupported command type %T", c)
	}
}

// Document is the serializable form of a Pattern, shared by the YAML and
// JSON frontends and the scenario harness.
type Document struct {
	Name     string   `json:"name" yaml:"name"`
	Format   string   `json:"format,omitempty" yaml:"format,omitempty"`
	Inputs   []int    `json:"inputs" yaml:"inputs"`
	Outputs  []int    `json:"outputs" yaml:"outputs"`
	Commands []Record `json:"commands" yaml:"commands"`
}

// Pattern converts the document to a Pattern.
func (d Document) Pattern() (*Pattern, error) {
	p := &Pattern{
		Name:     d.Name,
		Inputs:   slices.Clone(d.Inputs),
		Outputs:  slices.Clone(d.Outputs),
		Commands: make([]Command, 0, len(d.Commands)),
	}
	for i, r := range d.Commands {
		cmd, err := r.Command()
		if err != nil {
			return nil, fmt.Errorf("commands[%d]: %w", i, err)
		}
		p.Commands = append(p.Commands, cmd)
	}
	return p, nil
}

// DocumentOf converts a Pattern to its serializable form.
func DocumentOf(p *Pattern) (Document, error) {
	d := Document{
		Name:     p.Name,
		Format:   FormatVersion,
		Inputs:   slices.Clone(p.Inputs),
		Outputs:  slices.Clone(p.Outputs),
		Commands: make([]Record, 0, len(p.Commands)),
	}
	for i, c := range p.Commands {
		r, err := RecordOf(c)
		if err != nil {
			return Document{}, fmt.Errorf("commands[%d]: %w", i, err)
		}
		d.Commands = append(d.Commands, r)
	}
	return d, nil
}
