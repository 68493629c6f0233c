package graph

import (
	"fmt"

	"github.com/roach88/mbqc/internal/lower"
)

// opNames maps driver gates to op names in the quantum extension.
var opNames = map[lower.Gate]string{
	lower.GateI:   "I",
	lower.GateH:   "H",
	lower.GateS:   "S",
	lower.GateSDG: "Sdg",
	lower.GateX:   "X",
	lower.GateY:   "Y",
	lower.GateZ:   "Z",
	lower.GateCZ:  "CZ",
	lower.GateRX:  "Rx",
	lower.GateRY:  "Ry",
	lower.GateRZ:  "Rz",
}

func opName(g lower.Gate) string {
	if name, ok := opNames[g]; ok {
		return name
	}
	return string(g)
}

func quantumOp(name string, in, out []Type, args ...float64) Op {
	return Op{Kind: OpCustom, Name: name, Extension: ExtensionQuantum, In: in, Out: out, Args: args}
}

var (
	qubit1 = []Type{TypeQubit}
	qubit2 = []Type{TypeQubit, TypeQubit}
	bool1  = []Type{TypeBool}
)

// Emitter builds a Graph. Handles are wires.
type Emitter struct {
	g *Graph
}

var _ lower.Emitter[Wire, Wire, *Graph] = (*Emitter)(nil)

// NewEmitter creates an emitter for a graph named name.
func NewEmitter(name string) *Emitter {
	return &Emitter{g: New(name)}
}

// Allocate adds the Input node with n qubit ports.
func (e *Emitter) Allocate(n int) []Wire {
	out := make([]Type, n)
	for i := range out {
		out[i] = TypeQubit
	}
	id := e.g.AddNode(Op{Kind: OpInput, Out: out})
	e.g.Input = id

	wires := make([]Wire, n)
	for i := range wires {
		wires[i] = Wire{Node: id, Port: i}
	}
	return wires
}

// PrepareAncilla adds a PrepareQubit node producing |+>.
func (e *Emitter) PrepareAncilla() Wire {
	id := e.g.AddNode(quantumOp("PrepareQubit", nil, qubit1))
	return Wire{Node: id}
}

// ApplyUnary implements lower.Emitter.
func (e *Emitter) ApplyUnary(g lower.Gate, q Wire) Wire {
	id := e.g.AddNode(quantumOp(opName(g), qubit1, qubit1), q)
	return Wire{Node: id}
}

// ApplyUnaryParam implements lower.Emitter. The angle is the op's argument.
func (e *Emitter) ApplyUnaryParam(g lower.Gate, angle float64, q Wire) Wire {
	id := e.g.AddNode(quantumOp(opName(g), qubit1, qubit1, angle), q)
	return Wire{Node: id}
}

// ApplyBinarySymmetric implements lower.Emitter.
func (e *Emitter) ApplyBinarySymmetric(g lower.Gate, a, b Wire) (Wire, Wire) {
	id := e.g.AddNode(quantumOp(opName(g), qubit2, qubit2), a, b)
	return Wire{Node: id, Port: 0}, Wire{Node: id, Port: 1}
}

// Measure implements lower.Emitter.
func (e *Emitter) Measure(q Wire) Wire {
	id := e.g.AddNode(quantumOp("Measure", qubit1, bool1), q)
	return Wire{Node: id}
}

// Xor adds a logic XOR node.
func (e *Emitter) Xor(a, b Wire) Wire {
	id := e.g.AddNode(Op{
		Kind:      OpCustom,
		Name:      "XOR",
		Extension: ExtensionLogic,
		In:        []Type{TypeBool, TypeBool},
		Out:       bool1,
	}, a, b)
	return Wire{Node: id}
}

// ApplyConditionalUnary adds a ConditionalX / ConditionalZ node taking the
// condition first and the qubit second.
func (e *Emitter) ApplyConditionalUnary(g lower.Gate, cond, q Wire) Wire {
	id := e.g.AddNode(quantumOp("Conditional"+opName(g), []Type{TypeBool, TypeQubit}, qubit1), cond, q)
	return Wire{Node: id}
}

// ConstantFalse adds a Const node and loads it.
func (e *Emitter) ConstantFalse() Wire {
	f := false
	c := e.g.AddNode(Op{Kind: OpConst, Out: bool1, Value: &f})
	id := e.g.AddNode(Op{Kind: OpLoadConst, In: bool1, Out: bool1}, Wire{Node: c})
	return Wire{Node: id}
}

// Finalize adds the Output node and validates the graph.
func (e *Emitter) Finalize(out lower.Outputs[Wire, Wire]) (*Graph, error) {
	in := make([]Type, 0, out.Len())
	wires := make([]Wire, 0, out.Len())
	for _, q := range out.Qubits {
		in = append(in, TypeQubit)
		wires = append(wires, q)
	}
	for _, c := range out.Bits {
		in = append(in, TypeBool)
		wires = append(wires, c)
	}
	e.g.Output = e.g.AddNode(Op{Kind: OpOutput, In: in}, wires...)

	if err := e.g.Validate(); err != nil {
		return nil, fmt.Errorf("invalid graph: %w", err)
	}
	return e.g, nil
}
