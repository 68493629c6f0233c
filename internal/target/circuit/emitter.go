package circuit

import (
	"slices"

	"github.com/roach88/mbqc/internal/lower"
)

var opNames = map[lower.Gate]string{
	lower.GateH:   OpH,
	lower.GateS:   OpS,
	lower.GateSDG: OpSdg,
	lower.GateX:   OpX,
	lower.GateY:   OpY,
	lower.GateZ:   OpZ,
	lower.GateRX:  OpRx,
	lower.GateRY:  OpRy,
	lower.GateRZ:  OpRz,
	lower.GateCZ:  OpCZ,
}

func opName(g lower.Gate) string {
	if name, ok := opNames[g]; ok {
		return name
	}
	return string(g)
}

// Emitter builds a Circuit. Qubit handles are cells of register q;
// classical handles are conditions over register m.
type Emitter struct {
	c *Circuit
}

var _ lower.Emitter[int, Condition, *Circuit] = (*Emitter)(nil)

// NewEmitter creates an emitter for a circuit named name.
func NewEmitter(name string) *Emitter {
	return &Emitter{c: &Circuit{Name: name}}
}

func (e *Emitter) add(in Instruction) {
	e.c.Instructions = append(e.c.Instructions, in)
}

// Allocate reserves the first n cells of q for the inputs.
func (e *Emitter) Allocate(n int) []int {
	cells := make([]int, n)
	for i := range cells {
		cells[i] = e.c.NumQubits
		e.c.NumQubits++
	}
	return cells
}

// PrepareAncilla takes a fresh cell and applies H.
func (e *Emitter) PrepareAncilla() int {
	q := e.c.NumQubits
	e.c.NumQubits++
	e.add(Instruction{Op: OpH, Qubits: []int{q}})
	return q
}

// ApplyUnary implements lower.Emitter. The identity emits nothing.
func (e *Emitter) ApplyUnary(g lower.Gate, q int) int {
	if g == lower.GateI {
		return q
	}
	e.add(Instruction{Op: opName(g), Qubits: []int{q}})
	return q
}

// ApplyUnaryParam implements lower.Emitter.
func (e *Emitter) ApplyUnaryParam(g lower.Gate, angle float64, q int) int {
	e.add(Instruction{Op: opName(g), Qubits: []int{q}, Args: []float64{angle}})
	return q
}

// ApplyBinarySymmetric implements lower.Emitter.
func (e *Emitter) ApplyBinarySymmetric(g lower.Gate, a, b int) (int, int) {
	e.add(Instruction{Op: opName(g), Qubits: []int{a, b}})
	return a, b
}

// Measure writes the outcome to the next cell of m.
func (e *Emitter) Measure(q int) Condition {
	bit := e.c.NumBits
	e.c.NumBits++
	e.add(Instruction{Op: OpMeasure, Qubits: []int{q}, Bits: []int{bit}})
	return Condition{Bits: []int{bit}}
}

// Xor concatenates the bit lists of a and b.
func (e *Emitter) Xor(a, b Condition) Condition {
	bits := make([]int, 0, len(a.Bits)+len(b.Bits))
	bits = append(bits, a.Bits...)
	return Condition{Bits: append(bits, b.Bits...)}
}

// ApplyConditionalUnary implements lower.Emitter.
func (e *Emitter) ApplyConditionalUnary(g lower.Gate, cond Condition, q int) int {
	c := Condition{Bits: slices.Clone(cond.Bits)}
	e.add(Instruction{Op: opName(g), Qubits: []int{q}, Condition: &c})
	return q
}

// ConstantFalse returns the empty condition.
func (e *Emitter) ConstantFalse() Condition {
	return Condition{}
}

// Finalize records the ordered results.
func (e *Emitter) Finalize(out lower.Outputs[int, Condition]) (*Circuit, error) {
	e.c.OutputQubits = slices.Clone(out.Qubits)
	e.c.OutputBits = slices.Clone(out.Bits)
	return e.c, nil
}
