package program

import (
	"fmt"
	"strings"

	"github.com/roach88/mbqc/internal/lower"
)

var funcNames = map[lower.Gate]string{
	lower.GateH:   "h",
	lower.GateS:   "s",
	lower.GateSDG: "sdg",
	lower.GateX:   "x",
	lower.GateY:   "y",
	lower.GateZ:   "z",
	lower.GateRX:  "rx",
	lower.GateRY:  "ry",
	lower.GateRZ:  "rz",
	lower.GateCZ:  "cz",
}

func funcName(g lower.Gate) string {
	if name, ok := funcNames[g]; ok {
		return name
	}
	return strings.ToLower(string(g))
}

// Emitter builds a Program. Qubit handles are variable names, classical
// handles are boolean expressions.
type Emitter struct {
	prog    *Program
	counter int
}

var _ lower.Emitter[string, string, *Program] = (*Emitter)(nil)

// NewEmitter creates an emitter for a function named name.
// An empty name selects DefaultFunctionName.
func NewEmitter(name string) *Emitter {
	if name == "" {
		name = DefaultFunctionName
	}
	return &Emitter{prog: &Program{Name: name}}
}

// fresh returns a new variable name. One counter is shared by all prefixes.
func (e *Emitter) fresh(prefix string) string {
	v := fmt.Sprintf("%s_%d", prefix, e.counter)
	e.counter++
	return v
}

func (e *Emitter) emit(format string, args ...any) {
	e.prog.Body = append(e.prog.Body, fmt.Sprintf(format, args...))
}

// Allocate declares n qubit parameters.
func (e *Emitter) Allocate(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("q_in_%d", i)
	}
	e.prog.Params = append(e.prog.Params, names...)
	return names
}

// PrepareAncilla allocates a qubit and rotates it to |+>.
func (e *Emitter) PrepareAncilla() string {
	q := e.fresh("q")
	e.emit("%s = qubit()", q)
	e.emit("%s = h(%s)", q, q)
	return q
}

// ApplyUnary implements lower.Emitter. The identity emits nothing.
func (e *Emitter) ApplyUnary(g lower.Gate, q string) string {
	if g == lower.GateI {
		return q
	}
	e.emit("%s = %s(%s)", q, funcName(g), q)
	return q
}

// ApplyUnaryParam implements lower.Emitter.
func (e *Emitter) ApplyUnaryParam(g lower.Gate, angle float64, q string) string {
	e.emit("%s = %s(%s, %s)", q, funcName(g), q, formatAngle(angle))
	return q
}

// ApplyBinarySymmetric implements lower.Emitter.
func (e *Emitter) ApplyBinarySymmetric(g lower.Gate, a, b string) (string, string) {
	e.emit("%s, %s = %s(%s, %s)", a, b, funcName(g), a, b)
	return a, b
}

// Measure implements lower.Emitter.
func (e *Emitter) Measure(q string) string {
	m := e.fresh("m")
	e.emit("%s = measure(%s)", m, q)
	return m
}

// Xor returns the expression a ^ b.
func (e *Emitter) Xor(a, b string) string {
	return a + " ^ " + b
}

// ApplyConditionalUnary emits an if block guarding the gate.
func (e *Emitter) ApplyConditionalUnary(g lower.Gate, cond, q string) string {
	e.emit("if %s:", cond)
	e.emit(indent+"%s = %s(%s)", q, funcName(g), q)
	return q
}

// ConstantFalse returns the literal False.
func (e *Emitter) ConstantFalse() string {
	return "False"
}

// Finalize records the return values and their types.
func (e *Emitter) Finalize(out lower.Outputs[string, string]) (*Program, error) {
	for _, q := range out.Qubits {
		e.prog.Returns = append(e.prog.Returns, q)
		e.prog.ReturnTypes = append(e.prog.ReturnTypes, "qubit")
	}
	for _, c := range out.Bits {
		e.prog.Returns = append(e.prog.Returns, c)
		e.prog.ReturnTypes = append(e.prog.ReturnTypes, "bool")
	}
	return e.prog, nil
}
