package circuit

import (
	"fmt"
	"strconv"
	"strings"
)

// Register names.
const (
	QubitRegister = "q"
	BitRegister   = "m"
)

// Op names follow pytket OpType spelling.
const (
	OpH       = "H"
	OpS       = "S"
	OpSdg     = "Sdg"
	OpX       = "X"
	OpY       = "Y"
	OpZ       = "Z"
	OpRx      = "Rx"
	OpRy      = "Ry"
	OpRz      = "Rz"
	OpCZ      = "CZ"
	OpMeasure = "Measure"
)

// Condition is the XOR of a set of bits of register m.
// An empty condition is constant false.
type Condition struct {
	Bits []int `json:"bits"`
}

// False reports whether the condition is the constant false.
func (c Condition) False() bool {
	return len(c.Bits) == 0
}

// Eval returns the parity of the referenced bits.
func (c Condition) Eval(bits []bool) bool {
	v := false
	for _, b := range c.Bits {
		v = v != bits[b]
	}
	return v
}

// String renders the condition as a QASM expression, e.g. "m[0] ^ m[2]".
func (c Condition) String() string {
	if c.False() {
		return "false"
	}
	terms := make([]string, len(c.Bits))
	for i, b := range c.Bits {
		terms[i] = fmt.Sprintf("%s[%d]", BitRegister, b)
	}
	return strings.Join(terms, " ^ ")
}

// Instruction is one operation of the circuit.
type Instruction struct {
	Op        string     `json:"op"`
	Qubits    []int      `json:"qubits"`
	Bits      []int      `json:"bits,omitempty"`
	Args      []float64  `json:"args,omitempty"`
	Condition *Condition `json:"condition,omitempty"`
}

// Circuit is a linear sequence of instructions over registers q and m.
type Circuit struct {
	Name         string        `json:"name"`
	NumQubits    int           `json:"num_qubits"`
	NumBits      int           `json:"num_bits"`
	Instructions []Instruction `json:"instructions"`

	// OutputQubits and OutputBits are the ordered results.
	OutputQubits []int       `json:"output_qubits"`
	OutputBits   []Condition `json:"output_bits"`
}

// Count returns the number of instructions with the given op.
func (c *Circuit) Count(op string) int {
	n := 0
	for _, in := range c.Instructions {
		if in.Op == op {
			n++
		}
	}
	return n
}

// Conditional returns the instructions that carry a condition.
func (c *Circuit) Conditional() []Instruction {
	var out []Instruction
	for _, in := range c.Instructions {
		if in.Condition != nil {
			out = append(out, in)
		}
	}
	return out
}

var qasmNames = map[string]string{
	OpH:   "h",
	OpS:   "s",
	OpSdg: "sdg",
	OpX:   "x",
	OpY:   "y",
	OpZ:   "z",
	OpRx:  "rx",
	OpRy:  "ry",
	OpRz:  "rz",
	OpCZ:  "cz",
}

// QASM renders the circuit as an OpenQASM 3 program. The final comment
// lists the results in order.
func (c *Circuit) QASM() string {
	var b strings.Builder
	b.WriteString("OPENQASM 3.0;\n")
	b.WriteString("include \"stdgates.inc\";\n")
	if c.NumQubits > 0 {
		fmt.Fprintf(&b, "qubit[%d] %s;\n", c.NumQubits, QubitRegister)
	}
	if c.NumBits > 0 {
		fmt.Fprintf(&b, "bit[%d] %s;\n", c.NumBits, BitRegister)
	}

	for _, in := range c.Instructions {
		b.WriteString(qasmStatement(in))
		b.WriteByte('\n')
	}

	results := make([]string, 0, len(c.OutputQubits)+len(c.OutputBits))
	for _, q := range c.OutputQubits {
		results = append(results, fmt.Sprintf("%s[%d]", QubitRegister, q))
	}
	for _, cond := range c.OutputBits {
		results = append(results, cond.String())
	}
	fmt.Fprintf(&b, "// results: %s\n", strings.Join(results, ", "))
	return b.String()
}

func qasmStatement(in Instruction) string {
	if in.Op == OpMeasure {
		return fmt.Sprintf("%s[%d] = measure %s[%d];", BitRegister, in.Bits[0], QubitRegister, in.Qubits[0])
	}

	name, ok := qasmNames[in.Op]
	if !ok {
		name = strings.ToLower(in.Op)
	}
	if len(in.Args) > 0 {
		args := make([]string, len(in.Args))
		for i, a := range in.Args {
			args[i] = strconv.FormatFloat(a, 'g', -1, 64)
		}
		name += "(" + strings.Join(args, ", ") + ")"
	}

	operands := make([]string, len(in.Qubits))
	for i, q := range in.Qubits {
		operands[i] = fmt.Sprintf("%s[%d]", QubitRegister, q)
	}
	stmt := name + " " + strings.Join(operands, ", ") + ";"
	if in.Condition != nil {
		stmt = fmt.Sprintf("if (%s) %s", in.Condition, stmt)
	}
	return stmt
}
