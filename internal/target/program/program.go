package program

import (
	"strconv"
	"strings"
)

// DefaultFunctionName is the name of the generated function.
const DefaultFunctionName = "quantum_circuit"

// Header is emitted before the decorated function.
const Header = `from guppy import guppy
from guppy.prelude.quantum import qubit, measure, h, x, y, z, s, sdg, rx, ry, rz, cz
`

const indent = "    "

// Program is a generated function.
type Program struct {
	Name        string   `json:"name"`
	Params      []string `json:"params"`
	Body        []string `json:"body"`
	Returns     []string `json:"returns"`
	ReturnTypes []string `json:"return_types"`
}

// ReturnType renders the annotation: None, a single type, or a tuple.
func (p *Program) ReturnType() string {
	switch len(p.ReturnTypes) {
	case 0:
		return "None"
	case 1:
		return p.ReturnTypes[0]
	default:
		return "tuple[" + strings.Join(p.ReturnTypes, ", ") + "]"
	}
}

// Signature renders the def line.
func (p *Program) Signature() string {
	params := make([]string, len(p.Params))
	for i, name := range p.Params {
		params[i] = name + ": qubit"
	}
	return "def " + p.Name + "(" + strings.Join(params, ", ") + ") -> " + p.ReturnType() + ":"
}

// Source renders the complete module text.
func (p *Program) Source() string {
	var b strings.Builder
	b.WriteString(Header)
	b.WriteString("\n@guppy\n")
	b.WriteString(p.Signature())
	b.WriteByte('\n')
	for _, line := range p.Body {
		b.WriteString(indent)
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString(indent)
	if len(p.Returns) == 0 {
		b.WriteString("return\n")
	} else {
		b.WriteString("return " + strings.Join(p.Returns, ", ") + "\n")
	}
	return b.String()
}

// formatAngle renders a float as a Python float literal.
func formatAngle(a float64) string {
	s := strconv.FormatFloat(a, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}
