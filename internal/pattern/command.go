package pattern

import "fmt"

// Kind identifies a command variant by its one-letter MBQC mnemonic.
type Kind string

const (
	KindPrepare  Kind = "N"
	KindEntangle Kind = "E"
	KindMeasure  Kind = "M"
	KindCorrectX Kind = "X"
	KindCorrectZ Kind = "Z"
	KindClifford Kind = "C"
)

// String returns the mnemonic.
func (k Kind) String() string {
	return string(k)
}

// Plane is the measurement plane of a Measure command.
type Plane string

const (
	PlaneXY Plane = "XY"
	PlaneYZ Plane = "YZ"
	PlaneXZ Plane = "XZ"
)

// ParsePlane converts a plane name to a Plane. Only the canonical names
// XY, YZ and XZ are accepted.
func ParsePlane(s string) (Plane, error) {
	switch p := Plane(s); p {
	case PlaneXY, PlaneYZ, PlaneXZ:
		return p, nil
	default:
		return "", fmt.Errorf("invalid plane %q: must be one of XY, YZ, XZ", s)
	}
}

// Command is one step of a pattern.
//
// The interface is open: the lowering driver rejects variants it does not
// know with an UNKNOWN_COMMAND_KIND error instead of panicking.
type Command interface {
	Kind() Kind
}

// Prepare allocates node Node in the |+> state.
type Prepare struct {
	Node int
}

// Kind implements Command.
func (Prepare) Kind() Kind { return KindPrepare }

// Entangle applies CZ between nodes A and B.
type Entangle struct {
	A, B int
}

// Kind implements Command.
func (Entangle) Kind() Kind { return KindEntangle }

// Measure measures Node in Plane at Angle (radians).
type Measure struct {
	Node  int
	Plane Plane
	Angle float64
}

// Kind implements Command.
func (Measure) Kind() Kind { return KindMeasure }

// Correction applies Pauli (KindCorrectX or KindCorrectZ) to Node when the
// XOR of the outcomes of the nodes in Domain is 1. An empty domain makes
// the correction unconditional.
type Correction struct {
	Node   int
	Pauli  Kind
	Domain []int
}

// Kind implements Command.
func (c Correction) Kind() Kind { return c.Pauli }

// CorrectX builds an X correction.
func CorrectX(node int, domain ...int) Correction {
	return Correction{Node: node, Pauli: KindCorrectX, Domain: domain}
}

// CorrectZ builds a Z correction.
func CorrectZ(node int, domain ...int) Correction {
	return Correction{Node: node, Pauli: KindCorrectZ, Domain: domain}
}

// Clifford applies the single-qubit Clifford with table index Index to Node.
type Clifford struct {
	Node  int
	Index int
}

// Kind implements Command.
func (Clifford) Kind() Kind { return KindClifford }

// Pattern is a complete command stream with its input and output nodes.
type Pattern struct {
	Name     string
	Inputs   []int
	Outputs  []int
	Commands []Command
}

// Referenced returns the node ids a command touches, in command order.
// Correction domains are included after the target node.
// Returns nil for command variants this package does not define.
func Referenced(c Command) []int {
	switch cmd := c.(type) {
	case Prepare:
		return []int{cmd.Node}
	case Entangle:
		return []int{cmd.A, cmd.B}
	case Measure:
		return []int{cmd.Node}
	case Correction:
		ids := make([]int, 0, 1+len(cmd.Domain))
		ids = append(ids, cmd.Node)
		return append(ids, cmd.Domain...)
	case Clifford:
		return []int{cmd.Node}
	default:
		return nil
	}
}

// String renders a command in the compact mnemonic form used in logs,
// e.g. "M(0, XY, 0.5)" or "X(3, [0 2])".
func String(c Command) string {
	switch cmd := c.(type) {
	case Prepare:
		return fmt.Sprintf("N(%d)", cmd.Node)
	case Entangle:
		return fmt.Sprintf("E(%d, %d)", cmd.A, cmd.B)
	case Measure:
		return fmt.Sprintf("M(%d, %s, %g)", cmd.Node, cmd.Plane, cmd.Angle)
	case Correction:
		return fmt.Sprintf("%s(%d, %v)", cmd.Pauli, cmd.Node, cmd.Domain)
	case Clifford:
		return fmt.Sprintf("C(%d, %d)", cmd.Node, cmd.Index)
	default:
		return fmt.Sprintf("%T", c)
	}
}
