package lower

// Gate names a target-independent gate.
type Gate string

const (
	GateI   Gate = "I"
	GateH   Gate = "H"
	GateS   Gate = "S"
	GateSDG Gate = "SDG"
	GateX   Gate = "X"
	GateY   Gate = "Y"
	GateZ   Gate = "Z"
	GateCZ  Gate = "CZ"
	GateRX  Gate = "RX"
	GateRY  Gate = "RY"
	GateRZ  Gate = "RZ"
)

// String returns the gate name.
func (g Gate) String() string {
	return string(g)
}

// Parametric reports whether the gate takes an angle.
func (g Gate) Parametric() bool {
	switch g {
	case GateRX, GateRY, GateRZ:
		return true
	default:
		return false
	}
}
