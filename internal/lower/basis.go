package lower

import (
	"math"

	"github.com/roach88/mbqc/internal/pattern"
)

// AngleTolerance is the magnitude below which a measurement angle is
// treated as zero and its rotation omitted.
const AngleTolerance = 1e-10

// Step is one gate of a basis change.
type Step struct {
	Gate  Gate
	Angle float64
}

// Param reports whether the step is a rotation.
func (s Step) Param() bool {
	return s.Gate.Parametric()
}

// BasisChange returns the gates that rotate the measurement basis of
// (plane, angle) onto the computational basis:
//
//	XY: RZ(-angle) when nonzero, then H
//	YZ: RX(-angle) when nonzero
//	XZ: RY(+angle) when nonzero
//
// An unknown plane yields no steps.
func BasisChange(plane pattern.Plane, angle float64) []Step {
	nonzero := math.Abs(angle) > AngleTolerance

	switch plane {
	case pattern.PlaneXY:
		if nonzero {
			return []Step{{Gate: GateRZ, Angle: -angle}, {Gate: GateH}}
		}
		return []Step{{Gate: GateH}}
	case pattern.PlaneYZ:
		if nonzero {
			return []Step{{Gate: GateRX, Angle: -angle}}
		}
	case pattern.PlaneXZ:
		if nonzero {
			return []Step{{Gate: GateRY, Angle: angle}}
		}
	}
	return nil
}
