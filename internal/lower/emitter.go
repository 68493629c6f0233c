package lower

// Emitter is the capability set a target provides to the driver.
//
// Q is the target's qubit handle, C its classical handle and R the final
// representation. Every method that takes a qubit handle consumes it and
// returns the handle that replaces it; the driver never reuses a consumed
// handle. Emitters are single-use and not safe for concurrent use.
type Emitter[Q, C, R any] interface {
	// Allocate creates n input qubits and returns their handles in slot order.
	Allocate(n int) []Q

	// PrepareAncilla creates a fresh qubit in the |+> state.
	PrepareAncilla() Q

	// ApplyUnary applies a fixed single-qubit gate.
	ApplyUnary(g Gate, q Q) Q

	// ApplyUnaryParam applies a rotation gate by angle radians.
	ApplyUnaryParam(g Gate, angle float64, q Q) Q

	// ApplyBinarySymmetric applies a symmetric two-qubit gate (CZ).
	ApplyBinarySymmetric(g Gate, a, b Q) (Q, Q)

	// Measure measures q in the Z basis, consuming it.
	Measure(q Q) C

	// Xor combines two classical values.
	Xor(a, b C) C

	// ApplyConditionalUnary applies g to q when cond is true.
	ApplyConditionalUnary(g Gate, cond C, q Q) Q

	// ConstantFalse returns a classical value that is always false.
	ConstantFalse() C

	// Finalize closes the representation over the ordered outputs.
	Finalize(out Outputs[Q, C]) (R, error)
}

// Outputs is the ordered result handed to Finalize: qubits of the output
// nodes in ascending id order, then outcomes of measured nodes in ascending
// id order.
type Outputs[Q, C any] struct {
	Qubits []Q
	Bits   []C

	// QubitNodes and BitNodes carry the node id of each handle.
	QubitNodes []int
	BitNodes   []int
}

// Len returns the total number of result handles.
func (o Outputs[Q, C]) Len() int {
	return len(o.Qubits) + len(o.Bits)
}
