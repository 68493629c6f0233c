// Package lower implements the single-pass lowering driver that turns an
// MBQC command stream into a target representation.
//
// The driver interprets the pattern left to right, keeping a binding
// environment from node ids to the current live qubit handle and to the
// classical handle of each measurement outcome. Every emitting operation
// returns a fresh handle which replaces the previous binding, so targets
// with linear (use-once) qubit values are served by the same algorithm as
// targets with named, mutable qubits.
//
// # Targets
//
// A target plugs in by implementing Emitter. The driver never inspects
// handles; it only threads them between emitter calls:
//
//	out, err := lower.Convert(p, program.NewEmitter("quantum_circuit"))
//
// # Semantics
//
//   - Inputs are bound to allocated slots in ascending id order
//   - Measurement applies a plane-dependent basis change, then a Z-basis
//     measurement (see BasisChange)
//   - Corrections are conditioned on the XOR of the domain outcomes; an
//     empty domain applies the Pauli unconditionally
//   - Clifford commands expand through a fixed 24-entry table (see Decompose)
//   - Commands on ids that are not live are silently skipped
//   - The result lists output qubits ascending, then measured outcomes
//     ascending; an ancilla that was never measured yields ConstantFalse
//
// Structural problems (dangling outputs, unknown command variants, an
// exhausted command budget) abort the pass with an *Error and no partial
// result.
package lower
