// Package circuit lowers MBQC patterns to a gate-level circuit whose
// corrections use native classical conditions, in the style of a pytket
// Circuit.
//
// Qubits live in register q and measurement outcomes in register m. Input
// qubits take the first cells of q in slot order; each preparation takes
// the next free cell and applies H. A correction carries a Condition, the
// XOR of one or more bits of m, and fires when the parity is odd.
//
// Circuit.QASM renders the result as OpenQASM 3.
package circuit
