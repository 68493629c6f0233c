// Package program lowers MBQC patterns to the source of a Guppy function.
//
// Qubits are named variables rebound after every gate (q = h(q)), so the
// handle of a qubit is its variable name. Classical handles are boolean
// expressions: a measurement variable, an XOR of such variables, or False.
// Conditional corrections become if blocks:
//
//	m_3 = measure(q_in_0)
//	if m_1 ^ m_3:
//	    q_2 = x(q_2)
//
// Input qubits are the function parameters q_in_0, q_in_1, ... and the
// function returns the output qubits followed by the measurement outcomes.
package program
