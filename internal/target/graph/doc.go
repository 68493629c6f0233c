// Package graph lowers MBQC patterns to a dataflow graph of typed nodes
// connected by wires, in the shape of a HUGR dataflow region.
//
// Qubits are linear values: every quantum operation consumes its input
// wires and produces new output wires, and a qubit-typed port may feed at
// most one consumer. Measurement outcomes are Bool wires and may fan out.
//
// Quantum operations are custom ops in the "quantum.mbqc" extension; the
// XOR used to combine correction domains lives in the "logic" extension.
// Constant false is a Const node loaded through LoadConst.
package graph
