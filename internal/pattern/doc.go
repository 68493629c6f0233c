// Package pattern provides the command stream model for measurement-based
// quantum computation (MBQC) patterns.
//
// A pattern is an ordered list of commands over integer node ids together
// with the ids of its input and output nodes:
//
//   - N (Prepare): allocate a node in the |+> state
//   - E (Entangle): apply CZ between two nodes
//   - M (Measure): measure a node in a plane (XY, YZ, XZ) at an angle
//   - X / Z (Correction): Pauli correction conditioned on a domain parity
//   - C (Clifford): apply a single-qubit Clifford by table index
//
// This package contains the data model only. All other internal packages
// import pattern; pattern imports nothing internal.
//
// Key design constraints:
//   - Angles are carried as radians and never reinterpreted
//   - Content identity uses canonical JSON (RFC 8785 key order, NFC strings)
//     with floats encoded as their shortest round-trip decimal string
//   - All JSON and YAML tags use snake_case
package pattern
