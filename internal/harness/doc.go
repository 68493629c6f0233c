// Package harness runs lowering scenarios as executable contract tests.
//
// A scenario names a pattern, a target and what the lowering must
// produce. Each scenario runs against a fresh in-memory conversion store
// with a fixed run id, so repeated runs write identical logs.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: hadamard_circuit
//	description: "H via a two-node cluster"
//	target: circuit
//	pattern:
//	  inputs: [0]
//	  outputs: [1]
//	  commands:
//	    - {kind: N, node: 1}
//	    - {kind: E, nodes: [0, 1]}
//	    - {kind: M, node: 0, plane: XY}
//	    - {kind: X, node: 1, domain: [0]}
//	expect:
//	  outputs: [1, 0]
//	  contains: ["if (m[0]) x q[1];"]
//	  golden: true
//
// Instead of an inline pattern a scenario may name a pattern_file (CUE,
// YAML or JSON, relative to the scenario) and optionally a pattern_name
// to pick one pattern from it.
//
// # Expectations
//
//   - error: the lowering fails with this error code
//   - outputs: result node order (output qubits, then measured nodes)
//   - qubits, bits: result counts
//   - warnings: audit warning codes, in order
//   - contains, absent: substrings of the rendered artifact
//   - golden: compare the rendered artifact with golden/<name>.golden
package harness
