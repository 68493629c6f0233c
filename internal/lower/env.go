package lower

import "slices"

// Env is the binding environment of one lowering pass.
//
// A node id is live while it has a qubit binding. Measuring a node moves it
// from the qubit map to the classical map; ids are never rebound to a qubit
// after measurement by the driver.
type Env[Q, C any] struct {
	qubits   map[int]Q
	bits     map[int]C
	prepared []int
}

// NewEnv creates an empty environment.
func NewEnv[Q, C any]() *Env[Q, C] {
	return &Env[Q, C]{
		qubits: make(map[int]Q),
		bits:   make(map[int]C),
	}
}

// Bind sets the live qubit handle for id, replacing any previous one.
func (e *Env[Q, C]) Bind(id int, q Q) {
	e.qubits[id] = q
}

// Prepare binds id and records it in preparation order.
func (e *Env[Q, C]) Prepare(id int, q Q) {
	e.qubits[id] = q
	e.prepared = append(e.prepared, id)
}

// Qubit returns the live handle for id.
func (e *Env[Q, C]) Qubit(id int) (Q, bool) {
	q, ok := e.qubits[id]
	return q, ok
}

// Live reports whether id has a live qubit.
func (e *Env[Q, C]) Live(id int) bool {
	_, ok := e.qubits[id]
	return ok
}

// Consume removes the qubit binding of id and records its outcome.
func (e *Env[Q, C]) Consume(id int, c C) {
	delete(e.qubits, id)
	e.bits[id] = c
}

// Bit returns the classical handle recorded for id.
func (e *Env[Q, C]) Bit(id int) (C, bool) {
	c, ok := e.bits[id]
	return c, ok
}

// PreparationOrder returns the ids prepared so far, in command order.
func (e *Env[Q, C]) PreparationOrder() []int {
	return slices.Clone(e.prepared)
}

// LiveIDs returns the ids with a live qubit in ascending order.
func (e *Env[Q, C]) LiveIDs() []int {
	ids := make([]int, 0, len(e.qubits))
	for id := range e.qubits {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
