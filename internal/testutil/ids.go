package testutil

import "sync"

// FixedIDGenerator returns the same run id every time.
//
// The same scenario with the same FixedIDGenerator produces byte-identical
// conversion logs.
//
// Thread-safety: FixedIDGenerator is stateless and safe for concurrent use.
type FixedIDGenerator struct {
	id string
}

// NewFixedIDGenerator creates a generator that always returns id.
// If id is empty, Generate() returns "test-run-default".
func NewFixedIDGenerator(id string) *FixedIDGenerator {
	if id == "" {
		id = "test-run-default"
	}
	return &FixedIDGenerator{id: id}
}

// Generate returns the fixed id.
func (g *FixedIDGenerator) Generate() string {
	return g.id
}

// SequenceIDGenerator returns predetermined ids in order.
//
// Thread-safety: SequenceIDGenerator is safe for concurrent use via internal mutex.
type SequenceIDGenerator struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewSequenceIDGenerator creates a generator that returns ids in order.
func NewSequenceIDGenerator(ids ...string) *SequenceIDGenerator {
	return &SequenceIDGenerator{ids: ids}
}

// Generate returns the next predetermined id.
//
// Panics if all ids have been consumed, to catch a test that starts more
// runs than it expects.
func (g *SequenceIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.ids) {
		panic("SequenceIDGenerator: all ids exhausted")
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}
