package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixedIDGenerator_ReturnsSameID(t *testing.T) {
	gen := NewFixedIDGenerator("run-123")
	assert.Equal(t, "run-123", gen.Generate())
	assert.Equal(t, "run-123", gen.Generate())
}

func TestFixedIDGenerator_EmptyIDDefault(t *testing.T) {
	assert.Equal(t, "test-run-default", NewFixedIDGenerator("").Generate())
}

func TestSequenceIDGenerator(t *testing.T) {
	gen := NewSequenceIDGenerator("a", "b")
	assert.Equal(t, "a", gen.Generate())
	assert.Equal(t, "b", gen.Generate())
	assert.Panics(t, func() { gen.Generate() })
}

func TestSequenceIDGenerator_ThreadSafe(t *testing.T) {
	ids := make([]string, 100)
	for i := range ids {
		ids[i] = "id"
	}
	gen := NewSequenceIDGenerator(ids...)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				gen.Generate()
			}
		}()
	}
	wg.Wait()
	assert.Panics(t, func() { gen.Generate() })
}

func TestFixtures(t *testing.T) {
	assert.Equal(t, "hadamard", Hadamard().Name)
	assert.Len(t, Chain(0.5).Commands, 8)
	assert.Equal(t, []int{0}, Unprepared().Outputs)
}
