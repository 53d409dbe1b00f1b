package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIsReproducible(t *testing.T) {
	a, b := New(42), New(42)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Int63(), b.Int63())
	}
	assert.Equal(t, New(1).Int63(), New(0).Int63())
}

func TestSubSeed(t *testing.T) {
	assert.Equal(t, int64(5), SubSeed(5, 0))
	assert.NotEqual(t, SubSeed(5, 1), SubSeed(5, 2))
}
