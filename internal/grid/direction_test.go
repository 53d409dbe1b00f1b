package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuccessorCycle(t *testing.T) {
	assert.Equal(t, South, Successor(North))
	assert.Equal(t, West, Successor(South))
	assert.Equal(t, East, Successor(West))
	assert.Equal(t, North, Successor(East))
}

func TestPriorityOrder(t *testing.T) {
	assert.Equal(t, [4]Direction{North, South, West, East}, PriorityOrder(North))
	assert.Equal(t, [4]Direction{West, East, North, South}, PriorityOrder(West))
	assert.Equal(t, [4]Direction{East, North, South, West}, PriorityOrder(East))
}

func TestRotateMatchesRepeatedSuccessor(t *testing.T) {
	for _, start := range []Direction{North, South, West, East} {
		d := start
		for k := 0; k < 9; k++ {
			assert.Equal(t, d, start.Rotate(k), "start=%v k=%d", start, k)
			d = Successor(d)
		}
	}
	assert.Equal(t, East, North.Rotate(-1))
}

func TestSideNeighborhood(t *testing.T) {
	assert.ElementsMatch(t, []Position{{-1, -1}, {0, -1}, {1, -1}}, North.Side())
	assert.ElementsMatch(t, []Position{{-1, 1}, {0, 1}, {1, 1}}, South.Side())
	assert.ElementsMatch(t, []Position{{-1, -1}, {-1, 0}, {-1, 1}}, West.Side())
	assert.ElementsMatch(t, []Position{{1, -1}, {1, 0}, {1, 1}}, East.Side())
	for _, d := range PriorityOrder(North) {
		assert.Contains(t, d.Side(), d.Offset())
	}
}

func TestParseDirection(t *testing.T) {
	for in, want := range map[string]Direction{"north": North, "S": South, " West ": West, "e": East} {
		got, err := ParseDirection(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseDirection("up")
	assert.Error(t, err)

	var d Direction
	require.NoError(t, d.UnmarshalText([]byte("east")))
	assert.Equal(t, East, d)
	b, _ := West.MarshalText()
	assert.Equal(t, "west", string(b))
}
