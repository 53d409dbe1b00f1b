package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgentSetBasics(t *testing.T) {
	s := NewAgentSet(Position{1, 2}, Position{3, 4}, Position{1, 2})
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Contains(Position{3, 4}))
	assert.False(t, s.Contains(Position{2, 3}))
	assert.True(t, s.Equal(NewAgentSet(Position{3, 4}, Position{1, 2})))
	assert.False(t, s.Equal(NewAgentSet(Position{3, 4})))

	var zero AgentSet
	assert.Equal(t, 0, zero.Len())
	assert.False(t, zero.Contains(Position{}))
}

func TestPositionsSortedRowMajor(t *testing.T) {
	s := NewAgentSet(Position{2, 1}, Position{0, 1}, Position{5, 0})
	assert.Equal(t, []Position{{5, 0}, {0, 1}, {2, 1}}, s.Positions())
}

func TestNeighborChecks(t *testing.T) {
	s := NewAgentSet(Position{0, 0}, Position{1, 1})
	assert.True(t, s.HasNeighbor(Position{0, 0}))
	assert.False(t, NewAgentSet(Position{0, 0}, Position{2, 0}).HasNeighbor(Position{0, 0}))

	// (1,1) sits on the south-east diagonal of (0,0).
	assert.False(t, s.SideClear(Position{0, 0}, South))
	assert.False(t, s.SideClear(Position{0, 0}, East))
	assert.True(t, s.SideClear(Position{0, 0}, North))
	assert.True(t, s.SideClear(Position{0, 0}, West))
}

func TestBoundsAndFreeTiles(t *testing.T) {
	s := NewAgentSet(Position{-1, 2}, Position{3, -2}, Position{0, 0})
	r, err := s.Bounds()
	require.NoError(t, err)
	assert.Equal(t, Rect{MinX: -1, MaxX: 3, MinY: -2, MaxY: 2}, r)
	assert.Equal(t, 25, r.Area())

	free, err := FreeTiles(s)
	require.NoError(t, err)
	assert.Equal(t, 22, free)

	single, err := FreeTiles(NewAgentSet(Position{7, 7}))
	require.NoError(t, err)
	assert.Equal(t, 0, single)
}

func TestFreeTilesEmpty(t *testing.T) {
	_, err := FreeTiles(AgentSet{})
	assert.ErrorIs(t, err, ErrEmptyAgentSet)
	_, err = NewAgentSet().Bounds()
	assert.ErrorIs(t, err, ErrEmptyAgentSet)
}

func TestPairs(t *testing.T) {
	s := NewAgentSet(Position{4, -1}, Position{0, 2})
	pairs := s.Pairs()
	assert.Equal(t, [][2]int{{4, -1}, {0, 2}}, pairs)
	assert.True(t, s.Equal(FromPairs(pairs)))
}

func TestNeighborsSurround(t *testing.T) {
	ns := Position{5, 5}.Neighbors()
	seen := map[Position]bool{}
	for _, n := range ns {
		assert.NotEqual(t, Position{5, 5}, n)
		assert.True(t, Rect{MinX: 4, MaxX: 6, MinY: 4, MaxY: 6}.Contains(n))
		seen[n] = true
	}
	assert.Len(t, seen, 8)
}
