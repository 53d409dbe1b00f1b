package grid

import (
	"errors"
	"sort"
)

var ErrEmptyAgentSet = errors.New("empty agent set")

// AgentSet is an immutable set of occupied cells, one per agent.
// The zero value is an empty set.
type AgentSet struct {
	cells map[Position]struct{}
}

// NewAgentSet builds a set from positions; duplicates collapse.
func NewAgentSet(ps ...Position) AgentSet {
	cells := make(map[Position]struct{}, len(ps))
	for _, p := range ps {
		cells[p] = struct{}{}
	}
	return AgentSet{cells: cells}
}

// FromCells wraps cells without copying. The caller gives up ownership.
func FromCells(cells map[Position]struct{}) AgentSet { return AgentSet{cells: cells} }

func (s AgentSet) Len() int { return len(s.cells) }

func (s AgentSet) Contains(p Position) bool {
	_, ok := s.cells[p]
	return ok
}

// Each calls fn for every agent in unspecified order.
func (s AgentSet) Each(fn func(Position)) {
	for p := range s.cells {
		fn(p)
	}
}

// Positions returns the agents sorted by row, then column.
func (s AgentSet) Positions() []Position {
	out := make([]Position, 0, len(s.cells))
	for p := range s.cells {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

// HasNeighbor reports whether any of the eight cells around p is occupied.
func (s AgentSet) HasNeighbor(p Position) bool {
	for _, o := range neighbors8 {
		if s.Contains(p.Add(o)) {
			return true
		}
	}
	return false
}

// SideClear reports whether the three-cell neighborhood of p toward d is empty.
func (s AgentSet) SideClear(p Position, d Direction) bool {
	for _, o := range d.Side() {
		if s.Contains(p.Add(o)) {
			return false
		}
	}
	return true
}

func (s AgentSet) Equal(o AgentSet) bool {
	if s.Len() != o.Len() {
		return false
	}
	for p := range s.cells {
		if !o.Contains(p) {
			return false
		}
	}
	return true
}

// Bounds is the smallest Rect containing every agent.
func (s AgentSet) Bounds() (Rect, error) {
	if len(s.cells) == 0 {
		return Rect{}, ErrEmptyAgentSet
	}
	first := true
	var r Rect
	for p := range s.cells {
		if first {
			r = Rect{MinX: p.X, MaxX: p.X, MinY: p.Y, MaxY: p.Y}
			first = false
			continue
		}
		r.MinX = min(r.MinX, p.X)
		r.MaxX = max(r.MaxX, p.X)
		r.MinY = min(r.MinY, p.Y)
		r.MaxY = max(r.MaxY, p.Y)
	}
	return r, nil
}

// FreeTiles counts empty cells inside the bounding box of s.
func FreeTiles(s AgentSet) (int, error) {
	r, err := s.Bounds()
	if err != nil {
		return 0, err
	}
	return r.Area() - s.Len(), nil
}

// Pairs returns Positions() as [x, y] pairs, the wire shape used in JSON
// and snapshots.
func (s AgentSet) Pairs() [][2]int {
	ps := s.Positions()
	out := make([][2]int, len(ps))
	for i, p := range ps {
		out[i] = [2]int{p.X, p.Y}
	}
	return out
}

func FromPairs(pairs [][2]int) AgentSet {
	cells := make(map[Position]struct{}, len(pairs))
	for _, xy := range pairs {
		cells[Position{X: xy[0], Y: xy[1]}] = struct{}{}
	}
	return FromCells(cells)
}
