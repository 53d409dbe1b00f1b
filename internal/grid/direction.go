package grid

import (
	"fmt"
	"strings"
)

// Direction is one of the four cardinal directions, in cycle order.
type Direction int

const (
	North Direction = iota
	South
	West
	East
)

var directionNames = [...]string{"north", "south", "west", "east"}

func (d Direction) String() string {
	if d < North || d > East {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionNames[d]
}

// ParseDirection accepts the lowercase name or its first letter, case-insensitively.
func ParseDirection(s string) (Direction, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range directionNames {
		if s == name || s == name[:1] {
			return Direction(i), nil
		}
	}
	return North, fmt.Errorf("unknown direction %q", s)
}

func (d Direction) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Direction) UnmarshalText(b []byte) error {
	v, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Next is the successor in the cycle North→South→West→East→North.
func (d Direction) Next() Direction { return (d + 1) % 4 }

func Successor(d Direction) Direction { return d.Next() }

// Rotate advances d by k successor steps.
func (d Direction) Rotate(k int) Direction {
	k %= 4
	if k < 0 {
		k += 4
	}
	return (d + Direction(k)) % 4
}

// PriorityOrder lists the four directions to check in a round that starts at start.
func PriorityOrder(start Direction) [4]Direction {
	return [4]Direction{start, start.Rotate(1), start.Rotate(2), start.Rotate(3)}
}

func (d Direction) Offset() Position {
	switch d {
	case North:
		return Position{X: 0, Y: -1}
	case South:
		return Position{X: 0, Y: 1}
	case West:
		return Position{X: -1, Y: 0}
	default:
		return Position{X: 1, Y: 0}
	}
}

// Side returns the three offsets an agent must find empty before stepping
// toward d: the cell at Offset() and the two diagonals flanking it.
func (d Direction) Side() [3]Position {
	o := d.Offset()
	if o.Y != 0 {
		return [3]Position{{X: -1, Y: o.Y}, o, {X: 1, Y: o.Y}}
	}
	return [3]Position{{X: o.X, Y: -1}, o, {X: o.X, Y: 1}}
}
