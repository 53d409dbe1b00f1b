package grid

// Position is a grid cell. X grows rightward, Y grows downward.
type Position struct{ X, Y int }

func (p Position) Add(o Position) Position { return Position{p.X + o.X, p.Y + o.Y} }

// neighbors8 holds the unit offsets of the eight cells around a position.
var neighbors8 = [8]Position{
	{X: 0, Y: -1},  // N
	{X: 0, Y: 1},   // S
	{X: -1, Y: 0},  // W
	{X: 1, Y: 0},   // E
	{X: 1, Y: -1},  // NE
	{X: -1, Y: -1}, // NW
	{X: 1, Y: 1},   // SE
	{X: -1, Y: 1},  // SW
}

// Neighbors returns the eight cells surrounding p.
func (p Position) Neighbors() [8]Position {
	var out [8]Position
	for i, o := range neighbors8 {
		out[i] = p.Add(o)
	}
	return out
}

// Rect is an inclusive axis-aligned box.
type Rect struct {
	MinX int `json:"min_x"`
	MaxX int `json:"max_x"`
	MinY int `json:"min_y"`
	MaxY int `json:"max_y"`
}

func (r Rect) Width() int  { return r.MaxX - r.MinX + 1 }
func (r Rect) Height() int { return r.MaxY - r.MinY + 1 }
func (r Rect) Area() int   { return r.Width() * r.Height() }

func (r Rect) Contains(p Position) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}
