package grid

import (
	"errors"
	"fmt"
	"strings"
)

var ErrMalformedGrid = errors.New("malformed grid")

// Glyphs are the characters marking occupied and empty cells.
type Glyphs struct {
	Occupied rune
	Empty    rune
}

var DefaultGlyphs = Glyphs{Occupied: '#', Empty: '.'}

func (g Glyphs) validate() error {
	if g.Occupied == g.Empty {
		return fmt.Errorf("%w: occupied and empty glyph are both %q", ErrMalformedGrid, g.Occupied)
	}
	if g.Occupied == '\n' || g.Empty == '\n' {
		return fmt.Errorf("%w: newline cannot be a glyph", ErrMalformedGrid)
	}
	return nil
}

// Parse reads a rectangular text grid. Row i becomes Y=i and column j
// becomes X=j. A single trailing newline and CRLF line endings are accepted.
func Parse(text string, g Glyphs) (AgentSet, error) {
	if err := g.validate(); err != nil {
		return AgentSet{}, err
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	cells := map[Position]struct{}{}
	if text == "" {
		return FromCells(cells), nil
	}

	width := -1
	for y, line := range strings.Split(text, "\n") {
		row := []rune(line)
		if width < 0 {
			width = len(row)
		} else if len(row) != width {
			return AgentSet{}, fmt.Errorf("%w: row %d has %d cells, want %d", ErrMalformedGrid, y, len(row), width)
		}
		for x, c := range row {
			switch c {
			case g.Occupied:
				cells[Position{X: x, Y: y}] = struct{}{}
			case g.Empty:
			default:
				return AgentSet{}, fmt.Errorf("%w: unexpected %q at row %d col %d", ErrMalformedGrid, c, y, x)
			}
		}
	}
	return FromCells(cells), nil
}

// Format draws the bounding box of s, one line per row, without a trailing newline.
func Format(s AgentSet, g Glyphs) (string, error) {
	r, err := s.Bounds()
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for y := r.MinY; y <= r.MaxY; y++ {
		if y > r.MinY {
			b.WriteByte('\n')
		}
		for x := r.MinX; x <= r.MaxX; x++ {
			if s.Contains(Position{X: x, Y: y}) {
				b.WriteRune(g.Occupied)
			} else {
				b.WriteRune(g.Empty)
			}
		}
	}
	return b.String(), nil
}
