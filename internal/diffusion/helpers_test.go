package diffusion

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"gridspread/internal/grid"
)

func loadGrid(t *testing.T, name string) grid.AgentSet {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("..", "..", "assets", "grids", name))
	require.NoError(t, err)
	return parseGrid(t, string(b))
}

func parseGrid(t *testing.T, text string) grid.AgentSet {
	t.Helper()
	s, err := grid.Parse(text, grid.DefaultGlyphs)
	require.NoError(t, err)
	return s
}

func pos(x, y int) grid.Position { return grid.Position{X: x, Y: y} }
