package render

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridspread/internal/diffusion"
	"gridspread/internal/grid"
)

func TestGridKeepsShape(t *testing.T) {
	agents, err := grid.Parse("#...\n..#.\n...#", grid.DefaultGlyphs)
	require.NoError(t, err)

	out, err := Grid(agents, grid.DefaultGlyphs)
	require.NoError(t, err)
	assert.Equal(t, 4, lipgloss.Width(out))
	assert.Equal(t, 3, lipgloss.Height(out))
	assert.Equal(t, 3, strings.Count(out, "#"))
}

func TestGridEmpty(t *testing.T) {
	_, err := Grid(grid.AgentSet{}, grid.DefaultGlyphs)
	assert.ErrorIs(t, err, grid.ErrEmptyAgentSet)
}

func TestResultFooter(t *testing.T) {
	agents := grid.NewAgentSet(grid.Position{X: 0, Y: 0}, grid.Position{X: 2, Y: 1})
	res := diffusion.SimResult{Name: "tiny", Agents: 2, Rounds: 4, FreeTiles: 4, StableRound: 4}
	out, err := Result(res, agents, grid.DefaultGlyphs)
	require.NoError(t, err)
	assert.Contains(t, out, "tiny")
	assert.Contains(t, out, "4 free tiles")
	assert.Contains(t, out, "stable at 4")
}
