package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gridspread/internal/diffusion"
	"gridspread/internal/grid"
)

var (
	Agent  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("226")) // Bright yellow
	Empty  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	Title  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("82"))
	Footer = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	Frame  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("204")).Padding(0, 1)
)

// Grid draws the bounding box of agents with styled glyphs.
func Grid(agents grid.AgentSet, g grid.Glyphs) (string, error) {
	r, err := agents.Bounds()
	if err != nil {
		return "", err
	}
	occ := Agent.Render(string(g.Occupied))
	empty := Empty.Render(string(g.Empty))

	rows := make([]string, 0, r.Height())
	var b strings.Builder
	for y := r.MinY; y <= r.MaxY; y++ {
		b.Reset()
		for x := r.MinX; x <= r.MaxX; x++ {
			if agents.Contains(grid.Position{X: x, Y: y}) {
				b.WriteString(occ)
			} else {
				b.WriteString(empty)
			}
		}
		rows = append(rows, b.String())
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...), nil
}

// Result renders the final grid of a run framed with its title and a
// summary footer.
func Result(res diffusion.SimResult, agents grid.AgentSet, g grid.Glyphs) (string, error) {
	body, err := Grid(agents, g)
	if err != nil {
		return "", err
	}
	title := res.Name
	if title == "" {
		title = "result"
	}
	footer := fmt.Sprintf("%d agents · %d rounds · %d free tiles", res.Agents, res.Rounds, res.FreeTiles)
	if res.StableRound > 0 {
		footer += fmt.Sprintf(" · stable at %d", res.StableRound)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		Title.Render(title),
		Frame.Render(body),
		Footer.Render(footer),
	), nil
}
