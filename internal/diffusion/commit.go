package diffusion

import "gridspread/internal/grid"

type CommitStats struct {
	Moved  int
	Denied int
}

// Commit applies proposals to agents and returns a new set. A destination
// claimed by exactly one agent is granted; a contested destination sends
// every claimant back to its own cell. Proposals from cells that hold no
// agent are ignored.
func Commit(agents grid.AgentSet, proposals ProposalMap) (grid.AgentSet, CommitStats) {
	claims := make(map[grid.Position]int, len(proposals))
	for src, dst := range proposals {
		if agents.Contains(src) {
			claims[dst]++
		}
	}

	var st CommitStats
	next := make(map[grid.Position]struct{}, agents.Len())
	agents.Each(func(p grid.Position) {
		dst, ok := proposals[p]
		switch {
		case !ok:
			next[p] = struct{}{}
		case claims[dst] == 1:
			next[dst] = struct{}{}
			st.Moved++
		default:
			next[p] = struct{}{}
			st.Denied++
		}
	})
	return grid.FromCells(next), st
}
