package diffusion

import "gridspread/internal/grid"

// Propose runs the first phase of a round over a committed snapshot.
// An agent with no occupied neighbor stays; otherwise it heads for the
// first direction in order whose side is clear, or stays if none is.
func Propose(agents grid.AgentSet, order [4]grid.Direction) ProposalMap {
	out := ProposalMap{}
	agents.Each(func(p grid.Position) {
		if dst, ok := proposal(agents, p, order); ok {
			out[p] = dst
		}
	})
	return out
}

func proposeFor(agents grid.AgentSet, ps []grid.Position, order [4]grid.Direction) ProposalMap {
	out := make(ProposalMap, len(ps))
	for _, p := range ps {
		if dst, ok := proposal(agents, p, order); ok {
			out[p] = dst
		}
	}
	return out
}

func proposal(agents grid.AgentSet, p grid.Position, order [4]grid.Direction) (grid.Position, bool) {
	if !agents.HasNeighbor(p) {
		return p, false
	}
	for _, d := range order {
		if agents.SideClear(p, d) {
			return p.Add(d.Offset()), true
		}
	}
	return p, false
}
