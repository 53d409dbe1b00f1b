package diffusion

import "gridspread/internal/grid"

type Event struct {
	Round   int            `json:"round"`
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload,omitempty"`
}

const (
	EventRound  = "Round"
	EventStable = "Stable"
)

// ProposalMap maps an agent's current cell to the cell it wants to enter.
// Agents that stay put have no entry.
type ProposalMap map[grid.Position]grid.Position

// RoundState is everything a round reads: the committed agents and the
// direction the priority order starts at. Round counts completed rounds.
type RoundState struct {
	Agents grid.AgentSet
	Start  grid.Direction
	Round  int
}

func NewRoundState(agents grid.AgentSet, start grid.Direction) RoundState {
	return RoundState{Agents: agents, Start: start}
}

type RoundStats struct {
	Round    int            `json:"round"`
	Start    grid.Direction `json:"start"`
	Proposed int            `json:"proposed"`
	Moved    int            `json:"moved"`
	Denied   int            `json:"denied"`
}
