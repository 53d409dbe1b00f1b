package diffusion

import (
	"encoding/json"
	"fmt"

	"gridspread/internal/grid"
)

type SimInput struct {
	Name        string
	Agents      grid.AgentSet
	Start       grid.Direction
	Rounds      int
	UntilStable bool
	MaxRounds   int
}

type SimResult struct {
	Name        string         `json:"name,omitempty"`
	Agents      int            `json:"agents"`
	Rounds      int            `json:"rounds"`
	Start       grid.Direction `json:"start_direction"`
	NextStart   grid.Direction `json:"next_start_direction"`
	StableRound int            `json:"stable_round,omitempty"`
	FreeTiles   int            `json:"free_tiles"`
	Bounds      grid.Rect      `json:"bounds"`
	Moved       int            `json:"moved_total"`
	Denied      int            `json:"denied_total"`
	Final       [][2]int       `json:"final,omitempty"`
	PerRound    []RoundStats   `json:"per_round,omitempty"`
	Events      []Event        `json:"events,omitempty"`
}

// RunSingle drives one simulation to completion and summarizes it. With
// record set, per-round stats, emitted events and final positions are kept
// in the result. The engine's own Emit still sees every event.
func RunSingle(e *Engine, in SimInput, record bool) (SimResult, RoundState, error) {
	if in.Agents.Len() == 0 {
		return SimResult{}, RoundState{}, fmt.Errorf("%s: %w", in.Name, grid.ErrEmptyAgentSet)
	}

	var (
		events   []Event
		perRound []RoundStats
		moved    int
		denied   int
	)
	eng := *e
	eng.Emit = func(ev Event) {
		if record {
			events = append(events, ev)
		}
		e.emit(ev)
	}

	st := NewRoundState(in.Agents, in.Start)
	res := SimResult{Name: in.Name, Agents: in.Agents.Len(), Start: in.Start}

	step := func() RoundStats {
		var stats RoundStats
		st, stats = eng.Step(st)
		moved += stats.Moved
		denied += stats.Denied
		if record {
			perRound = append(perRound, stats)
		}
		return stats
	}

	if in.UntilStable {
		for st.Round < in.MaxRounds {
			if stats := step(); stats.Moved == 0 {
				res.StableRound = stats.Round
				eng.Emit(Event{Round: stats.Round, Type: EventStable})
				break
			}
		}
		if res.StableRound == 0 {
			return res, st, fmt.Errorf("%s: %w (%d)", in.Name, ErrNotStable, in.MaxRounds)
		}
	} else {
		for st.Round < in.Rounds {
			step()
		}
	}

	bounds, err := st.Agents.Bounds()
	if err != nil {
		return res, st, err
	}
	res.Rounds = st.Round
	res.NextStart = st.Start
	res.Bounds = bounds
	res.FreeTiles = bounds.Area() - st.Agents.Len()
	res.Moved = moved
	res.Denied = denied
	if record {
		res.Final = st.Agents.Pairs()
		res.PerRound = perRound
		res.Events = events
	}
	return res, st, nil
}

func MarshalPretty(v any) []byte {
	b, _ := json.MarshalIndent(v, "", "  ")
	return b
}
