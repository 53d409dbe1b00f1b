package diffusion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridspread/internal/grid"
	"gridspread/internal/util"
)

func TestRoundInvariantsOnScatteredGrids(t *testing.T) {
	eng := NewEngine(1, nil, nil)
	for seed := int64(1); seed <= 20; seed++ {
		agents := grid.Scatter(util.New(seed), 16, 12, 0.35)
		start := grid.Direction(seed % 4)
		st := NewRoundState(agents, start)
		for r := 0; r < 12; r++ {
			prev := st
			var stats RoundStats
			st, stats = eng.Step(st)

			// Conservation. AgentSet is a set, so an unchanged count also
			// rules out two agents landing on one cell.
			require.Equal(t, agents.Len(), st.Agents.Len(), "seed=%d round=%d", seed, r+1)
			assert.Equal(t, stats.Proposed, stats.Moved+stats.Denied)

			// Agents with no neighbor never move.
			prev.Agents.Each(func(p grid.Position) {
				if !prev.Agents.HasNeighbor(p) {
					assert.True(t, st.Agents.Contains(p), "isolated %v moved", p)
				}
			})
		}
	}
}

func TestDeterminism(t *testing.T) {
	agents := grid.Scatter(util.New(99), 30, 30, 0.4)
	a := NewEngine(1, nil, nil).Run(NewRoundState(agents, grid.West), 15)
	b := NewEngine(1, nil, nil).Run(NewRoundState(agents, grid.West), 15)
	assert.True(t, a.Agents.Equal(b.Agents))
	assert.Equal(t, a.Start, b.Start)
}

func TestParallelProposalsMatchSequential(t *testing.T) {
	agents := grid.Scatter(util.New(7), 64, 64, 0.3)
	require.Greater(t, agents.Len(), minParallelAgents)

	seq := NewEngine(1, nil, nil)
	par := NewEngine(4, nil, nil)
	order := grid.PriorityOrder(grid.East)
	assert.Equal(t, Propose(agents, order), par.propose(agents, order))

	a := seq.Run(NewRoundState(agents, grid.North), 8)
	b := par.Run(NewRoundState(agents, grid.North), 8)
	assert.True(t, a.Agents.Equal(b.Agents))
}
