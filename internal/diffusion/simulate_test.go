package diffusion

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridspread/internal/grid"
)

func TestRunSingleFixedRounds(t *testing.T) {
	var seen int
	eng := NewEngine(1, nil, func(Event) { seen++ })
	res, st, err := RunSingle(eng, SimInput{
		Name:   "reference",
		Agents: loadGrid(t, "reference.txt"),
		Start:  grid.North,
		Rounds: 10,
	}, true)
	require.NoError(t, err)

	assert.Equal(t, 110, res.FreeTiles)
	assert.Equal(t, 22, res.Agents)
	assert.Equal(t, 10, res.Rounds)
	assert.Equal(t, grid.North, res.Start)
	assert.Equal(t, grid.West, res.NextStart)
	assert.Equal(t, 0, res.StableRound)
	assert.Len(t, res.PerRound, 10)
	assert.Len(t, res.Events, 10)
	assert.Equal(t, 10, seen)
	assert.Len(t, res.Final, 22)
	assert.Equal(t, res.Bounds.Area()-22, res.FreeTiles)
	assert.True(t, st.Agents.Equal(grid.FromPairs(res.Final)))

	moved := 0
	for _, r := range res.PerRound {
		moved += r.Moved
	}
	assert.Equal(t, moved, res.Moved)
}

func TestRunSingleUntilStable(t *testing.T) {
	res, _, err := RunSingle(NewEngine(1, nil, nil), SimInput{
		Agents:      loadGrid(t, "reference.txt"),
		UntilStable: true,
		MaxRounds:   1000,
	}, false)
	require.NoError(t, err)
	assert.Equal(t, 20, res.StableRound)
	assert.Equal(t, 20, res.Rounds)
	assert.Nil(t, res.Events)
	assert.Nil(t, res.Final)

	_, _, err = RunSingle(NewEngine(1, nil, nil), SimInput{
		Agents:      loadGrid(t, "reference.txt"),
		UntilStable: true,
		MaxRounds:   3,
	}, false)
	assert.ErrorIs(t, err, ErrNotStable)
}

func TestRunSingleRejectsEmpty(t *testing.T) {
	_, _, err := RunSingle(NewEngine(1, nil, nil), SimInput{Name: "blank", Rounds: 10}, false)
	assert.ErrorIs(t, err, grid.ErrEmptyAgentSet)
}

func TestMarshalPretty(t *testing.T) {
	res, _, err := RunSingle(NewEngine(1, nil, nil), SimInput{
		Agents: loadGrid(t, "small.txt"),
		Rounds: 3,
	}, false)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(MarshalPretty(res), &out))
	assert.Equal(t, "north", out["start_direction"])
	assert.Equal(t, "east", out["next_start_direction"])
	assert.EqualValues(t, 25, out["free_tiles"])
}
