package diffusion

import (
	"errors"
	"io"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"gridspread/internal/grid"
)

var ErrNotStable = errors.New("agents still moving after max rounds")

// Below this many agents the proposal phase stays on one goroutine.
const minParallelAgents = 256

// Engine advances a RoundState. It holds no simulation state of its own,
// so one Engine can drive any number of independent runs.
type Engine struct {
	Workers int
	Log     logrus.FieldLogger
	Emit    func(Event)

	// Frames adds the committed agent pairs to every Round event.
	Frames bool
}

var discard = func() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}()

// NewEngine fills in a discard logger and a no-op emit when given nil.
func NewEngine(workers int, log logrus.FieldLogger, emit func(Event)) *Engine {
	if log == nil {
		log = discard
	}
	if emit == nil {
		emit = func(Event) {}
	}
	if workers < 1 {
		workers = 1
	}
	return &Engine{Workers: workers, Log: log, Emit: emit}
}

// Step runs one round: propose everything, then commit, then rotate the
// start direction whether or not anything moved.
func (e *Engine) Step(st RoundState) (RoundState, RoundStats) {
	proposals := e.propose(st.Agents, grid.PriorityOrder(st.Start))
	agents, cs := Commit(st.Agents, proposals)

	stats := RoundStats{
		Round:    st.Round + 1,
		Start:    st.Start,
		Proposed: len(proposals),
		Moved:    cs.Moved,
		Denied:   cs.Denied,
	}
	next := RoundState{Agents: agents, Start: st.Start.Next(), Round: st.Round + 1}

	e.logger().WithFields(logrus.Fields{
		"round":    stats.Round,
		"start":    stats.Start.String(),
		"proposed": stats.Proposed,
		"moved":    stats.Moved,
		"denied":   stats.Denied,
	}).Debug("round committed")

	payload := map[string]any{
		"start":    stats.Start.String(),
		"next":     next.Start.String(),
		"proposed": stats.Proposed,
		"moved":    stats.Moved,
		"denied":   stats.Denied,
	}
	if e.Frames {
		payload["agents"] = agents.Pairs()
	}
	e.emit(Event{Round: stats.Round, Type: EventRound, Payload: payload})
	return next, stats
}

// Run executes exactly rounds rounds.
func (e *Engine) Run(st RoundState, rounds int) RoundState {
	for i := 0; i < rounds; i++ {
		st, _ = e.Step(st)
	}
	return st
}

// RunUntilStable steps until a round in which no agent moves and returns
// that round's 1-based number. The returned state includes that round.
func (e *Engine) RunUntilStable(st RoundState, maxRounds int) (RoundState, int, error) {
	for i := 0; i < maxRounds; i++ {
		var stats RoundStats
		st, stats = e.Step(st)
		if stats.Moved == 0 {
			e.emit(Event{Round: stats.Round, Type: EventStable})
			return st, stats.Round, nil
		}
	}
	return st, 0, ErrNotStable
}

func (e *Engine) emit(ev Event) {
	if e.Emit != nil {
		e.Emit(ev)
	}
}

func (e *Engine) logger() logrus.FieldLogger {
	if e.Log == nil {
		return discard
	}
	return e.Log
}

func (e *Engine) propose(agents grid.AgentSet, order [4]grid.Direction) ProposalMap {
	if e.Workers <= 1 || agents.Len() < minParallelAgents {
		return Propose(agents, order)
	}

	ps := agents.Positions()
	chunk := (len(ps) + e.Workers - 1) / e.Workers
	parts := make([]ProposalMap, (len(ps)+chunk-1)/chunk)

	var g errgroup.Group
	for i := range parts {
		i := i
		lo := i * chunk
		hi := min(lo+chunk, len(ps))
		g.Go(func() error {
			parts[i] = proposeFor(agents, ps[lo:hi], order)
			return nil
		})
	}
	// Barrier: every proposal is in before anything is committed.
	_ = g.Wait()

	out := make(ProposalMap, len(ps))
	for _, part := range parts {
		for src, dst := range part {
			out[src] = dst
		}
	}
	return out
}
