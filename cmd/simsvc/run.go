package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"gridspread/internal/config"
	"gridspread/internal/diffusion"
	"gridspread/internal/grid"
	"gridspread/internal/indexdb"
	"gridspread/internal/snapshot"
	"gridspread/internal/util"
)

type input struct {
	name string
	text []byte
}

func readInput(path string) (input, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return input{}, err
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return input{name: name, text: b}, nil
}

// generateInput renders a scattered grid of the form "WxH" as text so it
// goes through the same parse/snapshot/index path as a file.
func generateInput(spec string, density float64, seed int64, g grid.Glyphs) (input, error) {
	w, h, ok := strings.Cut(strings.ToLower(spec), "x")
	if !ok {
		return input{}, fmt.Errorf("bad -gen %q, want WxH", spec)
	}
	width, err := strconv.Atoi(w)
	if err != nil || width < 1 {
		return input{}, fmt.Errorf("bad -gen width %q", w)
	}
	height, err := strconv.Atoi(h)
	if err != nil || height < 1 {
		return input{}, fmt.Errorf("bad -gen height %q", h)
	}
	agents := grid.Scatter(util.New(seed), width, height, density)

	var b strings.Builder
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if agents.Contains(grid.Position{X: x, Y: y}) {
				b.WriteRune(g.Occupied)
			} else {
				b.WriteRune(g.Empty)
			}
		}
		b.WriteByte('\n')
	}
	return input{name: fmt.Sprintf("gen-%s-%d", spec, seed), text: []byte(b.String())}, nil
}

type runner struct {
	cfg    config.SimConfig
	glyphs grid.Glyphs
	log    logrus.FieldLogger
	idx    *indexdb.SQLiteIndex
}

func (r *runner) close() {
	if r.idx != nil {
		_ = r.idx.Close()
	}
}

// run parses one input, simulates it and persists whatever the config
// asks for. emit may be nil.
func (r *runner) run(ctx context.Context, in input, emit func(diffusion.Event), record bool) (diffusion.SimResult, grid.AgentSet, error) {
	log := r.log.WithField("grid", in.name)
	agents, err := grid.Parse(string(in.text), r.glyphs)
	if err != nil {
		return diffusion.SimResult{}, grid.AgentSet{}, fmt.Errorf("%s: %w", in.name, err)
	}
	log.WithField("agents", agents.Len()).Info("grid loaded")

	var initialPath, finalPath string
	if r.cfg.SnapshotDir != "" {
		initialPath = snapshot.Path(r.cfg.SnapshotDir, in.name, snapshot.KindInitial)
		if err := snapshot.WriteSnapshot(initialPath, snapshot.New(in.name, snapshot.KindInitial, 0, r.cfg.StartDirection, agents)); err != nil {
			return diffusion.SimResult{}, grid.AgentSet{}, fmt.Errorf("%s: initial snapshot: %w", in.name, err)
		}
	}

	eng := diffusion.NewEngine(r.cfg.Workers, log, emit)
	eng.Frames = emit != nil
	res, st, err := diffusion.RunSingle(eng, diffusion.SimInput{
		Name:        in.name,
		Agents:      agents,
		Start:       r.cfg.StartDirection,
		Rounds:      r.cfg.Rounds,
		UntilStable: r.cfg.UntilStable,
		MaxRounds:   r.cfg.MaxRounds,
	}, record)
	if err != nil {
		return res, st.Agents, err
	}

	if r.cfg.SnapshotDir != "" {
		finalPath = snapshot.Path(r.cfg.SnapshotDir, in.name, snapshot.KindFinal)
		if err := snapshot.WriteSnapshot(finalPath, snapshot.New(in.name, snapshot.KindFinal, st.Round, st.Start, st.Agents)); err != nil {
			return res, st.Agents, fmt.Errorf("%s: final snapshot: %w", in.name, err)
		}
	}
	if r.idx != nil {
		id, err := r.idx.RecordRun(ctx, res, indexdb.InputDigest(in.text), initialPath, finalPath)
		if err != nil {
			return res, st.Agents, fmt.Errorf("%s: %w", in.name, err)
		}
		log.WithField("run_id", id).Debug("run indexed")
	}

	log.WithFields(logrus.Fields{
		"rounds":     res.Rounds,
		"free_tiles": res.FreeTiles,
		"stable":     res.StableRound,
	}).Info("run finished")
	return res, st.Agents, nil
}
