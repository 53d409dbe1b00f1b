package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"sync"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"gridspread/internal/config"
	"gridspread/internal/diffusion"
	"gridspread/internal/grid"
	"gridspread/internal/indexdb"
	"gridspread/internal/observer"
	"gridspread/internal/render"
	"gridspread/internal/util"
)

const timestampFormat = "2006-01-02T15:04:05.999Z07:00"

func newLogger(verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: timestampFormat,
	})
	log.SetLevel(logrus.InfoLevel)
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

func main() {
	var cfgPath, out, gen, start string
	var seed int64
	var rounds, workers, n int
	var density float64
	var saveLog, show, verbose, untilStable bool
	flag.StringVar(&cfgPath, "config", "", "config yaml (defaults when empty)")
	flag.StringVar(&out, "out", "", "output file: result json (single) or summary json (batch)")
	flag.StringVar(&gen, "gen", "", "generate a WxH scattered grid instead of reading files")
	flag.Float64Var(&density, "density", 0.3, "occupied share for -gen")
	flag.Int64Var(&seed, "seed", 12345, "seed for -gen")
	flag.IntVar(&n, "n", 1, "number of grids to generate with -gen")
	flag.IntVar(&rounds, "rounds", 0, "override rounds")
	flag.StringVar(&start, "start", "", "override start direction")
	flag.BoolVar(&untilStable, "until-stable", false, "run until no agent moves")
	flag.IntVar(&workers, "workers", 0, "override proposal workers")
	flag.BoolVar(&saveLog, "log", true, "keep per-round stats and events in single-run output")
	flag.BoolVar(&show, "show", false, "draw the final grid")
	flag.BoolVar(&verbose, "v", false, "debug logging")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] grid.txt [grid.txt ...]\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	log := newLogger(verbose)

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.WithError(err).Fatal("load config")
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "rounds":
			cfg.Rounds = rounds
		case "workers":
			cfg.Workers = workers
		case "until-stable":
			cfg.UntilStable = untilStable
		case "start":
			d, err := grid.ParseDirection(start)
			if err != nil {
				log.WithError(err).Fatal("bad -start")
			}
			cfg.StartDirection = d
		}
	})
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("config")
	}
	glyphs, err := cfg.GridGlyphs()
	if err != nil {
		log.WithError(err).Fatal("config")
	}

	var inputs []input
	if gen != "" {
		for i := 0; i < max(n, 1); i++ {
			in, err := generateInput(gen, density, util.SubSeed(seed, i), glyphs)
			if err != nil {
				log.WithError(err).Fatal("generate grid")
			}
			inputs = append(inputs, in)
		}
	}
	for _, path := range flag.Args() {
		in, err := readInput(path)
		if err != nil {
			log.WithError(err).Fatal("read grid")
		}
		inputs = append(inputs, in)
	}
	if len(inputs) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	r := &runner{cfg: cfg, glyphs: glyphs, log: log}
	if cfg.IndexDB != "" {
		idx, err := indexdb.OpenSQLite(cfg.IndexDB)
		if err != nil {
			log.WithError(err).Fatal("open index db")
		}
		r.idx = idx
		defer r.close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(inputs) == 1 {
		if err := runSingle(ctx, r, inputs[0], out, saveLog, show); err != nil {
			log.WithError(err).Error("run failed")
			stop()
			r.close()
			os.Exit(1)
		}
		return
	}
	if err := runBatch(ctx, r, inputs, out); err != nil {
		log.WithError(err).Error("batch failed")
		stop()
		r.close()
		os.Exit(1)
	}
}

func runSingle(ctx context.Context, r *runner, in input, out string, saveLog, show bool) error {
	var emit func(diffusion.Event)
	var obs *observer.Server
	var srv *http.Server
	if addr := r.cfg.Observer.Addr; addr != "" {
		obs = observer.NewServer(r.log)
		srv = &http.Server{Addr: addr, Handler: obs.Handler()}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				r.log.WithError(err).Error("observer server")
			}
		}()
		r.log.WithField("addr", addr).Info("observer listening on /ws and /state")
		delay := time.Duration(r.cfg.Observer.FrameDelayMs) * time.Millisecond
		emit = func(ev diffusion.Event) {
			obs.Publish(ev)
			if delay > 0 {
				time.Sleep(delay)
			}
		}
	}

	res, final, err := r.run(ctx, in, emit, saveLog)
	if err != nil {
		return err
	}
	fmt.Println(res.FreeTiles)

	if out != "" {
		if err := os.WriteFile(out, diffusion.MarshalPretty(res), 0644); err != nil {
			return err
		}
		r.log.WithField("out", out).Info("result written")
	}
	if show {
		view, err := render.Result(res, final, r.glyphs)
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, view)
	}

	if srv != nil {
		r.log.Info("run finished, observer still serving; interrupt to exit")
		<-ctx.Done()
		obs.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
	return nil
}

type batchSummary struct {
	Runs          int                   `json:"runs"`
	Failed        int                   `json:"failed"`
	Stabilized    int                   `json:"stabilized"`
	AvgFreeTiles  float64               `json:"avg_free_tiles"`
	AvgRounds     float64               `json:"avg_rounds"`
	TotalMoved    int                   `json:"total_moved"`
	TotalDenied   int                   `json:"total_denied"`
	FreeTilesByID map[string]int        `json:"free_tiles"`
	Errors        map[string]string     `json:"errors,omitempty"`
	Results       []diffusion.SimResult `json:"results"`
}

func runBatch(ctx context.Context, r *runner, inputs []input, out string) error {
	st := batchSummary{FreeTilesByID: map[string]int{}, Errors: map[string]string{}}
	var mu sync.Mutex
	wg := sync.WaitGroup{}
	workers := 8
	jobs := make(chan input, len(inputs))
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for in := range jobs {
				if ctx.Err() != nil {
					return
				}
				res, _, err := r.run(ctx, in, nil, false)

				mu.Lock()
				if err != nil {
					st.Failed++
					st.Errors[in.name] = err.Error()
				} else {
					st.Results = append(st.Results, res)
					st.FreeTilesByID[in.name] = res.FreeTiles
					if res.StableRound > 0 {
						st.Stabilized++
					}
					st.TotalMoved += res.Moved
					st.TotalDenied += res.Denied
				}
				mu.Unlock()
			}
		}()
	}
	for _, in := range inputs {
		jobs <- in
	}
	close(jobs)
	wg.Wait()

	st.Runs = len(st.Results)
	sort.Slice(st.Results, func(i, j int) bool { return st.Results[i].Name < st.Results[j].Name })
	if st.Runs > 0 {
		var tiles, rounds int
		for _, res := range st.Results {
			tiles += res.FreeTiles
			rounds += res.Rounds
		}
		st.AvgFreeTiles = float64(tiles) / float64(st.Runs)
		st.AvgRounds = float64(rounds) / float64(st.Runs)
	}
	for _, res := range st.Results {
		fmt.Printf("%s\t%d\n", res.Name, res.FreeTiles)
	}

	if out != "" {
		if err := os.WriteFile(out, diffusion.MarshalPretty(st), 0644); err != nil {
			return err
		}
	}
	r.log.WithFields(logrus.Fields{"runs": st.Runs, "failed": st.Failed, "out": filepath.Base(out)}).Info("batch done")
	if st.Failed > 0 {
		return fmt.Errorf("%d of %d runs failed", st.Failed, len(inputs))
	}
	return ctx.Err()
}
