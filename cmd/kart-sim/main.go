// Command kart-sim runs a headless AI race and reports standings and speed telemetry
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime/debug"

	"github.com/lixenwraith/kart-pilot/config"
	"github.com/lixenwraith/kart-pilot/logging"
	"github.com/lixenwraith/kart-pilot/race"
	"github.com/lixenwraith/kart-pilot/telemetry"
)

const logFileName = "kart-sim.log"

var (
	configFlag     = flag.String("config", "", "YAML config file, defaults when empty")
	lapsFlag       = flag.Int("laps", 0, "Override race.laps")
	kartsFlag      = flag.Int("karts", 0, "Override race.karts")
	difficultyFlag = flag.String("difficulty", "", "Override race.difficulty")
	seedFlag       = flag.Uint64("seed", 0, "Override race.seed")
	debugFlag      = flag.Bool("debug", false, "Write a debug log to logs/"+logFileName)
	plotFlag       = flag.String("plot", "", "Write a speed plot to this .png file")
	strideFlag     = flag.Int("stride", 6, "Record one telemetry sample every n ticks")
	maxTimeFlag    = flag.Float64("max-time", 600, "Abort the race after this many simulated seconds")
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "KART-SIM CRASHED: %v\nStack Trace:\n%s\n", r, debug.Stack())
			os.Exit(1)
		}
	}()

	flag.Parse()

	if f := logging.Setup(logFileName, *debugFlag); f != nil {
		defer f.Close()
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	res, err := run(cfg, *strideFlag, *maxTimeFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Race failed: %v\n", err)
		os.Exit(1)
	}
	report(os.Stdout, res)

	if *plotFlag != "" {
		if err := res.recorder.WritePlot(*plotFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write plot: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Speed plot written to %s\n", *plotFlag)
	}
}

// loadConfig reads the config file and applies flag overrides
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if *configFlag != "" {
		var err error
		if cfg, err = config.Load(*configFlag); err != nil {
			return nil, err
		}
	}

	if *lapsFlag > 0 {
		cfg.Race.Laps = *lapsFlag
	}
	if *kartsFlag > 0 {
		cfg.Race.Karts = *kartsFlag
	}
	if *difficultyFlag != "" {
		cfg.Race.Difficulty = *difficultyFlag
	}
	if *seedFlag != 0 {
		cfg.Race.Seed = *seedFlag
	}
	return cfg, cfg.Validate()
}

type result struct {
	race     *race.Race
	recorder *telemetry.Recorder
	timedOut bool
}

// run simulates a full race of AI karts at the fixed tick rate
func run(cfg *config.Config, stride int, maxTime float64) (*result, error) {
	g, err := cfg.BuildTrack()
	if err != nil {
		return nil, err
	}
	props, err := cfg.Difficulty(cfg.Race.Difficulty)
	if err != nil {
		return nil, err
	}

	r := race.New(g, cfg.RaceOptions())
	for i := 0; i < cfg.Race.Karts; i++ {
		if _, err := r.AddAI(fmt.Sprintf("ai-%d", i+1), props); err != nil {
			return nil, err
		}
	}
	log.Printf("[SIM] %d %s karts, %d laps, seed %d", cfg.Race.Karts, cfg.Race.Difficulty, cfg.Race.Laps, cfg.Race.Seed)

	rec := telemetry.NewRecorder(stride)
	dt := cfg.TickDuration()
	r.Start()
	for !r.Finished() {
		if r.Time() > maxTime {
			log.Printf("[SIM] aborted at %.1fs", r.Time())
			return &result{race: r, recorder: rec, timedOut: true}, nil
		}
		r.Step(dt)
		if r.Phase() != race.PhaseRacing {
			continue
		}
		for _, k := range r.Karts() {
			rec.Record(k.ID, k.Name, telemetry.Sample{
				Time:    r.Time(),
				Speed:   k.Speed(),
				Ceiling: k.MaxSpeed().CurrentMaxSpeed(),
				Lap:     k.Lap(),
			})
		}
		for _, e := range r.DrainEvents() {
			if e.Kind == race.EventCrash {
				continue
			}
			log.Printf("[SIM] %.2fs %s lap %d", e.Time, e.Kind, e.Lap)
		}
	}
	return &result{race: r, recorder: rec}, nil
}

func report(w io.Writer, res *result) {
	if res.timedOut {
		fmt.Fprintf(w, "Race aborted after %.1fs\n", res.race.Time())
	}
	fmt.Fprintln(w, "Pos  Kart      Time      Laps  Rescues")
	for i, k := range res.race.Standings() {
		finish := "-"
		if k.Finished() {
			finish = fmt.Sprintf("%.2fs", k.FinishTime())
		}
		fmt.Fprintf(w, "%-4d %-9s %-9s %-5d %d\n", i+1, k.Name, finish, k.Lap(), k.Rescues())
	}

	fmt.Fprintln(w, "\nKart      Max      Avg      At cap")
	for _, s := range res.recorder.Summaries() {
		fmt.Fprintf(w, "%-9s %-8.2f %-8.2f %.0f%%\n", s.Name, s.MaxSpeed, s.AvgSpeed, 100*s.CappedRatio)
	}
}
