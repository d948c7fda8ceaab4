// Command kart-sandbox is a live terminal view of a race with one player kart against the AI
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/lixenwraith/kart-pilot/config"
	"github.com/lixenwraith/kart-pilot/logging"
)

const logFileName = "kart-sandbox.log"

var (
	configFlag     = flag.String("config", "", "YAML config file, defaults when empty")
	difficultyFlag = flag.String("difficulty", "", "Override race.difficulty")
	noAudioFlag    = flag.Bool("no-audio", false, "Disable sound cues")
	debugFlag      = flag.Bool("debug", false, "Write a debug log to logs/"+logFileName)
)

func main() {
	flag.Parse()

	if f := logging.Setup(logFileName, *debugFlag); f != nil {
		defer f.Close()
	}

	cfg := config.Default()
	if *configFlag != "" {
		var err error
		if cfg, err = config.Load(*configFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
	}
	if *difficultyFlag != "" {
		cfg.Race.Difficulty = *difficultyFlag
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid difficulty: %v\n", err)
			os.Exit(1)
		}
	}

	game, err := NewGame(cfg, !*noAudioFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}

	// Restore the terminal before printing a crash
	defer func() {
		if r := recover(); r != nil {
			game.cleanup()
			fmt.Fprintf(os.Stderr, "KART-SANDBOX CRASHED: %v\nStack Trace:\n%s\n", r, debug.Stack())
			os.Exit(1)
		}
	}()
	defer game.cleanup()

	game.run()
}
