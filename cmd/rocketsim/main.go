package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/ChristopherRabotin/rocket"
	kitlog "github.com/go-kit/kit/log"
)

// This code reads a scenario file, builds the rocket and runs the simulation until touchdown.

const defaultScenario = "~~unset~~"

var (
	scenario string
	verbose  bool
	realtime bool
)

func init() {
	// Read flags
	flag.StringVar(&scenario, "scenario", defaultScenario, "scenario TOML file (uses the default scenario if unset)")
	flag.BoolVar(&verbose, "verbose", false, "really verbose (esp. for configuration)")
	flag.BoolVar(&realtime, "realtime", false, "tick at the scenario tick rate instead of as fast as possible")
}

func main() {
	flag.Parse()
	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stderr))
	logger = kitlog.With(logger, "ts", kitlog.DefaultTimestampUTC)

	var sc rocket.Scenario
	if scenario == defaultScenario {
		sc = rocket.DefaultScenario()
		logger.Log("level", "warning", "subsys", "conf", "message", "no scenario provided, using defaults")
	} else {
		var err error
		if sc, err = rocket.LoadScenario(scenario); err != nil {
			logger.Log("level", "critical", "subsys", "conf", "err", err)
			os.Exit(1)
		}
	}
	if realtime {
		sc.Realtime = true
	}
	if verbose {
		logger.Log("level", "info", "subsys", "conf", "scenario", sc.Name, "mass", sc.Constants.Mass, "planet", sc.Constants.Planet, "step", sc.Step, "tick", sc.Tick, "events", len(sc.Events))
	}

	sim, err := sc.Simulation(logger)
	if err != nil {
		logger.Log("level", "critical", "subsys", "conf", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	outcome, err := sim.Run(ctx)
	if err != nil {
		logger.Log("level", "error", "subsys", "sim", "err", err)
	}
	p := sim.Body.Position()
	v := sim.Body.Velocity()
	fmt.Printf("%s after %.1fs: position=(%.2f, %.2f) velocity=(%.4f, %.4f)\n", outcome, sim.Body.Time(), p[0], p[1], v[0], v[1])
	if err != nil {
		os.Exit(2)
	}
}
