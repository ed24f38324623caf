package rocket

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	kitlog "github.com/go-kit/kit/log"
)

const (
	// TickRate is the default rate of the driver clock, decoupled from the physics step.
	TickRate = time.Second / 60
)

// Simulation drives a body with a fixed rate tick: every tick applies the due control events,
// steps the body by a fixed physics step and assesses the touchdown.
type Simulation struct {
	Body     *RigidBody
	Step     float64       // Physics step per tick, in simulated seconds.
	Tick     time.Duration // Driver clock period.
	Realtime bool          // Wait for the wall clock between ticks.
	Duration float64       // Maximum simulated duration in seconds, no limit if not positive.
	Ticks    uint64
	Outcome  Outcome
	events   []ControlEvent
	export   ExportConfig
	logger   kitlog.Logger
}

// NewSimulation returns a new simulation of b with the default step and tick rate.
// The events are sorted by time and must be valid.
func NewSimulation(b *RigidBody, events []ControlEvent, conf ExportConfig, logger kitlog.Logger) (*Simulation, error) {
	for _, e := range events {
		if err := e.Validate(); err != nil {
			return nil, err
		}
	}
	sorted := make([]ControlEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].At < sorted[j].At })
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	return &Simulation{Body: b, Step: StepSize, Tick: TickRate, events: sorted, export: conf, logger: kitlog.With(logger, "subsys", "sim")}, nil
}

// Clock returns the driver clock in seconds.
func (s *Simulation) Clock() float64 {
	return float64(s.Ticks) * s.Tick.Seconds()
}

// Run runs the simulation until touchdown, the end of the configured duration, cancellation of
// the context, or until the body is paused with no pending events left to resume it.
func (s *Simulation) Run(ctx context.Context) (Outcome, error) {
	if s.Step <= 0 || s.Tick <= 0 {
		return Flying, fmt.Errorf("step (%f) and tick (%s) must be positive", s.Step, s.Tick)
	}
	var wg sync.WaitGroup
	var histChan chan Sample
	var exportErr error
	if !s.export.IsUseless() {
		histChan = make(chan Sample, 1000) // a 1k entry buffer
		wg.Add(1)
		go func() {
			defer wg.Done()
			exportErr = StreamStates(s.export, histChan, s.logger)
		}()
	}
	finish := func(err error) (Outcome, error) {
		if histChan != nil {
			close(histChan)
		}
		wg.Wait() // Don't return until we're done writing all the files.
		if err == nil && exportErr != nil {
			err = fmt.Errorf("export: %w", exportErr)
		}
		s.logger.Log("level", "notice", "status", "finished", "outcome", s.Outcome, "ticks", s.Ticks, "t", s.Body.Time())
		return s.Outcome, err
	}
	record := func() {
		if histChan != nil {
			histChan <- NewSample(s.Body)
		}
	}

	var ticker *time.Ticker
	if s.Realtime {
		ticker = time.NewTicker(s.Tick)
		defer ticker.Stop()
	}
	s.Body.LogStatus()
	record()
	next := 0
	for {
		select {
		case <-ctx.Done():
			return finish(ctx.Err())
		default:
		}
		if ticker != nil {
			select {
			case <-ctx.Done():
				return finish(ctx.Err())
			case <-ticker.C:
			}
		}

		// Apply the inputs of this tick.
		for ; next < len(s.events) && s.events[next].At <= s.Clock(); next++ {
			e := s.events[next]
			if err := s.Body.Apply(e); err != nil {
				return finish(err)
			}
			s.logger.Log("level", "info", "clock", s.Clock(), "applied", e)
		}

		if !s.Body.Paused() {
			if err := s.Body.Step(s.Step); err != nil {
				var dErr *IntegrationDivergedError
				if errors.As(err, &dErr) {
					s.logger.Log("level", "critical", "status", "frozen", "err", err)
				}
				return finish(err)
			}
			record()
			outcome, err := Assess(s.Body)
			if err != nil {
				return finish(err)
			}
			if outcome != Flying {
				s.Outcome = outcome
				s.Body.Pause()
				s.Body.LogStatus()
				return finish(nil)
			}
		} else if next == len(s.events) {
			s.logger.Log("level", "warning", "status", "paused with no pending input")
			return finish(nil)
		}
		s.Ticks++

		if s.Duration > 0 && s.Body.Time() >= s.Duration-s.Step/2 {
			return finish(nil)
		}
		if s.Ticks%600 == 0 {
			s.Body.LogStatus()
		}
	}
}
