package engine

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/bus"
	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/config"
	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/facts"
	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/ir"
	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/rules"
)

// MaxRecordedFailures bounds the activation failures kept for inspection.
// Older failures are dropped; the total is still counted.
const MaxRecordedFailures = 256

// Scheduler drives the tick loop over a fact store, a message bus and a
// rule engine.
//
// Thread-safety model:
//   - Run(): must be called from exactly one goroutine
//   - Start/Pause/Resume/Stop/Reset, State, Tick and the counters: safe from any goroutine
//   - Facts(): only while the loop is not running
type Scheduler struct {
	cfg    config.Config
	facts  *facts.Store
	bus    *bus.Bus
	rules  *rules.Engine
	actors []Actor
	sink   Sink
	logger *slog.Logger
	runIDs RunIDGenerator
	seed   int64
	rng    *rand.Rand

	populate func(*facts.Store) error

	mu       sync.Mutex
	state    State
	looping  bool
	wake     chan struct{} // buffered, size 1; signals resume/stop
	runID    string
	tick     int64
	lastSeq  int64
	passes   int
	failed   int64
	failures []*ActivationError
	lastSum  map[ir.Label]int
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = l
	}
}

// WithSeed overrides the configured seed.
func WithSeed(seed int64) Option {
	return func(s *Scheduler) {
		s.seed = seed
	}
}

// WithSink registers the snapshot sink.
func WithSink(sink Sink) Option {
	return func(s *Scheduler) {
		s.sink = sink
	}
}

// WithRunIDGenerator sets the run id source. Default: UUIDv7Generator.
func WithRunIDGenerator(g RunIDGenerator) Option {
	return func(s *Scheduler) {
		s.runIDs = g
	}
}

// WithBus supplies a pre-built bus instead of one built from the config.
func WithBus(b *bus.Bus) Option {
	return func(s *Scheduler) {
		s.bus = b
	}
}

// WithRules supplies a pre-built rule engine instead of the default rule
// set over the configured thresholds.
func WithRules(e *rules.Engine) Option {
	return func(s *Scheduler) {
		s.rules = e
	}
}

// WithPopulator registers the function that seeds entities. It is applied
// to a fresh store on Reset, and on New when no store is given.
func WithPopulator(fn func(*facts.Store) error) Option {
	return func(s *Scheduler) {
		s.populate = fn
	}
}

// New validates cfg and builds an idle scheduler.
//
// Invalid configuration fails here, never at run time. A nil store is
// replaced by an empty one (or a populated one, see WithPopulator).
// Actor ids must be unique.
func New(cfg config.Config, store *facts.Store, actors []Actor, opts ...Option) (*Scheduler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Scheduler{
		cfg:    cfg,
		facts:  store,
		actors: append([]Actor(nil), actors...),
		seed:   cfg.Schedule.Seed,
		wake:   make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.runIDs == nil {
		s.runIDs = UUIDv7Generator{}
	}
	if s.seed == 0 {
		s.seed = time.Now().UnixNano()
	}

	seen := make(map[ir.EntityID]bool, len(s.actors))
	for _, a := range s.actors {
		if a == nil {
			return nil, fmt.Errorf("nil actor")
		}
		if seen[a.ID()] {
			return nil, fmt.Errorf("duplicate actor %q", a.ID())
		}
		seen[a.ID()] = true
	}

	if s.facts == nil {
		s.facts = facts.New(nil)
		if s.populate != nil {
			if err := s.populate(s.facts); err != nil {
				return nil, fmt.Errorf("populate store: %w", err)
			}
		}
	}
	if s.bus == nil {
		b, err := bus.New(cfg.Bus.Retention, cfg.MessageKinds()...)
		if err != nil {
			return nil, err
		}
		s.bus = b
	}
	if s.rules == nil {
		re, err := rules.NewDefault(cfg.Rules, rules.WithSchema(s.facts.Schema()), rules.WithLogger(s.logger))
		if err != nil {
			return nil, err
		}
		s.rules = re
	}

	s.rng = newRand(s.seed)
	s.runID = s.runIDs.Generate()
	s.lastSum = s.rules.Summary(s.facts)
	return s, nil
}

func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
}

// Facts returns the fact store. Only read it while the loop is not running.
func (s *Scheduler) Facts() *facts.Store { return s.facts }

// Bus returns the message bus.
func (s *Scheduler) Bus() *bus.Bus { return s.bus }

// Rules returns the rule engine.
func (s *Scheduler) Rules() *rules.Engine { return s.rules }

// Seed returns the effective seed.
func (s *Scheduler) Seed() int64 { return s.seed }

// Config returns the validated configuration.
func (s *Scheduler) Config() config.Config { return s.cfg }

// RunID returns the current run identifier.
func (s *Scheduler) RunID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runID
}

// State returns the lifecycle state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Tick returns the number of completed ticks.
func (s *Scheduler) Tick() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tick
}

// RulePasses returns how many rule passes ran.
func (s *Scheduler) RulePasses() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.passes
}

// FailureCount returns the total number of isolated activation failures.
func (s *Scheduler) FailureCount() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failed
}

// Failures returns the most recent activation failures, oldest first.
func (s *Scheduler) Failures() []*ActivationError {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*ActivationError(nil), s.failures...)
}

// Start moves an idle scheduler to running. Run calls it implicitly.
func (s *Scheduler) Start() error {
	return s.transition("start")
}

// Pause parks the loop at the next tick boundary.
func (s *Scheduler) Pause() error {
	return s.transition("pause")
}

// Resume continues a paused loop.
func (s *Scheduler) Resume() error {
	return s.transition("resume")
}

// Stop ends the run before the next activation. Stopping a stopped
// scheduler is a no-op.
func (s *Scheduler) Stop() error {
	if s.State() == StateStopped {
		return nil
	}
	return s.transition("stop")
}

func (s *Scheduler) transition(op string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	to, err := next(s.state, op)
	if err != nil {
		return err
	}
	s.logger.Debug("scheduler state change", "op", op, "from", s.state, "to", to)
	s.state = to

	// Non-blocking: a buffer of 1 coalesces signals.
	select {
	case s.wake <- struct{}{}:
	default:
	}
	return nil
}

// Reset returns a stopped or idle scheduler to its initial condition:
// tick and counters to zero, bus emptied, labels cleared, RNG re-seeded
// and a new run id drawn. With a populator the fact store is rebuilt.
func (s *Scheduler) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := next(s.state, "reset"); err != nil {
		return err
	}
	if s.looping {
		return &StateError{From: s.state, Op: "reset"}
	}

	if s.populate != nil {
		fresh := facts.New(s.facts.Schema())
		if err := s.populate(fresh); err != nil {
			return fmt.Errorf("populate store: %w", err)
		}
		s.facts = fresh
	} else {
		s.facts.Deriver().Clear()
	}
	s.bus.Reset()
	s.rng = newRand(s.seed)
	s.runID = s.runIDs.Generate()
	s.tick = 0
	s.lastSeq = 0
	s.passes = 0
	s.failed = 0
	s.failures = nil
	s.lastSum = s.rules.Summary(s.facts)
	s.state = StateIdle

	// Drain a stale wake signal.
	select {
	case <-s.wake:
	default:
	}

	s.logger.Info("scheduler reset", "run_id", s.runID)
	return nil
}

// Run drives the tick loop until the configured tick count is reached,
// Stop is called, or ctx is cancelled. It starts an idle scheduler.
//
// Completing every tick leaves the scheduler Stopped and returns nil.
// Cancellation stops the scheduler and returns ctx.Err().
func (s *Scheduler) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.looping {
		s.mu.Unlock()
		return fmt.Errorf("scheduler loop already running")
	}
	if s.state == StateIdle {
		s.state = StateRunning
	}
	if s.state == StateStopped {
		st := s.state
		s.mu.Unlock()
		return &StateError{From: st, Op: "run"}
	}
	s.looping = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.looping = false
		s.mu.Unlock()
	}()

	s.logger.Info("run starting",
		"run_id", s.RunID(),
		"seed", s.seed,
		"ticks", s.cfg.Schedule.Ticks,
		"rule_cadence", s.cfg.Schedule.RuleCadence,
		"actors", len(s.actors))

	total := int64(s.cfg.Schedule.Ticks)
	for {
		if err := ctx.Err(); err != nil {
			s.forceStop()
			s.logger.Info("run stopping: context cancelled", "tick", s.Tick())
			return err
		}

		switch s.State() {
		case StateStopped:
			s.logger.Info("run stopped", "tick", s.Tick())
			return nil

		case StatePaused:
			select {
			case <-ctx.Done():
			case <-s.wake:
			}
			continue
		}

		if s.Tick() >= total {
			s.forceStop()
			s.logger.Info("run complete",
				"ticks", total,
				"rule_passes", s.RulePasses(),
				"failures", s.FailureCount())
			return nil
		}

		s.step(ctx)
	}
}

// forceStop moves any non-idle state to Stopped.
func (s *Scheduler) forceStop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateStopped
}

// step runs one tick. It returns false if Stop interrupted it, in which
// case no rule pass or snapshot happens for the tick.
// CRITICAL: Called only from Run() goroutine.
func (s *Scheduler) step(ctx context.Context) bool {
	tick := s.Tick()
	s.bus.SetTick(tick)

	act := Activation{
		Tick:  tick,
		Facts: s.facts,
		Bus:   s.bus,
		Rand:  s.rng,
	}

	order := s.rng.Perm(len(s.actors))
	activations, failures := 0, 0
	for _, i := range order {
		if s.State() == StateStopped {
			s.logger.Info("tick interrupted by stop", "tick", tick, "activated", activations)
			return false
		}
		actor := s.actors[i]
		activations++
		if err := s.activate(ctx, actor, act); err != nil {
			failures++
			s.record(err)
		}
	}
	if s.State() == StateStopped {
		s.logger.Info("tick interrupted by stop", "tick", tick, "activated", activations)
		return false
	}

	snap := Snapshot{
		Tick:        tick,
		Activations: activations,
		Failures:    failures,
	}
	if cadence := int64(s.cfg.Schedule.RuleCadence); tick > 0 && tick%cadence == 0 {
		res := s.rules.Pass(s.facts)
		snap.Evaluated = true
		snap.Asserted = res.Asserted
		snap.Derived = s.facts.LabelSet()

		s.mu.Lock()
		s.passes++
		s.lastSum = s.rules.Summary(s.facts)
		s.mu.Unlock()

		s.logger.Info("rule pass",
			"tick", tick,
			"cleared", res.Cleared,
			"asserted", res.Asserted,
			"skipped", res.Skipped)
	}

	s.mu.Lock()
	snap.RunID = s.runID
	snap.RulePasses = s.passes
	snap.TotalFailures = s.failed
	snap.Labels = maps.Clone(s.lastSum)
	s.tick++
	s.mu.Unlock()

	snap.Aggregates = s.facts.Aggregate()
	snap.Messages = s.bus.Statistics()
	snap.Published = s.bus.Since(s.lastSeq)
	s.lastSeq = snap.Messages.LastSeq

	if s.sink != nil {
		s.sink.Emit(snap)
	}

	s.logger.Debug("tick complete",
		"tick", tick,
		"activations", activations,
		"failures", failures,
		"messages", snap.Messages.Total)
	return true
}

// activate runs one actor, converting errors and panics into an
// ActivationError.
func (s *Scheduler) activate(ctx context.Context, a Actor, act Activation) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &ActivationError{
				Tick:     act.Tick,
				Entity:   a.ID(),
				Err:      fmt.Errorf("%v", r),
				Panicked: true,
			}
		}
	}()

	if err := a.Activate(ctx, act); err != nil {
		return &ActivationError{Tick: act.Tick, Entity: a.ID(), Err: err}
	}
	return nil
}

func (s *Scheduler) record(err error) {
	ae, ok := err.(*ActivationError)
	if !ok {
		return
	}
	s.logger.Warn("activation failed",
		"tick", ae.Tick,
		"entity", ae.Entity,
		"panicked", ae.Panicked,
		"error", ae.Err)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.failed++
	s.failures = append(s.failures, ae)
	if len(s.failures) > MaxRecordedFailures {
		s.failures = s.failures[1:]
	}
}
