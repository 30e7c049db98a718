package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/agents"
	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/bus"
	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/config"
	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/engine"
	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/facts"
	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/ir"
	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Config  string
	Ticks   int
	Cadence int
	Seed    int64
	Journal string
	Driver  string

	// RunIDs allows overriding the run id generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	RunIDs engine.RunIDGenerator
}

// RunReport is the final report printed after a run.
type RunReport struct {
	RunID      string           `json:"run_id"`
	Seed       int64            `json:"seed"`
	Ticks      int64            `json:"ticks"`
	State      string           `json:"state"`
	RulePasses int              `json:"rule_passes"`
	Failures   int64            `json:"activation_failures"`
	Ledger     agents.Ledger    `json:"ledger"`
	Labels     map[ir.Label]int `json:"labels"`
	Messages   bus.Stats        `json:"messages"`
	Aggregates facts.Aggregates `json:"aggregates"`
	Journal    string           `json:"journal,omitempty"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a simulation with the reference actors",
		Long: `Run a bookstore simulation to completion and print the final report.

Configuration is read from --config (.yaml, .yml or .cue) over the defaults;
--ticks, --cadence, --seed, --journal and --driver override the file.
When a journal path is set, every snapshot is recorded to SQLite on a
separate goroutine. Ctrl-C stops the run after the current activation.

Examples:
  bookstore-sim run
  bookstore-sim run --config sim.yaml --seed 7 --format json
  bookstore-sim run --ticks 500 --journal runs.db --driver sqlite`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulation(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "configuration file (.yaml, .yml or .cue)")
	cmd.Flags().IntVar(&opts.Ticks, "ticks", 0, "number of ticks (overrides config)")
	cmd.Flags().IntVar(&opts.Cadence, "cadence", 0, "ticks between rule passes (overrides config)")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "random seed (overrides config; 0 derives one from the clock)")
	cmd.Flags().StringVar(&opts.Journal, "journal", "", "SQLite journal path (overrides config)")
	cmd.Flags().StringVar(&opts.Driver, "driver", "", "journal driver: sqlite3 (cgo) or sqlite (pure Go)")

	return cmd
}

// resolveConfig loads the config file and applies flag overrides.
func resolveConfig(opts *RunOptions, cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if opts.Config != "" {
		loaded, err := config.Load(opts.Config)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("ticks") {
		cfg.Schedule.Ticks = opts.Ticks
	}
	if flags.Changed("cadence") {
		cfg.Schedule.RuleCadence = opts.Cadence
	}
	if flags.Changed("seed") {
		cfg.Schedule.Seed = opts.Seed
	}
	if flags.Changed("journal") {
		cfg.Journal.Path = opts.Journal
	}
	if flags.Changed("driver") {
		cfg.Journal.Driver = opts.Driver
	}
	if !cmd.Flags().Changed("log-format") && cfg.Logging.Format != "" {
		opts.LogFormat = cfg.Logging.Format
	}

	// Actors, population and scheduler must share one seed.
	if cfg.Schedule.Seed == 0 {
		cfg.Schedule.Seed = time.Now().UnixNano()
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func runSimulation(opts *RunOptions, cmd *cobra.Command) error {
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	cfg, err := resolveConfig(opts, cmd)
	if err != nil {
		if config.IsConfigError(err) {
			_ = out.Error(CodeInvalidConfig, "invalid configuration", configErrorDetails(err))
			return WrapExitError(ExitFailure, "invalid configuration", err)
		}
		return WrapExitError(ExitCommandError, "failed to load configuration", err)
	}

	logger := newLogger(opts.RootOptions, cfg.Logging.Level, cmd.ErrOrStderr())

	ledger := &agents.Ledger{}
	runIDs := opts.RunIDs
	if runIDs == nil {
		runIDs = engine.UUIDv7Generator{}
	}

	snaps := make(chan engine.Snapshot, cfg.Schedule.SnapshotBuffer)
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	g, gctx := errgroup.WithContext(parentCtx)

	sched, err := engine.New(cfg, nil,
		agents.Actors(cfg.Population, cfg.Rules, ledger, cfg.Schedule.Seed),
		engine.WithPopulator(agents.Populator(cfg.Population, cfg.Schedule.Seed)),
		engine.WithRunIDGenerator(runIDs),
		engine.WithLogger(logger),
		engine.WithSink(channelSink(gctx, snaps)))
	if err != nil {
		return WrapExitError(ExitFailure, "failed to build scheduler", err)
	}

	var journal *store.Store
	if cfg.Journal.Path != "" {
		journal, err = store.Open(cfg.Journal.Path, cfg.Journal.Driver)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open journal", err)
		}
		defer func() {
			if closeErr := journal.Close(); closeErr != nil {
				logger.Error("error closing journal", "error", closeErr)
			}
		}()
		if err := journal.BeginRun(parentCtx, sched.RunID(), sched.Seed(), cfg); err != nil {
			return WrapExitError(ExitCommandError, "failed to register run", err)
		}
		logger.Info("journal ready", "path", cfg.Journal.Path, "driver", journal.Driver())
	}

	sigCtx, stopSignals := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	done := make(chan struct{})
	var last engine.Snapshot

	// Scheduler loop. Closing snaps ends the consumer.
	g.Go(func() error {
		defer close(done)
		defer close(snaps)
		return sched.Run(gctx)
	})

	// Journal consumer. It owns last; the scheduler never waits on SQLite
	// unless the buffer is full.
	g.Go(func() error {
		for snap := range snaps {
			last = snap
			if snap.Evaluated {
				logger.Debug("rule pass",
					"tick", snap.Tick,
					"asserted", snap.Asserted,
					"labels", snap.Labels)
			}
			if journal == nil {
				continue
			}
			if err := journal.Record(gctx, snap); err != nil {
				return fmt.Errorf("journal tick %d: %w", snap.Tick, err)
			}
		}
		return nil
	})

	// Signal watcher. A signal stops the scheduler gracefully.
	g.Go(func() error {
		select {
		case <-sigCtx.Done():
			if parentCtx.Err() == nil {
				logger.Info("received signal, stopping run")
				if err := sched.Stop(); err != nil && !engine.IsStateError(err) {
					return err
				}
			}
		case <-done:
		}
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		_ = out.Error(CodeRunFailed, "run failed", err.Error())
		return WrapExitError(ExitCommandError, "run failed", err)
	}

	report := RunReport{
		RunID:      sched.RunID(),
		Seed:       sched.Seed(),
		Ticks:      sched.Tick(),
		State:      sched.State().String(),
		RulePasses: sched.RulePasses(),
		Failures:   sched.FailureCount(),
		Ledger:     *ledger,
		Labels:     last.Labels,
		Messages:   sched.Bus().Statistics(),
		Aggregates: last.Aggregates,
		Journal:    cfg.Journal.Path,
	}
	return out.Success(report, func(w io.Writer) { writeRunReport(w, report) })
}

// channelSink forwards snapshots to ch, giving up when ctx is done so a
// failed consumer can never wedge the tick loop.
func channelSink(ctx context.Context, ch chan<- engine.Snapshot) engine.Sink {
	return engine.SinkFunc(func(s engine.Snapshot) {
		select {
		case ch <- s:
		case <-ctx.Done():
		}
	})
}

func writeRunReport(w io.Writer, r RunReport) {
	fmt.Fprintf(w, "Run %s (seed %d)\n", r.RunID, r.Seed)
	fmt.Fprintf(w, "  ticks: %d  state: %s  rule passes: %d  activation failures: %d\n",
		r.Ticks, r.State, r.RulePasses, r.Failures)

	fmt.Fprintln(w, "\nLedger")
	fmt.Fprintf(w, "  revenue:         %.2f\n", r.Ledger.Revenue)
	fmt.Fprintf(w, "  transactions:    %d\n", r.Ledger.Transactions)
	fmt.Fprintf(w, "  failed sales:    %d\n", r.Ledger.FailedSales)
	fmt.Fprintf(w, "  restocks:        %d\n", r.Ledger.Restocks)
	fmt.Fprintf(w, "  price changes:   %d\n", r.Ledger.PriceChanges)
	fmt.Fprintf(w, "  discount offers: %d\n", r.Ledger.Offers)

	fmt.Fprintln(w, "\nLabels")
	labels := make([]ir.Label, 0, len(r.Labels))
	for l := range r.Labels {
		labels = append(labels, l)
	}
	slices.Sort(labels)
	for _, l := range labels {
		fmt.Fprintf(w, "  %-24s %d\n", l, r.Labels[l])
	}

	fmt.Fprintln(w, "\nMessages")
	fmt.Fprintf(w, "  total: %d  retained: %d  evicted: %d\n", r.Messages.Total, r.Messages.Retained, r.Messages.Evicted)
	kinds := make([]ir.MessageKind, 0, len(r.Messages.PerKind))
	for k := range r.Messages.PerKind {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	for _, k := range kinds {
		fmt.Fprintf(w, "  %-24s %d\n", k, r.Messages.PerKind[k])
	}

	if r.Journal != "" {
		fmt.Fprintf(w, "\nJournal: %s\n", r.Journal)
	}
}

// configErrorDetails flattens joined validation errors into one line each.
func configErrorDetails(err error) []string {
	var out []string
	var walk func(error)
	walk = func(err error) {
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			for _, e := range joined.Unwrap() {
				walk(e)
			}
			return
		}
		out = append(out, err.Error())
	}
	walk(err)
	return out
}
