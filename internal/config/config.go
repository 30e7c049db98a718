// Package config provides the simulation configuration object.
// It supports loading from YAML and CUE files; every value is validated
// before a scheduler can be constructed from it.
package config

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/bus"
	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/ir"
	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/rules"
)

// Journal drivers. Both are SQLite; "sqlite" is the pure-Go driver.
const (
	DriverCGO  = "sqlite3"
	DriverPure = "sqlite"
)

// Config contains all simulation settings.
type Config struct {
	// Rules holds the numeric thresholds of the classification rules.
	Rules rules.Thresholds `json:"rules" yaml:"rules"`

	// Schedule controls the tick loop.
	Schedule ScheduleConfig `json:"schedule" yaml:"schedule"`

	// Bus configures message retention and the kind enumeration.
	Bus BusConfig `json:"bus" yaml:"bus"`

	// Population sizes the reference actor set built by the CLI driver.
	Population PopulationConfig `json:"population" yaml:"population"`

	// Journal configures the optional SQLite run journal.
	Journal JournalConfig `json:"journal" yaml:"journal"`

	// Logging configures slog output.
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// ScheduleConfig controls the tick loop.
type ScheduleConfig struct {
	// Ticks is the total number of ticks in a run.
	Ticks int `json:"ticks" yaml:"ticks"`

	// RuleCadence is the number of ticks between rule engine passes.
	RuleCadence int `json:"rule_cadence" yaml:"rule_cadence"`

	// Seed seeds the activation permutation. Zero derives a seed from the clock.
	Seed int64 `json:"seed" yaml:"seed"`

	// SnapshotBuffer is the channel depth between the scheduler and a
	// snapshot consumer such as the journal.
	SnapshotBuffer int `json:"snapshot_buffer" yaml:"snapshot_buffer"`
}

// BusConfig configures the message bus.
type BusConfig struct {
	// Retention is the ring buffer capacity.
	Retention int `json:"retention" yaml:"retention"`

	// Kinds is the fixed enumeration of publishable kinds.
	// Empty selects the default bookstore kinds.
	Kinds []string `json:"kinds,omitempty" yaml:"kinds,omitempty"`
}

// PopulationConfig sizes the reference population.
type PopulationConfig struct {
	Customers int `json:"customers" yaml:"customers"`
	Employees int `json:"employees" yaml:"employees"`
	Books     int `json:"books" yaml:"books"`
}

// JournalConfig configures the run journal. An empty Path disables it.
type JournalConfig struct {
	Path   string `json:"path,omitempty" yaml:"path,omitempty"`
	Driver string `json:"driver,omitempty" yaml:"driver,omitempty"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	// Level is "debug", "info" (default), "warn" or "error".
	Level string `json:"level" yaml:"level"`

	// Format is "text" (default) or "json".
	Format string `json:"format" yaml:"format"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Rules:      rules.DefaultThresholds(),
		Schedule:   ScheduleConfig{Ticks: 100, RuleCadence: 10, SnapshotBuffer: 64},
		Bus:        BusConfig{Retention: bus.DefaultRetention},
		Population: PopulationConfig{Customers: 10, Employees: 3, Books: 15},
		Journal:    JournalConfig{Driver: DriverCGO},
		Logging:    LoggingConfig{Level: "info", Format: "text"},
	}
}

// MessageKinds returns the configured kinds, or the default set.
func (c Config) MessageKinds() []ir.MessageKind {
	if len(c.Bus.Kinds) == 0 {
		return slices.Clone(ir.DefaultMessageKinds)
	}
	kinds := make([]ir.MessageKind, len(c.Bus.Kinds))
	for i, k := range c.Bus.Kinds {
		kinds[i] = ir.MessageKind(k)
	}
	return kinds
}

// Validate reports every invalid value as a joined set of ConfigErrors.
func (c Config) Validate() error {
	var errs []error
	add := func(field, format string, args ...any) {
		errs = append(errs, &ConfigError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	errs = append(errs, validateThresholds(c.Rules))

	if c.Schedule.Ticks <= 0 {
		add("schedule.ticks", "must be positive, got %d", c.Schedule.Ticks)
	}
	if c.Schedule.RuleCadence <= 0 {
		add("schedule.rule_cadence", "must be positive, got %d", c.Schedule.RuleCadence)
	}
	if c.Schedule.SnapshotBuffer < 0 {
		add("schedule.snapshot_buffer", "must not be negative, got %d", c.Schedule.SnapshotBuffer)
	}
	if c.Bus.Retention <= 0 {
		add("bus.retention", "must be positive, got %d", c.Bus.Retention)
	}
	seen := make(map[string]bool, len(c.Bus.Kinds))
	for _, k := range c.Bus.Kinds {
		if strings.TrimSpace(k) == "" {
			add("bus.kinds", "kind names must be non-empty")
		}
		if seen[k] {
			add("bus.kinds", "duplicate kind %q", k)
		}
		seen[k] = true
	}
	if c.Population.Customers < 0 {
		add("population.customers", "must not be negative, got %d", c.Population.Customers)
	}
	if c.Population.Employees < 0 {
		add("population.employees", "must not be negative, got %d", c.Population.Employees)
	}
	if c.Population.Books < 0 {
		add("population.books", "must not be negative, got %d", c.Population.Books)
	}
	switch c.Journal.Driver {
	case "", DriverCGO, DriverPure:
	default:
		add("journal.driver", "unknown driver %q (want %s or %s)", c.Journal.Driver, DriverCGO, DriverPure)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		add("logging.level", "unknown level %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		add("logging.format", "unknown format %q", c.Logging.Format)
	}

	return errors.Join(errs...)
}

func validateThresholds(r rules.Thresholds) error {
	var errs []error
	check := func(field string, v float64) {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			errs = append(errs, &ConfigError{Field: "rules." + field, Message: fmt.Sprintf("must be a finite non-negative number, got %v", v)})
		}
	}
	check("premium_threshold", r.Premium)
	check("low_budget_threshold", r.LowBudget)
	check("high_value_threshold", r.HighValue)
	check("low_stock_threshold", r.LowStock)
	check("overstock_threshold", r.Overstock)
	check("restock_threshold", r.Restock)
	return errors.Join(errs...)
}

// ConfigError describes one invalid configuration value.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %s", e.Field, e.Message)
}

// IsConfigError returns true if err is or wraps a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
