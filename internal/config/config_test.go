package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 250.0, cfg.Rules.Premium)
	assert.Equal(t, 100.0, cfg.Rules.LowBudget)
	assert.Equal(t, 30.0, cfg.Rules.HighValue)
	assert.Equal(t, 5.0, cfg.Rules.LowStock)
	assert.Equal(t, 30.0, cfg.Rules.Overstock)
	assert.Equal(t, 5.0, cfg.Rules.Restock)
	assert.Equal(t, 100, cfg.Schedule.Ticks)
	assert.Equal(t, 10, cfg.Schedule.RuleCadence)
	assert.Equal(t, 5000, cfg.Bus.Retention)
	assert.Len(t, cfg.MessageKinds(), 5)
}

func TestValidate_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"zero ticks", func(c *Config) { c.Schedule.Ticks = 0 }, "schedule.ticks"},
		{"negative cadence", func(c *Config) { c.Schedule.RuleCadence = -1 }, "schedule.rule_cadence"},
		{"zero cadence", func(c *Config) { c.Schedule.RuleCadence = 0 }, "schedule.rule_cadence"},
		{"zero retention", func(c *Config) { c.Bus.Retention = 0 }, "bus.retention"},
		{"negative customers", func(c *Config) { c.Population.Customers = -3 }, "population.customers"},
		{"negative threshold", func(c *Config) { c.Rules.Premium = -1 }, "rules.premium_threshold"},
		{"empty kind", func(c *Config) { c.Bus.Kinds = []string{"a", ""} }, "bus.kinds"},
		{"duplicate kind", func(c *Config) { c.Bus.Kinds = []string{"a", "a"} }, "bus.kinds"},
		{"bad driver", func(c *Config) { c.Journal.Driver = "postgres" }, "journal.driver"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, IsConfigError(err))
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestValidate_ReportsAllFields(t *testing.T) {
	cfg := Default()
	cfg.Schedule.Ticks = 0
	cfg.Schedule.RuleCadence = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schedule.ticks")
	assert.Contains(t, err.Error(), "schedule.rule_cadence")
}

func TestMessageKinds_Custom(t *testing.T) {
	cfg := Default()
	cfg.Bus.Kinds = []string{"ping", "pong"}

	kinds := cfg.MessageKinds()
	require.Len(t, kinds, 2)
	assert.Equal(t, "ping", string(kinds[0]))
}

func TestLoad_YAML(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "full.yaml"))
	require.NoError(t, err)

	assertFullConfig(t, cfg)
}

func TestLoad_CUE(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "full.cue"))
	require.NoError(t, err)

	assertFullConfig(t, cfg)
}

func assertFullConfig(t *testing.T, cfg Config) {
	t.Helper()
	assert.Equal(t, 300.0, cfg.Rules.Premium)
	assert.Equal(t, 80.0, cfg.Rules.LowBudget)
	assert.Equal(t, 30.0, cfg.Rules.HighValue, "unspecified values keep defaults")
	assert.Equal(t, 25, cfg.Schedule.Ticks)
	assert.Equal(t, 5, cfg.Schedule.RuleCadence)
	assert.Equal(t, int64(42), cfg.Schedule.Seed)
	assert.Equal(t, 64, cfg.Schedule.SnapshotBuffer)
	assert.Equal(t, 100, cfg.Bus.Retention)
	assert.Equal(t, PopulationConfig{Customers: 4, Employees: 1, Books: 6}, cfg.Population)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestParseYAML_Empty(t *testing.T) {
	cfg, err := ParseYAML(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseYAML_UnknownField(t *testing.T) {
	_, err := ParseYAML([]byte("schedule:\n  tick: 5\n"))
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
}

func TestParseYAML_InvalidValue(t *testing.T) {
	_, err := ParseYAML([]byte("schedule:\n  rule_cadence: 0\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schedule.rule_cadence")
}

func TestParseCUE_SchemaViolation(t *testing.T) {
	_, err := ParseCUE([]byte("schedule: rule_cadence: 0\n"), "bad.cue")
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
}

func TestParseCUE_UnknownField(t *testing.T) {
	_, err := ParseCUE([]byte("schedule: tick: 5\n"), "bad.cue")
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
}

func TestParseCUE_SyntaxError(t *testing.T) {
	_, err := ParseCUE([]byte("schedule: {"), "bad.cue")
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("x = 1"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.False(t, IsConfigError(err))
}
