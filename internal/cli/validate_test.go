package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_YAML(t *testing.T) {
	path := writeFile(t, "sim.yaml", "schedule:\n  ticks: 40\n")

	out, err := execute(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")
	assert.Contains(t, out, "ticks: 40")
	assert.Contains(t, out, "rules: 9")
}

func TestValidate_CUEJSON(t *testing.T) {
	path := writeFile(t, "sim.cue", "schedule: {\n\tticks: 25\n\trule_cadence: 5\n}\n")

	out, err := execute(t, "validate", path, "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string         `json:"status"`
		Data   ValidateResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Valid)
	assert.Equal(t, 25, resp.Data.Config.Schedule.Ticks)
	assert.Equal(t, 5, resp.Data.Config.Schedule.RuleCadence)
}

func TestValidate_Invalid(t *testing.T) {
	path := writeFile(t, "bad.yaml", "schedule:\n  rule_cadence: 0\nbus:\n  retention: 0\n")

	out, err := execute(t, "validate", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "schedule.rule_cadence")
	assert.Contains(t, out, "bus.retention")
}

func TestValidate_UnknownField(t *testing.T) {
	path := writeFile(t, "typo.yaml", "schedul:\n  ticks: 4\n")

	_, err := execute(t, "validate", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestValidate_MissingFile(t *testing.T) {
	_, err := execute(t, "validate", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestValidate_RequiresArg(t *testing.T) {
	_, err := execute(t, "validate")
	require.Error(t, err)
}
