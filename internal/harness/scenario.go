package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/config"
	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/ir"
)

// Scenario is one scripted simulation with expectations on its outcome.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Config overrides the default configuration. Omitted fields keep
	// their defaults.
	Config yaml.Node `yaml:"config,omitempty"`

	// RunID is stamped on every snapshot. Defaults to testutil.RunID.
	RunID string `yaml:"run_id,omitempty"`

	// Entities are registered in order before the run starts.
	Entities []EntityDef `yaml:"entities"`

	// Actions are scripted per tick. Actions of one actor in the same
	// tick run in file order.
	Actions []Action `yaml:"actions,omitempty"`

	// Assertions are checked after the run completes.
	Assertions []Assertion `yaml:"assertions"`
}

// EntityDef declares one entity and its initial attributes.
type EntityDef struct {
	ID    string         `yaml:"id"`
	Type  string         `yaml:"type"`
	Attrs map[string]any `yaml:"attrs,omitempty"`
}

// Action is one scripted step. Exactly one of Set, Publish or Fail is used.
type Action struct {
	Tick  int64  `yaml:"tick"`
	Actor string `yaml:"actor"`

	Set     *SetAction     `yaml:"set,omitempty"`
	Publish *PublishAction `yaml:"publish,omitempty"`

	// Fail makes the activation return an error with this message.
	Fail string `yaml:"fail,omitempty"`
}

// SetAction writes one attribute.
type SetAction struct {
	Entity string `yaml:"entity"`
	Attr   string `yaml:"attr"`
	Value  any    `yaml:"value"`
}

// PublishAction sends one message from the acting entity.
type PublishAction struct {
	Kind    string         `yaml:"kind"`
	To      string         `yaml:"to,omitempty"`
	Payload map[string]any `yaml:"payload,omitempty"`
}

// Assertion checks the final state of a run.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	Entity string `yaml:"entity,omitempty"`
	Label  string `yaml:"label,omitempty"`
	Kind   string `yaml:"kind,omitempty"`
	Attr   string `yaml:"attr,omitempty"`
	Value  any    `yaml:"value,omitempty"`

	// Count is required by the counting assertions. It is a pointer so
	// that an explicit zero can be told apart from a missing field.
	Count *int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertHasLabel           = "has_label"
	AssertLacksLabel         = "lacks_label"
	AssertLabelCount         = "label_count"
	AssertMessageCount       = "message_count"
	AssertRulePasses         = "rule_passes"
	AssertActivationFailures = "activation_failures"
	AssertAttribute          = "attribute"
)

// LoadScenario reads and parses a scenario YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML. Unknown fields are rejected and
// required fields are checked.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// LoadDir loads every .yaml/.yml scenario in dir, sorted by file name.
func LoadDir(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario directory: %w", err)
	}

	var scenarios []*Scenario
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".yaml", ".yml":
		default:
			continue
		}
		s, err := LoadScenario(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Name(), err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// ResolveConfig decodes the scenario's config overrides over the defaults.
func (s *Scenario) ResolveConfig() (config.Config, error) {
	if s.Config.Kind == 0 {
		return config.Default(), nil
	}
	data, err := yaml.Marshal(&s.Config)
	if err != nil {
		return config.Config{}, fmt.Errorf("encode config overrides: %w", err)
	}
	return config.ParseYAML(data)
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Entities) == 0 {
		return fmt.Errorf("entities list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	declared := make(map[string]bool, len(s.Entities))
	for i, e := range s.Entities {
		if e.ID == "" {
			return fmt.Errorf("entities[%d]: id is required", i)
		}
		if declared[e.ID] {
			return fmt.Errorf("entities[%d]: duplicate id %q", i, e.ID)
		}
		declared[e.ID] = true
		if _, err := ir.ParseEntityType(e.Type); err != nil {
			return fmt.Errorf("entities[%d]: %w", i, err)
		}
	}

	for i, a := range s.Actions {
		if err := validateAction(i, &a, declared); err != nil {
			return err
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a); err != nil {
			return err
		}
	}
	return nil
}

func validateAction(index int, a *Action, declared map[string]bool) error {
	if a.Tick < 0 {
		return fmt.Errorf("actions[%d]: tick must be non-negative", index)
	}
	if !declared[a.Actor] {
		return fmt.Errorf("actions[%d]: actor %q is not a declared entity", index, a.Actor)
	}

	set := 0
	if a.Set != nil {
		set++
		if !declared[a.Set.Entity] {
			return fmt.Errorf("actions[%d]: set entity %q is not declared", index, a.Set.Entity)
		}
		if a.Set.Attr == "" {
			return fmt.Errorf("actions[%d]: set attr is required", index)
		}
	}
	if a.Publish != nil {
		set++
		if a.Publish.Kind == "" {
			return fmt.Errorf("actions[%d]: publish kind is required", index)
		}
		if a.Publish.To != "" && !declared[a.Publish.To] {
			return fmt.Errorf("actions[%d]: publish receiver %q is not declared", index, a.Publish.To)
		}
	}
	if a.Fail != "" {
		set++
	}
	if set != 1 {
		return fmt.Errorf("actions[%d]: exactly one of set, publish or fail is required", index)
	}
	return nil
}

var countedAssertions = []string{AssertLabelCount, AssertMessageCount, AssertRulePasses, AssertActivationFailures}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertHasLabel, AssertLacksLabel:
		if a.Entity == "" || a.Label == "" {
			return fmt.Errorf("assertions[%d]: entity and label are required for %s", index, a.Type)
		}
	case AssertLabelCount:
		if a.Label == "" {
			return fmt.Errorf("assertions[%d]: label is required for label_count", index)
		}
	case AssertMessageCount, AssertRulePasses, AssertActivationFailures:
	case AssertAttribute:
		if a.Entity == "" || a.Attr == "" || a.Value == nil {
			return fmt.Errorf("assertions[%d]: entity, attr and value are required for attribute", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	if slices.Contains(countedAssertions, a.Type) {
		if a.Count == nil {
			return fmt.Errorf("assertions[%d]: count is required for %s", index, a.Type)
		}
		if *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for %s", index, a.Type)
		}
	}
	return nil
}
