package rules

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/facts"
	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/ir"
)

// Engine evaluates a validated rule set against a fact store.
// An Engine holds no per-pass state and may be reused across runs.
type Engine struct {
	thresholds Thresholds
	tiers      [2][]Rule
	scope      []ir.EntityType
	produces   []ir.Label
	schema     facts.Schema
	logger     *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger for skipped entities. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithSchema checks every rule's declared attributes against schema at
// construction, so a rule reading an undeclared attribute fails there
// rather than silently never matching.
func WithSchema(s facts.Schema) Option {
	return func(e *Engine) {
		e.schema = s
	}
}

// Result describes one evaluation pass.
type Result struct {
	// Cleared is the number of labels removed before re-derivation.
	Cleared int

	// Asserted is the number of labels asserted in this pass.
	Asserted int

	// PerRule counts assertions by rule name.
	PerRule map[string]int

	// Skipped counts (rule, entity) pairs whose match returned an error.
	Skipped int
}

// New validates rules and builds an engine.
//
// All wiring errors are reported together, joined. A Tier 2 rule that
// requires a label no Tier 1 rule produces is a wiring error.
func New(th Thresholds, rules []Rule, opts ...Option) (*Engine, error) {
	e := &Engine{thresholds: th}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}

	if err := e.validate(rules); err != nil {
		return nil, err
	}

	for _, r := range rules {
		r.Requires = slices.Clone(r.Requires)
		r.Attributes = slices.Clone(r.Attributes)
		e.tiers[r.Tier-1] = append(e.tiers[r.Tier-1], r)
		if !slices.Contains(e.scope, r.Type) {
			e.scope = append(e.scope, r.Type)
		}
		if !slices.Contains(e.produces, r.Produces) {
			e.produces = append(e.produces, r.Produces)
		}
	}
	return e, nil
}

// NewDefault builds an engine over DefaultRules.
func NewDefault(th Thresholds, opts ...Option) (*Engine, error) {
	return New(th, DefaultRules(), opts...)
}

func (e *Engine) validate(rules []Rule) error {
	var errs []error
	invalid := func(rule, format string, args ...any) {
		errs = append(errs, &WiringError{Code: ErrCodeInvalidRule, Rule: rule, Message: fmt.Sprintf(format, args...)})
	}

	base := make(map[ir.Label]bool)
	names := make(map[string]bool, len(rules))
	for _, r := range rules {
		if r.Name == "" {
			invalid(r.Name, "name is required")
		} else if names[r.Name] {
			errs = append(errs, &WiringError{Code: ErrCodeDuplicateRule, Rule: r.Name, Message: "rule names must be unique"})
		}
		names[r.Name] = true

		if r.Tier != TierBase && r.Tier != TierComposite {
			invalid(r.Name, "unknown tier %d", int(r.Tier))
		}
		if !slices.Contains(ir.EntityTypes, r.Type) {
			invalid(r.Name, "unknown entity type %q", r.Type)
		}
		if r.Produces == "" {
			invalid(r.Name, "produced label is required")
		}
		if r.Match == nil {
			invalid(r.Name, "match function is required")
		}
		if r.Tier == TierBase {
			if len(r.Requires) > 0 {
				invalid(r.Name, "tier 1 rules read raw facts only, but requires %v", r.Requires)
			}
			base[r.Produces] = true
		}
		if e.schema != nil {
			for _, attr := range r.Attributes {
				if _, ok := e.schema.Lookup(r.Type, attr); !ok {
					invalid(r.Name, "attribute %q is not declared for %s", attr, r.Type)
				}
			}
		}
	}

	for _, r := range rules {
		if r.Tier != TierComposite {
			continue
		}
		for _, req := range r.Requires {
			if !base[req] {
				errs = append(errs, &WiringError{
					Code:    ErrCodeMissingDependency,
					Rule:    r.Name,
					Missing: req,
					Message: "no tier 1 rule produces it",
				})
			}
		}
	}

	return errors.Join(errs...)
}

// Thresholds returns the engine's thresholds.
func (e *Engine) Thresholds() Thresholds {
	return e.thresholds
}

// Rules returns the rules in evaluation order.
func (e *Engine) Rules() []Rule {
	return append(slices.Clone(e.tiers[0]), e.tiers[1]...)
}

// Labels returns every label the rule set can produce, in rule order.
func (e *Engine) Labels() []ir.Label {
	return slices.Clone(e.produces)
}

// Evaluate runs one pass and returns the number of labels asserted.
func (e *Engine) Evaluate(s *facts.Store) int {
	return e.Pass(s).Asserted
}

// Pass runs one full pass and reports what it did.
//
// Tier 2 rules only run after every Tier 1 rule has been applied to every
// entity, so they never observe a partially updated Tier 1 state.
func (e *Engine) Pass(s *facts.Store) Result {
	d := s.Deriver()
	res := Result{
		Cleared: d.Clear(e.scope...),
		PerRule: make(map[string]int),
	}

	for _, tier := range e.tiers {
		for _, r := range tier {
			for ent := range s.Query(r.Type, nil) {
				ok, err := r.Match(s, ent, e.thresholds)
				if err != nil {
					// Mismatched or absent facts make this entity non-matching.
					res.Skipped++
					e.logger.Debug("rule skipped entity",
						"rule", r.Name,
						"entity", ent.ID,
						"type_mismatch", facts.IsTypeMismatch(err),
						"error", err)
					continue
				}
				if ok && d.Assert(ent.ID, r.Produces) {
					res.Asserted++
					res.PerRule[r.Name]++
				}
			}
		}
	}

	e.logger.Debug("rule pass complete",
		"cleared", res.Cleared,
		"asserted", res.Asserted,
		"skipped", res.Skipped)
	return res
}

// Summary counts entities per producible label in the current store,
// including labels with a zero count.
func (e *Engine) Summary(s *facts.Store) map[ir.Label]int {
	counts := make(map[ir.Label]int, len(e.produces))
	for _, l := range e.produces {
		counts[l] = 0
	}
	type pair struct {
		t ir.EntityType
		l ir.Label
	}
	seen := make(map[pair]bool)
	for _, r := range e.Rules() {
		if seen[pair{r.Type, r.Produces}] {
			continue
		}
		seen[pair{r.Type, r.Produces}] = true
		for ent := range s.Query(r.Type, nil) {
			if s.HasLabel(ent.ID, r.Produces) {
				counts[r.Produces]++
			}
		}
	}
	return counts
}
