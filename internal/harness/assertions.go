package harness

import (
	"fmt"
	"strings"

	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/engine"
	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/facts"
	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/ir"
)

// AssertionContext is what assertions are evaluated against.
type AssertionContext struct {
	Facts     *facts.Store
	Scheduler *engine.Scheduler
}

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// EvaluateAssertions checks every assertion and returns the failure
// messages, in assertion order.
func EvaluateAssertions(assertions []Assertion, actx *AssertionContext) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluate(a, actx); err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %s", i, err))
		}
	}
	return errs
}

func evaluate(a Assertion, actx *AssertionContext) error {
	switch a.Type {
	case AssertHasLabel:
		return assertLabel(a, actx.Facts, true)
	case AssertLacksLabel:
		return assertLabel(a, actx.Facts, false)
	case AssertLabelCount:
		summary := actx.Scheduler.Rules().Summary(actx.Facts)
		return assertCount(a, fmt.Sprintf("entities labelled %s", a.Label), int64(summary[ir.Label(a.Label)]))
	case AssertMessageCount:
		stats := actx.Scheduler.Bus().Statistics()
		if a.Kind == "" {
			return assertCount(a, "messages", stats.Total)
		}
		return assertCount(a, fmt.Sprintf("%s messages", a.Kind), stats.PerKind[ir.MessageKind(a.Kind)])
	case AssertRulePasses:
		return assertCount(a, "rule passes", int64(actx.Scheduler.RulePasses()))
	case AssertActivationFailures:
		return assertCount(a, "activation failures", actx.Scheduler.FailureCount())
	case AssertAttribute:
		return assertAttribute(a, actx.Facts)
	default:
		return fmt.Errorf("unknown assertion type: %s", a.Type)
	}
}

func assertLabel(a Assertion, st *facts.Store, want bool) error {
	id := ir.EntityID(a.Entity)
	if _, ok := st.Entity(id); !ok {
		return &facts.UnknownEntityError{Entity: id}
	}
	if st.HasLabel(id, ir.Label(a.Label)) == want {
		return nil
	}
	expected := fmt.Sprintf("%s labelled %s", a.Entity, a.Label)
	if !want {
		expected = fmt.Sprintf("%s not labelled %s", a.Entity, a.Label)
	}
	return &AssertionError{
		Type:     a.Type,
		Expected: expected,
		Actual:   fmt.Sprintf("labels %v", st.Labels(id)),
	}
}

func assertCount(a Assertion, what string, actual int64) error {
	if actual == int64(*a.Count) {
		return nil
	}
	return &AssertionError{
		Type:     a.Type,
		Expected: fmt.Sprintf("%d %s", *a.Count, what),
		Actual:   fmt.Sprintf("%d %s", actual, what),
	}
}

func assertAttribute(a Assertion, st *facts.Store) error {
	want, err := ir.FromAny(a.Value)
	if err != nil {
		return fmt.Errorf("expected value: %w", err)
	}
	got, ok, err := st.Get(ir.EntityID(a.Entity), a.Attr)
	if err != nil {
		return err
	}
	actual := "unset"
	if ok {
		if ir.Equal(got, want) {
			return nil
		}
		actual = ir.Format(got)
	}
	return &AssertionError{
		Type:     a.Type,
		Expected: fmt.Sprintf("%s.%s = %s", a.Entity, a.Attr, ir.Format(want)),
		Actual:   fmt.Sprintf("%s.%s = %s", a.Entity, a.Attr, actual),
	}
}
