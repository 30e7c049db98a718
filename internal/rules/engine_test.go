package rules

import (
	"io"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/facts"
	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/ir"
)

var quiet = WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

func newEngine(t *testing.T, th Thresholds) *Engine {
	t.Helper()
	e, err := NewDefault(th, WithSchema(facts.DefaultSchema()), quiet)
	require.NoError(t, err)
	return e
}

func add(t *testing.T, s *facts.Store, id ir.EntityID, typ ir.EntityType, attrs map[string]ir.Value) {
	t.Helper()
	require.NoError(t, s.Add(ir.Entity{ID: id, Type: typ}, attrs))
}

func bookstore(t *testing.T) *facts.Store {
	t.Helper()
	s := facts.New(nil)
	add(t, s, "customer_0", ir.Customer, map[string]ir.Value{
		ir.AttrBudget:    ir.Number(300),
		ir.AttrPurchases: ir.NewRefs("book_0"),
	})
	add(t, s, "customer_1", ir.Customer, map[string]ir.Value{
		ir.AttrBudget: ir.Number(60),
	})
	add(t, s, "customer_2", ir.Customer, map[string]ir.Value{
		ir.AttrBudget: ir.Number(400),
	})
	add(t, s, "book_0", ir.Book, map[string]ir.Value{
		ir.AttrPrice:    ir.Number(35),
		ir.AttrQuantity: ir.Number(3),
	})
	add(t, s, "book_1", ir.Book, map[string]ir.Value{
		ir.AttrPrice:    ir.Number(12),
		ir.AttrQuantity: ir.Number(40),
	})
	add(t, s, "employee_0", ir.Employee, map[string]ir.Value{
		ir.AttrManages: ir.NewRefs("book_0", "book_1"),
	})
	add(t, s, "employee_1", ir.Employee, map[string]ir.Value{
		ir.AttrManages: ir.NewRefs("book_0"),
	})
	return s
}

func TestEvaluate_PremiumActiveCustomerIsDiscountEligible(t *testing.T) {
	s := facts.New(nil)
	add(t, s, "c", ir.Customer, map[string]ir.Value{
		ir.AttrBudget:    ir.Number(300),
		ir.AttrPurchases: ir.NewRefs("b"),
	})
	e := newEngine(t, DefaultThresholds())

	n := e.Evaluate(s)

	assert.Equal(t, 3, n)
	assert.Equal(t, []ir.Label{ir.ActiveCustomer, ir.DiscountEligible, ir.PremiumCustomer}, s.Labels("c"))
}

func TestEvaluate_DefaultRuleSet(t *testing.T) {
	s := bookstore(t)
	e := newEngine(t, DefaultThresholds())

	n := e.Evaluate(s)

	want := map[ir.EntityID][]ir.Label{
		"customer_0": {ir.ActiveCustomer, ir.DiscountEligible, ir.PremiumCustomer},
		"customer_1": {ir.LowBudgetCustomer},
		"customer_2": {ir.PremiumCustomer},
		"book_0":     {ir.HighValueBook, ir.LowStockBook, ir.RestockRequired},
		"book_1":     {ir.OverstockedBook},
		"employee_0": {ir.HighPerformingEmployee},
	}
	if diff := cmp.Diff(want, s.LabelSet()); diff != "" {
		t.Errorf("label set mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 10, n)
}

func TestEvaluate_Idempotent(t *testing.T) {
	s := bookstore(t)
	e := newEngine(t, DefaultThresholds())

	first := e.Evaluate(s)
	labels := s.LabelSet()
	second := e.Evaluate(s)

	assert.Equal(t, first, second)
	if diff := cmp.Diff(labels, s.LabelSet()); diff != "" {
		t.Errorf("second pass changed labels (-first +second):\n%s", diff)
	}
}

func TestEvaluate_ClearsStaleLabels(t *testing.T) {
	s := bookstore(t)
	e := newEngine(t, DefaultThresholds())
	e.Evaluate(s)
	require.True(t, s.HasLabel("customer_0", ir.DiscountEligible))

	require.NoError(t, s.Set("customer_0", ir.AttrBudget, ir.Number(50)))
	require.NoError(t, s.Set("book_1", ir.AttrQuantity, ir.Number(10)))
	res := e.Pass(s)

	assert.Equal(t, []ir.Label{ir.ActiveCustomer, ir.LowBudgetCustomer}, s.Labels("customer_0"))
	assert.Empty(t, s.Labels("book_1"))
	assert.False(t, s.HasLabel("employee_0", ir.HighPerformingEmployee),
		"tier 2 must not read the previous pass's tier 1 labels")
	assert.Equal(t, 10, res.Cleared)
}

func TestEvaluate_SeparateLowStockAndRestockThresholds(t *testing.T) {
	s := facts.New(nil)
	add(t, s, "at_five", ir.Book, map[string]ir.Value{ir.AttrQuantity: ir.Number(5)})
	add(t, s, "at_seven", ir.Book, map[string]ir.Value{ir.AttrQuantity: ir.Number(7)})

	th := DefaultThresholds()
	th.Restock = 8
	e := newEngine(t, th)
	e.Evaluate(s)

	// Rule 4 is strict; rule 7 is inclusive and uses its own knob.
	assert.Equal(t, []ir.Label{ir.RestockRequired}, s.Labels("at_five"))
	assert.Equal(t, []ir.Label{ir.RestockRequired}, s.Labels("at_seven"))
}

func TestEvaluate_PerBookRestockThreshold(t *testing.T) {
	s := facts.New(nil)
	add(t, s, "fast_seller", ir.Book, map[string]ir.Value{
		ir.AttrQuantity:         ir.Number(12),
		ir.AttrRestockThreshold: ir.Number(15),
	})
	add(t, s, "slow_seller", ir.Book, map[string]ir.Value{
		ir.AttrQuantity:         ir.Number(4),
		ir.AttrRestockThreshold: ir.Number(2),
	})

	e := newEngine(t, DefaultThresholds())
	e.Evaluate(s)

	assert.True(t, s.HasLabel("fast_seller", ir.RestockRequired))
	assert.False(t, s.HasLabel("slow_seller", ir.RestockRequired))
	assert.True(t, s.HasLabel("slow_seller", ir.LowStockBook))
}

func TestEvaluate_AbsentAttributeIsNonMatching(t *testing.T) {
	s := facts.New(nil)
	add(t, s, "nobody", ir.Customer, nil)
	add(t, s, "ghost_book", ir.Book, nil)
	add(t, s, "idle", ir.Employee, nil)

	e := newEngine(t, DefaultThresholds())
	res := e.Pass(s)

	assert.Zero(t, res.Asserted)
	assert.Zero(t, res.Skipped)
	assert.Empty(t, s.LabelSet())
}

func TestEvaluate_TypeMismatchSkipsEntityOnly(t *testing.T) {
	s := bookstore(t)
	wrong := Rule{
		Name:     "budget_as_text",
		Tier:     TierBase,
		Type:     ir.Customer,
		Produces: "Named",
		Match: func(r facts.Reader, e ir.Entity, _ Thresholds) (bool, error) {
			_, ok, err := r.Text(e.ID, ir.AttrBudget)
			return ok, err
		},
	}
	e, err := New(DefaultThresholds(), append(DefaultRules(), wrong), quiet)
	require.NoError(t, err)

	res := e.Pass(s)

	assert.Equal(t, 3, res.Skipped)
	assert.Zero(t, res.PerRule["budget_as_text"])
	assert.Equal(t, 10, res.Asserted, "other rules are unaffected")
}

func TestPass_PerRuleCounts(t *testing.T) {
	s := bookstore(t)
	e := newEngine(t, DefaultThresholds())

	res := e.Pass(s)

	assert.Equal(t, map[string]int{
		"premium_customer":         2,
		"low_budget_customer":      1,
		"high_value_book":          1,
		"low_stock_book":           1,
		"overstocked_book":         1,
		"active_customer":          1,
		"restock_required":         1,
		"discount_eligible":        1,
		"high_performing_employee": 1,
	}, res.PerRule)
}

func TestSummary(t *testing.T) {
	s := bookstore(t)
	e := newEngine(t, DefaultThresholds())

	before := e.Summary(s)
	assert.Len(t, before, 9)
	assert.Zero(t, before[ir.PremiumCustomer])

	e.Evaluate(s)
	after := e.Summary(s)
	assert.Equal(t, 2, after[ir.PremiumCustomer])
	assert.Equal(t, 1, after[ir.HighPerformingEmployee])
	assert.Equal(t, 0, after["Unknown"])
}

func TestNew_MissingTierOneDependency(t *testing.T) {
	rules := append(DefaultRules(), Rule{
		Name:     "loyal_customer",
		Tier:     TierComposite,
		Type:     ir.Customer,
		Produces: "LoyalCustomer",
		Requires: []ir.Label{"FrequentBuyer"},
		Match:    hasLabels("FrequentBuyer"),
	})

	_, err := New(DefaultThresholds(), rules)
	require.Error(t, err)
	assert.True(t, IsWiringError(err))
	assert.True(t, IsMissingDependency(err))

	errs := WiringErrors(err)
	require.Len(t, errs, 1)
	assert.Equal(t, "loyal_customer", errs[0].Rule)
	assert.Equal(t, ir.Label("FrequentBuyer"), errs[0].Missing)
}

func TestNew_TierTwoCannotDependOnTierTwo(t *testing.T) {
	rules := append(DefaultRules(), Rule{
		Name:     "vip",
		Tier:     TierComposite,
		Type:     ir.Customer,
		Produces: "VIP",
		Requires: []ir.Label{ir.DiscountEligible},
		Match:    hasLabels(ir.DiscountEligible),
	})

	_, err := New(DefaultThresholds(), rules)
	assert.True(t, IsMissingDependency(err))
}

func TestNew_InvalidRules(t *testing.T) {
	match := hasLabels()
	tests := []struct {
		name string
		rule Rule
		code WiringErrorCode
	}{
		{"duplicate name", Rule{Name: "premium_customer", Tier: TierBase, Type: ir.Customer, Produces: "X", Match: match}, ErrCodeDuplicateRule},
		{"missing name", Rule{Tier: TierBase, Type: ir.Customer, Produces: "X", Match: match}, ErrCodeInvalidRule},
		{"unknown tier", Rule{Name: "x", Tier: 3, Type: ir.Customer, Produces: "X", Match: match}, ErrCodeInvalidRule},
		{"unknown type", Rule{Name: "x", Tier: TierBase, Type: "Author", Produces: "X", Match: match}, ErrCodeInvalidRule},
		{"no label", Rule{Name: "x", Tier: TierBase, Type: ir.Customer, Match: match}, ErrCodeInvalidRule},
		{"no match", Rule{Name: "x", Tier: TierBase, Type: ir.Customer, Produces: "X"}, ErrCodeInvalidRule},
		{"tier 1 requires", Rule{Name: "x", Tier: TierBase, Type: ir.Customer, Produces: "X", Requires: []ir.Label{ir.PremiumCustomer}, Match: match}, ErrCodeInvalidRule},
		{"undeclared attribute", Rule{Name: "x", Tier: TierBase, Type: ir.Customer, Produces: "X", Attributes: []string{"loyalty"}, Match: match}, ErrCodeInvalidRule},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(DefaultThresholds(), append(DefaultRules(), tt.rule), WithSchema(facts.DefaultSchema()))
			errs := WiringErrors(err)
			require.Len(t, errs, 1)
			assert.Equal(t, tt.code, errs[0].Code)
		})
	}
}

func TestNew_ReportsAllErrors(t *testing.T) {
	_, err := New(DefaultThresholds(), []Rule{
		{Name: "a", Tier: TierComposite, Type: ir.Customer, Produces: "A", Requires: []ir.Label{"X"}, Match: hasLabels("X")},
		{Name: "b", Tier: TierComposite, Type: ir.Book, Produces: "B", Requires: []ir.Label{"Y"}, Match: hasLabels("Y")},
	})

	assert.Len(t, WiringErrors(err), 2)
}

func TestRules_TierOrder(t *testing.T) {
	e := newEngine(t, DefaultThresholds())

	rules := e.Rules()
	require.Len(t, rules, 9)
	for i, r := range rules {
		if i < 7 {
			assert.Equal(t, TierBase, r.Tier, r.Name)
		} else {
			assert.Equal(t, TierComposite, r.Tier, r.Name)
		}
	}
	assert.Len(t, e.Labels(), 9)
	assert.Equal(t, "tier2", TierComposite.String())
}
