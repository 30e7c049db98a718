package rules

import (
	"fmt"

	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/facts"
	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/ir"
)

// Tier is a dependency layer of rules.
type Tier int

const (
	// TierBase rules read raw attributes only.
	TierBase Tier = 1

	// TierComposite rules may read labels produced by TierBase.
	TierComposite Tier = 2
)

// String returns "tier1" or "tier2".
func (t Tier) String() string {
	switch t {
	case TierBase, TierComposite:
		return fmt.Sprintf("tier%d", int(t))
	default:
		return fmt.Sprintf("Tier(%d)", int(t))
	}
}

// MatchFunc decides whether a rule holds for one entity.
// An error is treated as non-matching for that entity only.
type MatchFunc func(r facts.Reader, e ir.Entity, th Thresholds) (bool, error)

// Rule is one declarative classification rule.
type Rule struct {
	// Name identifies the rule in logs and wiring errors.
	Name string

	// Tier is the dependency layer.
	Tier Tier

	// Type is the entity type the rule ranges over.
	Type ir.EntityType

	// Produces is the label asserted when Match holds.
	Produces ir.Label

	// Requires lists the labels Match reads. Only Tier 2 rules may
	// require labels, and each must be produced by some Tier 1 rule.
	Requires []ir.Label

	// Attributes lists the attributes Match reads. When the engine is
	// built with a schema they are checked against it.
	Attributes []string

	Match MatchFunc
}

// DefaultRules returns the nine bookstore classification rules.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:       "premium_customer",
			Tier:       TierBase,
			Type:       ir.Customer,
			Produces:   ir.PremiumCustomer,
			Attributes: []string{ir.AttrBudget},
			Match: compare(ir.AttrBudget, func(v float64, th Thresholds) bool {
				return v > th.Premium
			}),
		},
		{
			Name:       "low_budget_customer",
			Tier:       TierBase,
			Type:       ir.Customer,
			Produces:   ir.LowBudgetCustomer,
			Attributes: []string{ir.AttrBudget},
			Match: compare(ir.AttrBudget, func(v float64, th Thresholds) bool {
				return v < th.LowBudget
			}),
		},
		{
			Name:       "high_value_book",
			Tier:       TierBase,
			Type:       ir.Book,
			Produces:   ir.HighValueBook,
			Attributes: []string{ir.AttrPrice},
			Match: compare(ir.AttrPrice, func(v float64, th Thresholds) bool {
				return v > th.HighValue
			}),
		},
		{
			Name:       "low_stock_book",
			Tier:       TierBase,
			Type:       ir.Book,
			Produces:   ir.LowStockBook,
			Attributes: []string{ir.AttrQuantity},
			Match: compare(ir.AttrQuantity, func(v float64, th Thresholds) bool {
				return v < th.LowStock
			}),
		},
		{
			Name:       "overstocked_book",
			Tier:       TierBase,
			Type:       ir.Book,
			Produces:   ir.OverstockedBook,
			Attributes: []string{ir.AttrQuantity},
			Match: compare(ir.AttrQuantity, func(v float64, th Thresholds) bool {
				return v > th.Overstock
			}),
		},
		{
			Name:       "active_customer",
			Tier:       TierBase,
			Type:       ir.Customer,
			Produces:   ir.ActiveCustomer,
			Attributes: []string{ir.AttrPurchases},
			Match:      matchActiveCustomer,
		},
		{
			Name:       "restock_required",
			Tier:       TierBase,
			Type:       ir.Book,
			Produces:   ir.RestockRequired,
			Attributes: []string{ir.AttrQuantity, ir.AttrRestockThreshold},
			Match:      matchRestockRequired,
		},
		{
			Name:     "discount_eligible",
			Tier:     TierComposite,
			Type:     ir.Customer,
			Produces: ir.DiscountEligible,
			Requires: []ir.Label{ir.PremiumCustomer, ir.ActiveCustomer},
			Match:    hasLabels(ir.PremiumCustomer, ir.ActiveCustomer),
		},
		{
			Name:       "high_performing_employee",
			Tier:       TierComposite,
			Type:       ir.Employee,
			Produces:   ir.HighPerformingEmployee,
			Requires:   []ir.Label{ir.OverstockedBook},
			Attributes: []string{ir.AttrManages},
			Match:      matchManagesOverstock,
		},
	}
}

// compare builds a match on one numeric attribute.
// An absent attribute is non-matching.
func compare(attr string, holds func(v float64, th Thresholds) bool) MatchFunc {
	return func(r facts.Reader, e ir.Entity, th Thresholds) (bool, error) {
		v, ok, err := r.Number(e.ID, attr)
		if err != nil || !ok {
			return false, err
		}
		return holds(v, th), nil
	}
}

func hasLabels(labels ...ir.Label) MatchFunc {
	return func(r facts.Reader, e ir.Entity, _ Thresholds) (bool, error) {
		for _, l := range labels {
			if !r.HasLabel(e.ID, l) {
				return false, nil
			}
		}
		return true, nil
	}
}

func matchActiveCustomer(r facts.Reader, e ir.Entity, _ Thresholds) (bool, error) {
	purchases, ok, err := r.Refs(e.ID, ir.AttrPurchases)
	if err != nil || !ok {
		return false, err
	}
	return len(purchases) > 0, nil
}

// matchRestockRequired prefers the book's own restock_threshold.
func matchRestockRequired(r facts.Reader, e ir.Entity, th Thresholds) (bool, error) {
	qty, ok, err := r.Number(e.ID, ir.AttrQuantity)
	if err != nil || !ok {
		return false, err
	}
	limit := th.Restock
	own, ok, err := r.Number(e.ID, ir.AttrRestockThreshold)
	if err != nil {
		return false, err
	}
	if ok {
		limit = own
	}
	return qty <= limit, nil
}

func matchManagesOverstock(r facts.Reader, e ir.Entity, _ Thresholds) (bool, error) {
	managed, ok, err := r.Refs(e.ID, ir.AttrManages)
	if err != nil || !ok {
		return false, err
	}
	for _, book := range managed {
		if r.HasLabel(book, ir.OverstockedBook) {
			return true, nil
		}
	}
	return false, nil
}
