package agents

import (
	"context"

	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/engine"
	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/ir"
)

// offerRate is the per-activation chance an employee sends a discount offer.
const offerRate = 0.1

// Employee restocks the books it manages and courts discount-eligible
// customers.
type Employee struct {
	id            ir.EntityID
	ledger        *Ledger
	cursor        int64
	restockAmount float64
	efficiency    float64
	threshold     float64
}

// ID implements engine.Actor.
func (e *Employee) ID() ir.EntityID { return e.id }

// Activate credits performance for observed sales, then may restock one
// managed book at or under its threshold and may send a discount offer.
func (e *Employee) Activate(_ context.Context, act engine.Activation) error {
	for _, msg := range inbox(act, e.id, &e.cursor) {
		if msg.Kind == ir.KindPurchaseComplete {
			if err := adjust(act, e.id, ir.AttrPerformance, 1, 0, 100); err != nil {
				return err
			}
		}
	}

	if act.Rand.Float64() < 0.7*e.efficiency {
		if err := e.restock(act); err != nil {
			return err
		}
	}
	if act.Rand.Float64() < offerRate {
		return e.offer(act)
	}
	return nil
}

func (e *Employee) restock(act engine.Activation) error {
	managed, _, err := act.Facts.Refs(e.id, ir.AttrManages)
	if err != nil {
		return err
	}

	var low []ir.EntityID
	for _, book := range managed {
		qty, ok, err := act.Facts.Number(book, ir.AttrQuantity)
		if err != nil {
			return err
		}
		limit := e.threshold
		if own, set, err := act.Facts.Number(book, ir.AttrRestockThreshold); err != nil {
			return err
		} else if set {
			limit = own
		}
		if ok && qty <= limit {
			low = append(low, book)
		}
	}
	if len(low) == 0 {
		return nil
	}

	book := low[act.Rand.IntN(len(low))]
	qty, _, err := act.Facts.Number(book, ir.AttrQuantity)
	if err != nil {
		return err
	}
	if err := act.Facts.Set(book, ir.AttrQuantity, ir.Number(qty+e.restockAmount)); err != nil {
		return err
	}
	if err := adjust(act, e.id, ir.AttrRestocks, 1, 0, 1e9); err != nil {
		return err
	}
	if err := adjust(act, e.id, ir.AttrPerformance, 2, 0, 100); err != nil {
		return err
	}

	e.ledger.Restocks++
	_, err = act.Bus.Publish(e.id, ir.KindRestockComplete, ir.Object{
		"book":   ir.String(book),
		"amount": ir.Number(e.restockAmount),
		"from":   ir.Number(qty),
	})
	return err
}

// offer sends a directed discount offer to one DiscountEligible customer.
// Eligibility is read from the labels of the latest rule pass.
func (e *Employee) offer(act engine.Activation) error {
	var eligible []ir.EntityID
	for c := range act.Facts.Query(ir.Customer, func(c ir.Entity) bool {
		return act.Facts.HasLabel(c.ID, ir.DiscountEligible)
	}) {
		eligible = append(eligible, c.ID)
	}
	if len(eligible) == 0 {
		return nil
	}

	to := eligible[act.Rand.IntN(len(eligible))]
	e.ledger.Offers++
	_, err := act.Bus.PublishTo(e.id, to, ir.KindDiscountOffer, ir.Object{
		"percent": ir.Number(10),
	})
	return err
}
