package agents

import (
	"context"
	"math"

	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/engine"
	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/ir"
)

// Pricing bounds relative to the base price.
const (
	repriceRate   = 0.15
	lowStockLevel = 5
	highStock     = 25
	maxMarkup     = 1.4
	maxMarkdown   = 0.75
)

// Book reprices itself by stock level and broadcasts the change.
type Book struct {
	id     ir.EntityID
	ledger *Ledger
}

// ID implements engine.Actor.
func (b *Book) ID() ir.EntityID { return b.id }

// Activate reprices the book 15% of the time.
func (b *Book) Activate(_ context.Context, act engine.Activation) error {
	if act.Rand.Float64() >= repriceRate {
		return nil
	}
	return b.reprice(act)
}

// reprice raises the price 10% when stock is low and cuts it 5% when
// stock is high, within [0.75, 1.4] of the base price.
func (b *Book) reprice(act engine.Activation) error {
	qty, ok, err := act.Facts.Number(b.id, ir.AttrQuantity)
	if err != nil || !ok {
		return err
	}
	price, _, err := act.Facts.Number(b.id, ir.AttrPrice)
	if err != nil {
		return err
	}
	base, ok, err := act.Facts.Number(b.id, ir.AttrBasePrice)
	if err != nil {
		return err
	}
	if !ok {
		base = price
	}

	var next float64
	switch {
	case qty < lowStockLevel:
		next = min(price*1.1, base*maxMarkup)
	case qty > highStock:
		next = max(price*0.95, base*maxMarkdown)
	default:
		return nil
	}
	next = round2(next)
	if math.Abs(next-price) <= 0.01 {
		return nil
	}

	if err := act.Facts.Set(b.id, ir.AttrPrice, ir.Number(next)); err != nil {
		return err
	}
	b.ledger.PriceChanges++
	_, err = act.Bus.Publish(b.id, ir.KindPriceChange, ir.Object{
		"book_id":   ir.String(b.id),
		"old_price": ir.Number(price),
		"new_price": ir.Number(next),
	})
	return err
}
