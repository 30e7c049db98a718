package agents

import (
	"context"

	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/engine"
	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/ir"
)

// Customer browses affordable books and eventually buys or walks away.
type Customer struct {
	id       ir.EntityID
	ledger   *Ledger
	cursor   int64
	browsing ir.EntityID
	interest int
}

// ID implements engine.Actor.
func (c *Customer) ID() ir.EntityID { return c.id }

// Activate processes the customer's inbox, then, 60% of the time, either
// picks a book to browse or moves closer to a purchase decision.
func (c *Customer) Activate(_ context.Context, act engine.Activation) error {
	for _, msg := range inbox(act, c.id, &c.cursor) {
		switch msg.Kind {
		case ir.KindPriceChange:
			if book, ok := msg.Payload["book_id"].(ir.String); ok && ir.EntityID(book) == c.browsing {
				c.interest = max(1, c.interest-1)
			}
		case ir.KindDiscountOffer:
			if err := adjust(act, c.id, ir.AttrSatisfaction, 5, 0, 100); err != nil {
				return err
			}
		}
	}

	if act.Rand.Float64() >= 0.6 {
		return nil
	}
	if c.browsing == "" {
		return c.browse(act)
	}
	return c.consider(act)
}

func (c *Customer) browse(act engine.Activation) error {
	budget, _, err := act.Facts.Number(c.id, ir.AttrBudget)
	if err != nil {
		return err
	}

	var affordable []ir.EntityID
	for book := range act.Facts.Query(ir.Book, nil) {
		price, ok, err := act.Facts.Number(book.ID, ir.AttrPrice)
		if err != nil {
			return err
		}
		if ok && price <= budget {
			affordable = append(affordable, book.ID)
		}
	}
	if len(affordable) == 0 {
		return nil
	}
	c.browsing = affordable[act.Rand.IntN(len(affordable))]
	c.interest = 2 + act.Rand.IntN(4)
	return nil
}

func (c *Customer) consider(act engine.Activation) error {
	c.interest--
	if c.interest > 0 {
		return nil
	}
	book := c.browsing
	c.browsing = ""

	if act.Rand.Float64() < 0.65 {
		return c.purchase(act, book)
	}
	return adjust(act, c.id, ir.AttrSatisfaction, -5, 0, 100)
}

// purchase moves one copy of book to the customer if it is in stock and
// affordable. A refused sale is a normal outcome, not an error.
func (c *Customer) purchase(act engine.Activation, book ir.EntityID) error {
	qty, _, err := act.Facts.Number(book, ir.AttrQuantity)
	if err != nil {
		return err
	}
	price, _, err := act.Facts.Number(book, ir.AttrPrice)
	if err != nil {
		return err
	}
	budget, _, err := act.Facts.Number(c.id, ir.AttrBudget)
	if err != nil {
		return err
	}

	if qty <= 0 || budget < price {
		c.ledger.FailedSales++
		if err := adjust(act, c.id, ir.AttrSatisfaction, -10, 0, 100); err != nil {
			return err
		}
		_, err := act.Bus.Publish(c.id, ir.KindPurchaseFailed, ir.Object{
			"book":     ir.String(book),
			"price":    ir.Number(price),
			"in_stock": ir.Bool(qty > 0),
		})
		return err
	}

	purchases, _, err := act.Facts.Refs(c.id, ir.AttrPurchases)
	if err != nil {
		return err
	}
	if err := act.Facts.Set(book, ir.AttrQuantity, ir.Number(qty-1)); err != nil {
		return err
	}
	if err := act.Facts.Set(c.id, ir.AttrBudget, ir.Number(round2(budget-price))); err != nil {
		return err
	}
	if err := act.Facts.Set(c.id, ir.AttrPurchases, purchases.With(book)); err != nil {
		return err
	}
	if err := adjust(act, c.id, ir.AttrSatisfaction, 15, 0, 100); err != nil {
		return err
	}

	c.ledger.Revenue += price
	c.ledger.Transactions++
	_, err = act.Bus.Publish(c.id, ir.KindPurchaseComplete, ir.Object{
		"book":  ir.String(book),
		"price": ir.Number(price),
	})
	return err
}
