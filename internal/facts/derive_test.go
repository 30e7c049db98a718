package facts

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/ir"
)

func TestDeriver_AssertIsIdempotentPerPass(t *testing.T) {
	s := newTestStore(t)
	d := s.Deriver()

	assert.True(t, d.Assert("book_0", ir.LowStockBook))
	assert.False(t, d.Assert("book_0", ir.LowStockBook), "second assert of same label must not count")
	assert.False(t, d.Assert("ghost", ir.LowStockBook))
	assert.True(t, s.HasLabel("book_0", ir.LowStockBook))
}

func TestDeriver_ClearScoped(t *testing.T) {
	s := newTestStore(t)
	d := s.Deriver()
	d.Assert("book_0", ir.LowStockBook)
	d.Assert("book_0", ir.RestockRequired)
	d.Assert("customer_0", ir.PremiumCustomer)

	removed := d.Clear(ir.Book)
	assert.Equal(t, 2, removed)
	assert.Empty(t, s.Labels("book_0"))
	assert.Equal(t, []ir.Label{ir.PremiumCustomer}, s.Labels("customer_0"))

	removed = d.Clear()
	assert.Equal(t, 1, removed)
	assert.Empty(t, s.LabelSet())
}

func TestStore_LabelsSorted(t *testing.T) {
	s := newTestStore(t)
	d := s.Deriver()
	d.Assert("book_0", ir.RestockRequired)
	d.Assert("book_0", ir.LowStockBook)

	assert.Equal(t, []ir.Label{ir.LowStockBook, ir.RestockRequired}, s.Labels("book_0"))
	assert.Equal(t, map[ir.EntityID][]ir.Label{
		"book_0": {ir.LowStockBook, ir.RestockRequired},
	}, s.LabelSet())
}
