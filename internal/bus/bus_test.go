package bus

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/ir"
)

func kindsOf(msgs []ir.Message) []ir.MessageKind {
	out := make([]ir.MessageKind, len(msgs))
	for i, m := range msgs {
		out[i] = m.Kind
	}
	return out
}

func sumPerKind(s Stats) int64 {
	var sum int64
	for _, n := range s.PerKind {
		sum += n
	}
	return sum
}

func TestBus_RetentionEvictsOldestButKeepsCounters(t *testing.T) {
	b, err := New(3, "A", "B", "C", "D")
	require.NoError(t, err)

	for _, k := range []ir.MessageKind{"A", "B", "C", "D"} {
		_, err := b.Publish("customer_0", k, nil)
		require.NoError(t, err)
	}

	assert.Equal(t, []ir.MessageKind{"B", "C", "D"}, kindsOf(b.Since(0)))

	stats := b.Statistics()
	assert.Equal(t, int64(4), stats.Total)
	assert.Equal(t, map[ir.MessageKind]int64{"A": 1, "B": 1, "C": 1, "D": 1}, stats.PerKind)
	assert.Equal(t, 3, stats.Retained)
	assert.Equal(t, int64(1), stats.Evicted)
	assert.Equal(t, stats.Total, sumPerKind(stats))
}

func TestBus_TotalEqualsSumOfPerKindUnderHeavyEviction(t *testing.T) {
	b, err := New(2)
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		kind := ir.DefaultMessageKinds[i%len(ir.DefaultMessageKinds)]
		_, err := b.Publish("book_1", kind, ir.Object{"i": ir.Number(i)})
		require.NoError(t, err)

		stats := b.Statistics()
		require.Equal(t, stats.Total, sumPerKind(stats), "after publish %d", i)
	}
	assert.Len(t, b.Since(0), 2)
	assert.Equal(t, int64(98), b.Statistics().Evicted)
}

func TestBus_SequenceNumbersMonotonic(t *testing.T) {
	b, err := New(10)
	require.NoError(t, err)

	var last int64
	for i := 0; i < 5; i++ {
		seq, err := b.Publish("employee_0", ir.KindRestockComplete, nil)
		require.NoError(t, err)
		assert.Greater(t, seq, last)
		last = seq
	}
	assert.Equal(t, int64(5), b.Statistics().LastSeq)
}

func TestBus_SinceIsIncremental(t *testing.T) {
	b, err := New(10)
	require.NoError(t, err)

	first, _ := b.Publish("c", ir.KindPurchaseComplete, nil)
	b.Publish("c", ir.KindPurchaseFailed, nil)
	b.Publish("c", ir.KindPurchaseComplete, nil)

	msgs := b.Since(first)
	require.Len(t, msgs, 2)
	assert.Equal(t, ir.KindPurchaseFailed, msgs[0].Kind)
	assert.Empty(t, b.Since(msgs[1].Seq))
}

func TestBus_InvalidKind(t *testing.T) {
	b, err := New(10)
	require.NoError(t, err)

	_, err = b.Publish("c", "gossip", nil)
	require.Error(t, err)
	assert.True(t, IsInvalidMessageKind(err))

	stats := b.Statistics()
	assert.Equal(t, int64(0), stats.Total)
	assert.Empty(t, b.Since(0))
}

func TestBus_NewValidation(t *testing.T) {
	_, err := New(0)
	assert.Error(t, err)

	_, err = New(5, "")
	assert.Error(t, err)

	b, err := New(5)
	require.NoError(t, err)
	assert.Equal(t, ir.DefaultMessageKinds, b.Kinds())
	assert.Equal(t, 5, b.Capacity())
}

func TestBus_TickStamp(t *testing.T) {
	b, err := New(10)
	require.NoError(t, err)

	b.SetTick(7)
	b.Publish("c", ir.KindPurchaseComplete, nil)

	msgs := b.Since(0)
	require.Len(t, msgs, 1)
	assert.Equal(t, int64(7), msgs[0].Tick)
}

func TestBus_PayloadIsCopied(t *testing.T) {
	b, err := New(10)
	require.NoError(t, err)

	payload := ir.Object{"book": ir.String("Fantasy Realms")}
	b.Publish("c", ir.KindPurchaseComplete, payload)
	payload["book"] = ir.String("mutated")

	got := b.Since(0)
	assert.Equal(t, ir.String("Fantasy Realms"), got[0].Payload["book"])

	got[0].Payload["book"] = ir.String("mutated by reader")
	assert.Equal(t, ir.String("Fantasy Realms"), b.Since(0)[0].Payload["book"])
}

func TestBus_ForFiltersByReceiver(t *testing.T) {
	b, err := New(10)
	require.NoError(t, err)

	b.PublishTo("employee_0", "customer_1", ir.KindDiscountOffer, nil)
	b.PublishTo("employee_0", "customer_2", ir.KindDiscountOffer, nil)
	b.Publish("book_0", ir.KindPriceChange, nil)
	b.Publish("customer_1", ir.KindPurchaseComplete, nil)

	msgs := b.For("customer_1", 0)
	assert.Equal(t, []ir.MessageKind{ir.KindDiscountOffer, ir.KindPriceChange}, kindsOf(msgs))

	// Broadcast senders do not receive their own broadcasts.
	assert.Empty(t, b.For("book_0", 0))
}

func TestBus_Reset(t *testing.T) {
	b, err := New(10)
	require.NoError(t, err)
	b.Publish("c", ir.KindPurchaseComplete, nil)

	b.Reset()

	stats := b.Statistics()
	assert.Equal(t, int64(0), stats.Total)
	assert.Empty(t, stats.PerKind)
	assert.Empty(t, b.Since(0))

	seq, _ := b.Publish("c", ir.KindPurchaseComplete, nil)
	assert.Equal(t, int64(1), seq)
}

func TestBus_ConcurrentReaders(t *testing.T) {
	b, err := New(50)
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			b.Publish("c", ir.KindPurchaseComplete, nil)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			s := b.Statistics()
			if s.Total != sumPerKind(s) {
				t.Errorf("inconsistent stats: total=%d sum=%d", s.Total, sumPerKind(s))
				return
			}
			_ = b.Since(0)
		}
	}()
	wg.Wait()

	assert.Equal(t, int64(500), b.Statistics().Total)
}
