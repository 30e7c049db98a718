package bus

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/ir"
)

// DefaultRetention is the ring buffer capacity used when none is configured.
// It holds a full run at default settings.
const DefaultRetention = 5000

// Participant is the view of the bus handed to actors.
type Participant interface {
	Publish(sender ir.EntityID, kind ir.MessageKind, payload ir.Object) (int64, error)
	PublishTo(sender, receiver ir.EntityID, kind ir.MessageKind, payload ir.Object) (int64, error)
	For(receiver ir.EntityID, since int64) []ir.Message
}

// Stats is a point-in-time copy of the bus counters.
type Stats struct {
	Total    int64                    `json:"total"`
	PerKind  map[ir.MessageKind]int64 `json:"per_kind"`
	Retained int                      `json:"retained"`
	Evicted  int64                    `json:"evicted"`
	LastSeq  int64                    `json:"last_seq"`
}

// Bus is an append-only message log with bounded retention.
type Bus struct {
	mu    sync.RWMutex
	kinds []ir.MessageKind
	clock *Clock

	ring []ir.Message
	head int // index of the oldest retained message
	size int
	tick int64

	total   int64
	perKind map[ir.MessageKind]int64
	evicted int64
}

// New creates a bus retaining at most capacity messages. Only the given
// kinds may be published; no kinds selects ir.DefaultMessageKinds.
func New(capacity int, kinds ...ir.MessageKind) (*Bus, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("bus retention must be positive, got %d", capacity)
	}
	if len(kinds) == 0 {
		kinds = ir.DefaultMessageKinds
	}
	for _, k := range kinds {
		if k == "" {
			return nil, fmt.Errorf("bus kinds: empty kind")
		}
	}
	b := &Bus{
		kinds:   slices.Clone(kinds),
		clock:   NewClock(),
		ring:    make([]ir.Message, capacity),
		perKind: make(map[ir.MessageKind]int64, len(kinds)),
	}
	return b, nil
}

// Capacity returns the retention limit.
func (b *Bus) Capacity() int {
	return len(b.ring)
}

// Kinds returns the fixed kind enumeration.
func (b *Bus) Kinds() []ir.MessageKind {
	return slices.Clone(b.kinds)
}

// SetTick sets the tick number stamped on subsequent messages.
func (b *Bus) SetTick(tick int64) {
	b.mu.Lock()
	b.tick = tick
	b.mu.Unlock()
}

// Publish records a broadcast message and returns its sequence number.
func (b *Bus) Publish(sender ir.EntityID, kind ir.MessageKind, payload ir.Object) (int64, error) {
	return b.PublishTo(sender, "", kind, payload)
}

// PublishTo records a message addressed to receiver. An empty receiver is
// a broadcast. Publish never blocks; when the ring is full the oldest
// message is evicted.
func (b *Bus) PublishTo(sender, receiver ir.EntityID, kind ir.MessageKind, payload ir.Object) (int64, error) {
	if !slices.Contains(b.kinds, kind) {
		return 0, &InvalidMessageKindError{Kind: kind}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	msg := ir.Message{
		Seq:      b.clock.Next(),
		Tick:     b.tick,
		Sender:   sender,
		Receiver: receiver,
		Kind:     kind,
		Payload:  payload.Clone(),
	}

	capacity := len(b.ring)
	if b.size == capacity {
		b.ring[b.head] = msg
		b.head = (b.head + 1) % capacity
		b.evicted++
	} else {
		b.ring[(b.head+b.size)%capacity] = msg
		b.size++
	}

	b.total++
	b.perKind[kind]++
	return msg.Seq, nil
}

// Statistics returns cumulative counters. Eviction never lowers them.
func (b *Bus) Statistics() Stats {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return Stats{
		Total:    b.total,
		PerKind:  maps.Clone(b.perKind),
		Retained: b.size,
		Evicted:  b.evicted,
		LastSeq:  b.clock.Current(),
	}
}

// Since returns retained messages with a sequence number greater than seq,
// oldest first.
func (b *Bus) Since(seq int64) []ir.Message {
	return b.collect(seq, func(ir.Message) bool { return true })
}

// For returns retained messages after seq that are addressed to receiver
// or broadcast by someone else.
func (b *Bus) For(receiver ir.EntityID, since int64) []ir.Message {
	return b.collect(since, func(m ir.Message) bool {
		if m.Receiver == "" {
			return m.Sender != receiver
		}
		return m.Receiver == receiver
	})
}

func (b *Bus) collect(seq int64, keep func(ir.Message) bool) []ir.Message {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]ir.Message, 0)
	capacity := len(b.ring)
	for i := 0; i < b.size; i++ {
		m := b.ring[(b.head+i)%capacity]
		if m.Seq <= seq || !keep(m) {
			continue
		}
		m.Payload = m.Payload.Clone()
		out = append(out, m)
	}
	return out
}

// Reset drops all messages and zeroes counters and the sequence clock.
func (b *Bus) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	clear(b.ring)
	b.head = 0
	b.size = 0
	b.tick = 0
	b.total = 0
	b.evicted = 0
	b.perKind = make(map[ir.MessageKind]int64, len(b.kinds))
	b.clock.Reset()
}
