package ir

import "fmt"

// MessageKind classifies a message. The set of valid kinds is fixed per bus.
type MessageKind string

// Kinds published by the reference actors.
const (
	KindPurchaseComplete MessageKind = "purchase_complete"
	KindPurchaseFailed   MessageKind = "purchase_failed"
	KindRestockComplete  MessageKind = "restock_complete"
	KindPriceChange      MessageKind = "price_change"
	KindDiscountOffer    MessageKind = "discount_offer"
)

// DefaultMessageKinds is the enumerated kind set used when none is configured.
var DefaultMessageKinds = []MessageKind{
	KindPurchaseComplete,
	KindPurchaseFailed,
	KindRestockComplete,
	KindPriceChange,
	KindDiscountOffer,
}

// Message is an immutable, sequenced record of an event.
//
// Receiver is empty for broadcasts. Payload must not be mutated after
// publish; the bus stores its own copy.
type Message struct {
	Seq      int64       `json:"seq"`
	Tick     int64       `json:"tick"`
	Sender   EntityID    `json:"sender"`
	Receiver EntityID    `json:"receiver,omitempty"`
	Kind     MessageKind `json:"kind"`
	Payload  Object      `json:"payload,omitempty"`
}

// String renders a compact single-line description.
func (m Message) String() string {
	if m.Receiver != "" {
		return fmt.Sprintf("#%d@%d %s %s->%s", m.Seq, m.Tick, m.Kind, m.Sender, m.Receiver)
	}
	return fmt.Sprintf("#%d@%d %s %s->*", m.Seq, m.Tick, m.Kind, m.Sender)
}
