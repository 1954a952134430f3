package escrow

import (
	"encoding/hex"
	"strconv"

	"commercechain/core/types"
)

const (
	EventTypeEscrowReleased = "escrow.released"
	EventTypeEscrowRefunded = "escrow.refunded"
)

type escrowEvent struct {
	evt *types.Event
}

func (e escrowEvent) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e escrowEvent) Event() *types.Event { return e.evt }

func newEscrowEvent(eventType string, esc *Escrow, recipient [20]byte, amount uint64) escrowEvent {
	attrs := make(map[string]string)
	if esc != nil {
		attrs["store"] = hex.EncodeToString(esc.StoreID[:])
		attrs["balance"] = strconv.FormatUint(esc.Balance, 10)
	}
	attrs["recipient"] = hex.EncodeToString(recipient[:])
	attrs["amount"] = strconv.FormatUint(amount, 10)
	return escrowEvent{evt: &types.Event{Type: eventType, Attributes: attrs}}
}

// NewReleasedEvent returns the canonical payload for a release of escrowed
// funds to the store owner.
func NewReleasedEvent(esc *Escrow, owner [20]byte, amount uint64) escrowEvent {
	return newEscrowEvent(EventTypeEscrowReleased, esc, owner, amount)
}

// NewRefundedEvent returns the canonical payload for an escrow refund to the
// buyer.
func NewRefundedEvent(esc *Escrow, buyer [20]byte, amount uint64) escrowEvent {
	return newEscrowEvent(EventTypeEscrowRefunded, esc, buyer, amount)
}
