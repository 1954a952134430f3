package checkout

import (
	"encoding/hex"
	"strconv"
	"strings"

	"commercechain/core/types"
)

const EventTypeCartPurchased = "checkout.cart.purchased"

type checkoutEvent struct {
	evt *types.Event
}

func (e checkoutEvent) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e checkoutEvent) Event() *types.Event { return e.evt }

// NewCartPurchasedEvent returns the canonical payload emitted after a
// settlement completes, mirroring the receipt for off-core observers.
func NewCartPurchasedEvent(r *Receipt, pointsIssued uint64) checkoutEvent {
	attrs := make(map[string]string)
	if r != nil {
		ids := make([]string, len(r.ProductIDs))
		for i, id := range r.ProductIDs {
			ids[i] = id.String()
		}
		quantities := make([]string, len(r.Quantities))
		for i, q := range r.Quantities {
			quantities[i] = strconv.FormatUint(q, 10)
		}
		attrs["receipt"] = hex.EncodeToString(r.ID[:])
		attrs["store"] = hex.EncodeToString(r.StoreID[:])
		attrs["buyer"] = hex.EncodeToString(r.Buyer[:])
		attrs["products"] = strings.Join(ids, ",")
		attrs["quantities"] = strings.Join(quantities, ",")
		attrs["totalPaid"] = strconv.FormatUint(r.TotalPaid, 10)
		attrs["gasFee"] = strconv.FormatUint(r.GasFee, 10)
		attrs["status"] = r.Status.String()
		attrs["timestamp"] = strconv.FormatUint(r.Timestamp, 10)
	}
	if pointsIssued > 0 {
		attrs["pointsIssued"] = strconv.FormatUint(pointsIssued, 10)
	}
	return checkoutEvent{evt: &types.Event{Type: EventTypeCartPurchased, Attributes: attrs}}
}
