package loyalty

import (
	"encoding/hex"
	"strconv"

	"commercechain/core/types"
)

const (
	EventTypeMintInitialized = "loyalty.mint.initialized"
	EventTypePointsIssued    = "loyalty.points.issued"
	EventTypePointsRedeemed  = "loyalty.points.redeemed"
)

type loyaltyEvent struct {
	evt *types.Event
}

func (e loyaltyEvent) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e loyaltyEvent) Event() *types.Event { return e.evt }

func NewMintInitializedEvent(m *Mint) loyaltyEvent {
	attrs := make(map[string]string)
	if m != nil {
		attrs["store"] = hex.EncodeToString(m.StoreID[:])
		attrs["authority"] = hex.EncodeToString(m.Authority[:])
		attrs["pointsPerUnit"] = strconv.FormatUint(m.PointsPerUnit, 10)
		attrs["redemptionRate"] = strconv.FormatUint(m.RedemptionRate, 10)
	}
	return loyaltyEvent{evt: &types.Event{Type: EventTypeMintInitialized, Attributes: attrs}}
}

func NewPointsIssuedEvent(m *Mint, buyer [20]byte, points uint64) loyaltyEvent {
	attrs := map[string]string{
		"buyer":  hex.EncodeToString(buyer[:]),
		"points": strconv.FormatUint(points, 10),
	}
	if m != nil {
		attrs["store"] = hex.EncodeToString(m.StoreID[:])
		attrs["totalIssued"] = strconv.FormatUint(m.TotalIssued, 10)
	}
	return loyaltyEvent{evt: &types.Event{Type: EventTypePointsIssued, Attributes: attrs}}
}

func NewPointsRedeemedEvent(m *Mint, redeemer [20]byte, points, value uint64) loyaltyEvent {
	attrs := map[string]string{
		"redeemer": hex.EncodeToString(redeemer[:]),
		"points":   strconv.FormatUint(points, 10),
		"value":    strconv.FormatUint(value, 10),
	}
	if m != nil {
		attrs["store"] = hex.EncodeToString(m.StoreID[:])
		attrs["totalRedeemed"] = strconv.FormatUint(m.TotalRedeemed, 10)
	}
	return loyaltyEvent{evt: &types.Event{Type: EventTypePointsRedeemed, Attributes: attrs}}
}
