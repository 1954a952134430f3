package profile

import (
	"encoding/hex"
	"strconv"

	"commercechain/core/types"
)

const (
	EventTypeProfileCreated = "profile.created"
	EventTypeProfileUpdated = "profile.updated"
)

type profileEvent struct {
	evt *types.Event
}

func (e profileEvent) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e profileEvent) Event() *types.Event { return e.evt }

func NewProfileUpdatedEvent(p *Profile, created bool) profileEvent {
	eventType := EventTypeProfileUpdated
	if created {
		eventType = EventTypeProfileCreated
	}
	attrs := make(map[string]string)
	if p != nil {
		attrs["authority"] = hex.EncodeToString(p.Authority[:])
		attrs["userId"] = p.UserID
		if p.PreferredStore != ([32]byte{}) {
			attrs["preferredStore"] = hex.EncodeToString(p.PreferredStore[:])
		}
		attrs["totalPurchases"] = strconv.FormatUint(p.TotalPurchases, 10)
	}
	return profileEvent{evt: &types.Event{Type: eventType, Attributes: attrs}}
}
