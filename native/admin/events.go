package admin

import (
	"encoding/hex"

	"commercechain/core/types"
)

const (
	EventTypeAdminAdded   = "admin.platform.added"
	EventTypeAdminRemoved = "admin.platform.removed"
)

type adminEvent struct {
	evt *types.Event
}

func (e adminEvent) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e adminEvent) Event() *types.Event { return e.evt }

// NewAdminAddedEvent returns the canonical payload for a platform admin
// addition.
func NewAdminAddedEvent(addr [20]byte, role Role) adminEvent {
	return adminEvent{evt: &types.Event{
		Type: EventTypeAdminAdded,
		Attributes: map[string]string{
			"admin": hex.EncodeToString(addr[:]),
			"role":  role.String(),
		},
	}}
}

// NewAdminRemovedEvent returns the canonical payload for a platform admin
// removal.
func NewAdminRemovedEvent(addr [20]byte) adminEvent {
	return adminEvent{evt: &types.Event{
		Type: EventTypeAdminRemoved,
		Attributes: map[string]string{
			"admin": hex.EncodeToString(addr[:]),
		},
	}}
}
