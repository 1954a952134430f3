package store

import (
	"encoding/hex"
	"strconv"

	"commercechain/core/types"
	"commercechain/native/admin"
)

const (
	EventTypeStoreRegistered    = "store.registered"
	EventTypeStoreUpdated       = "store.updated"
	EventTypeStoreAdminAdded    = "store.admin.added"
	EventTypeStoreAdminRemoved  = "store.admin.removed"
	EventTypeProductRegistered  = "store.product.registered"
	EventTypeProductUpdated     = "store.product.updated"
	EventTypeProductDeactivated = "store.product.deactivated"
)

type storeEvent struct {
	evt *types.Event
}

func (e storeEvent) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e storeEvent) Event() *types.Event { return e.evt }

func newStoreEvent(eventType string, s *Store) storeEvent {
	attrs := make(map[string]string)
	if s != nil {
		attrs["id"] = hex.EncodeToString(s.ID[:])
		attrs["owner"] = hex.EncodeToString(s.Owner[:])
		attrs["name"] = s.Name
		attrs["active"] = strconv.FormatBool(s.Active)
		attrs["revenue"] = strconv.FormatUint(s.Revenue, 10)
	}
	return storeEvent{evt: &types.Event{Type: eventType, Attributes: attrs}}
}

// NewStoreRegisteredEvent returns the canonical payload for a new store.
func NewStoreRegisteredEvent(s *Store) storeEvent {
	return newStoreEvent(EventTypeStoreRegistered, s)
}

// NewStoreUpdatedEvent returns the canonical payload for a metadata update.
func NewStoreUpdatedEvent(s *Store) storeEvent {
	return newStoreEvent(EventTypeStoreUpdated, s)
}

// NewStoreAdminAddedEvent returns the payload for a store admin addition.
func NewStoreAdminAddedEvent(id [32]byte, addr [20]byte, role admin.Role) storeEvent {
	return storeEvent{evt: &types.Event{
		Type: EventTypeStoreAdminAdded,
		Attributes: map[string]string{
			"store": hex.EncodeToString(id[:]),
			"admin": hex.EncodeToString(addr[:]),
			"role":  role.String(),
		},
	}}
}

// NewStoreAdminRemovedEvent returns the payload for a store admin removal.
func NewStoreAdminRemovedEvent(id [32]byte, addr [20]byte) storeEvent {
	return storeEvent{evt: &types.Event{
		Type: EventTypeStoreAdminRemoved,
		Attributes: map[string]string{
			"store": hex.EncodeToString(id[:]),
			"admin": hex.EncodeToString(addr[:]),
		},
	}}
}

func newProductEvent(eventType string, p *Product) storeEvent {
	attrs := make(map[string]string)
	if p != nil {
		attrs["id"] = p.ID.String()
		attrs["store"] = hex.EncodeToString(p.StoreID[:])
		attrs["price"] = strconv.FormatUint(p.Price, 10)
		attrs["stock"] = strconv.FormatUint(p.Stock, 10)
		attrs["active"] = strconv.FormatBool(p.Active)
	}
	return storeEvent{evt: &types.Event{Type: eventType, Attributes: attrs}}
}

// NewProductRegisteredEvent returns the payload for a new product.
func NewProductRegisteredEvent(p *Product) storeEvent {
	return newProductEvent(EventTypeProductRegistered, p)
}

// NewProductUpdatedEvent returns the payload for a product update.
func NewProductUpdatedEvent(p *Product) storeEvent {
	return newProductEvent(EventTypeProductUpdated, p)
}

// NewProductDeactivatedEvent returns the payload for a product deactivation.
func NewProductDeactivatedEvent(p *Product) storeEvent {
	return newProductEvent(EventTypeProductDeactivated, p)
}
