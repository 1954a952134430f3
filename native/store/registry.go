package store

import (
	"commercechain/core/events"
	"commercechain/native/admin"
	nativecommon "commercechain/native/common"
)

const moduleName = "store"

type registryState interface {
	KVGet(key []byte, out interface{}) (bool, error)
	KVPut(key []byte, value interface{}) error
	EscrowInit(store [32]byte) error
}

func storeKey(id [32]byte) []byte {
	return append([]byte("store/"), id[:]...)
}

// Registry manages persistence and retrieval of store records and their
// bounded admin sets.
type Registry struct {
	st      registryState
	emitter events.Emitter
	pauses  nativecommon.PauseView
}

// NewRegistry creates a registry backed by the provided state manager.
func NewRegistry(st registryState) *Registry {
	return &Registry{st: st, emitter: events.NoopEmitter{}}
}

// SetEmitter configures the event emitter used to broadcast registry updates.
// Passing nil resets the emitter to a no-op implementation.
func (r *Registry) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		r.emitter = events.NoopEmitter{}
		return
	}
	r.emitter = emitter
}

// SetPauses wires the module pause view.
func (r *Registry) SetPauses(p nativecommon.PauseView) {
	if r == nil {
		return
	}
	r.pauses = p
}

// RegisterStore creates the store record together with its empty escrow. The
// registering owner becomes the first admin with the owner role.
func (r *Registry) RegisterStore(owner [20]byte, name, description, logoURI string, loyalty LoyaltyConfig) (*Store, error) {
	if r == nil || r.st == nil {
		return nil, errNilState
	}
	if err := nativecommon.Guard(r.pauses, moduleName); err != nil {
		return nil, err
	}
	sanitizedName, ok := boundedText(name, MaxNameLen)
	if !ok {
		return nil, ErrTextTooLong
	}
	sanitizedDescription, ok := boundedText(description, MaxDescriptionLen)
	if !ok {
		return nil, ErrTextTooLong
	}
	sanitizedLogo, ok := boundedText(logoURI, MaxLogoURILen)
	if !ok {
		return nil, ErrTextTooLong
	}
	id := DeriveID(owner)
	exists, err := r.st.KVGet(storeKey(id), new(Store))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrStoreExists
	}
	record := &Store{
		ID:          id,
		Owner:       owner,
		Name:        sanitizedName,
		Description: sanitizedDescription,
		LogoURI:     sanitizedLogo,
		Loyalty:     loyalty,
		Active:      true,
		Revenue:     0,
	}
	if err := record.Admins.Add(owner, admin.RoleOwner); err != nil {
		return nil, err
	}
	if err := r.st.KVPut(storeKey(id), record); err != nil {
		return nil, err
	}
	if err := r.st.EscrowInit(id); err != nil {
		return nil, err
	}
	r.emit(NewStoreRegisteredEvent(record))
	return record.Clone(), nil
}

// GetStore retrieves a store by its identifier.
func (r *Registry) GetStore(id [32]byte) (*Store, bool) {
	out := new(Store)
	ok, err := r.st.KVGet(storeKey(id), out)
	if err != nil || !ok {
		return nil, false
	}
	return out, true
}

// StoreUpdate carries the optional fields of an update call. Nil fields are
// left untouched.
type StoreUpdate struct {
	Name        *string
	Description *string
	LogoURI     *string
	Loyalty     *LoyaltyConfig
}

func (r *Registry) loadOwned(caller [20]byte, id [32]byte) (*Store, error) {
	record := new(Store)
	found, err := r.st.KVGet(storeKey(id), record)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrStoreNotFound
	}
	if caller != record.Owner {
		return nil, ErrUnauthorized
	}
	return record, nil
}

// UpdateStore mutates store metadata and loyalty configuration. Owner only.
func (r *Registry) UpdateStore(caller [20]byte, id [32]byte, update StoreUpdate) error {
	if err := nativecommon.Guard(r.pauses, moduleName); err != nil {
		return err
	}
	record, err := r.loadOwned(caller, id)
	if err != nil {
		return err
	}
	if update.Name != nil {
		sanitized, ok := boundedText(*update.Name, MaxNameLen)
		if !ok {
			return ErrTextTooLong
		}
		record.Name = sanitized
	}
	if update.Description != nil {
		sanitized, ok := boundedText(*update.Description, MaxDescriptionLen)
		if !ok {
			return ErrTextTooLong
		}
		record.Description = sanitized
	}
	if update.LogoURI != nil {
		sanitized, ok := boundedText(*update.LogoURI, MaxLogoURILen)
		if !ok {
			return ErrTextTooLong
		}
		record.LogoURI = sanitized
	}
	if update.Loyalty != nil {
		record.Loyalty = *update.Loyalty
	}
	if err := r.st.KVPut(storeKey(id), record); err != nil {
		return err
	}
	r.emit(NewStoreUpdatedEvent(record))
	return nil
}

// SetActive toggles the store activity flag. Owner only.
func (r *Registry) SetActive(caller [20]byte, id [32]byte, active bool) error {
	if err := nativecommon.Guard(r.pauses, moduleName); err != nil {
		return err
	}
	record, err := r.loadOwned(caller, id)
	if err != nil {
		return err
	}
	record.Active = active
	if err := r.st.KVPut(storeKey(id), record); err != nil {
		return err
	}
	r.emit(NewStoreUpdatedEvent(record))
	return nil
}

// AddAdmin appends a member to the store's bounded admin set. Owner only.
func (r *Registry) AddAdmin(caller [20]byte, id [32]byte, target [20]byte, role admin.Role) error {
	if err := nativecommon.Guard(r.pauses, moduleName); err != nil {
		return err
	}
	record, err := r.loadOwned(caller, id)
	if err != nil {
		return err
	}
	if err := record.Admins.Add(target, role); err != nil {
		return err
	}
	if err := r.st.KVPut(storeKey(id), record); err != nil {
		return err
	}
	r.emit(NewStoreAdminAddedEvent(id, target, role))
	return nil
}

// RemoveAdmin drops a member from the store's admin set, preserving the
// order of the remaining entries. The owner entry is not removable.
func (r *Registry) RemoveAdmin(caller [20]byte, id [32]byte, target [20]byte) error {
	if err := nativecommon.Guard(r.pauses, moduleName); err != nil {
		return err
	}
	record, err := r.loadOwned(caller, id)
	if err != nil {
		return err
	}
	if target == record.Owner {
		return ErrCannotRemoveOwner
	}
	if err := record.Admins.Remove(target); err != nil {
		return err
	}
	if err := r.st.KVPut(storeKey(id), record); err != nil {
		return err
	}
	r.emit(NewStoreAdminRemovedEvent(id, target))
	return nil
}

func (r *Registry) emit(event events.Event) {
	if r.emitter == nil {
		return
	}
	r.emitter.Emit(event)
}
