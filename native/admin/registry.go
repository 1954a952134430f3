package admin

import (
	"errors"

	"commercechain/core/events"
	nativecommon "commercechain/native/common"
)

const moduleName = "admin"

var (
	ErrUnauthorized  = errors.New("admin: unauthorized")
	ErrSelfAssign    = errors.New("admin: caller may not target itself")
	ErrRootUnset     = errors.New("admin: root authority not configured")
	errNilRegistrySt = errors.New("admin: state not configured")
)

var platformListKey = []byte("admin/platform")

type registryState interface {
	KVGet(key []byte, out interface{}) (bool, error)
	KVPut(key []byte, value interface{}) error
}

// PlatformRegistry manages the platform-wide admin list. Mutations are gated
// on the injected root authority; there is no hardcoded super-admin.
type PlatformRegistry struct {
	st      registryState
	root    [20]byte
	emitter events.Emitter
	pauses  nativecommon.PauseView
}

// NewPlatformRegistry creates a registry bound to the provided state and root
// authority.
func NewPlatformRegistry(st registryState, root [20]byte) *PlatformRegistry {
	return &PlatformRegistry{st: st, root: root, emitter: events.NoopEmitter{}}
}

// SetEmitter configures the event emitter. Passing nil resets it to a no-op.
func (r *PlatformRegistry) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		r.emitter = events.NoopEmitter{}
		return
	}
	r.emitter = emitter
}

// SetPauses wires the module pause view.
func (r *PlatformRegistry) SetPauses(p nativecommon.PauseView) {
	if r == nil {
		return
	}
	r.pauses = p
}

func (r *PlatformRegistry) load() (*List, error) {
	if r == nil || r.st == nil {
		return nil, errNilRegistrySt
	}
	list := new(List)
	if _, err := r.st.KVGet(platformListKey, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *PlatformRegistry) authorize(caller, target [20]byte) error {
	if r.root == ([20]byte{}) {
		return ErrRootUnset
	}
	if caller != r.root {
		return ErrUnauthorized
	}
	if caller == target {
		return ErrSelfAssign
	}
	return nil
}

// AddAdmin appends a platform admin. Only the root authority may call, and it
// may not add itself.
func (r *PlatformRegistry) AddAdmin(caller, target [20]byte, role Role) error {
	if err := nativecommon.Guard(r.pauses, moduleName); err != nil {
		return err
	}
	if err := r.authorize(caller, target); err != nil {
		return err
	}
	list, err := r.load()
	if err != nil {
		return err
	}
	if err := list.Add(target, role); err != nil {
		return err
	}
	if err := r.st.KVPut(platformListKey, list); err != nil {
		return err
	}
	r.emit(NewAdminAddedEvent(target, role))
	return nil
}

// RemoveAdmin drops a platform admin, shifting later entries left.
func (r *PlatformRegistry) RemoveAdmin(caller, target [20]byte) error {
	if err := nativecommon.Guard(r.pauses, moduleName); err != nil {
		return err
	}
	if err := r.authorize(caller, target); err != nil {
		return err
	}
	list, err := r.load()
	if err != nil {
		return err
	}
	if err := list.Remove(target); err != nil {
		return err
	}
	if err := r.st.KVPut(platformListKey, list); err != nil {
		return err
	}
	r.emit(NewAdminRemovedEvent(target))
	return nil
}

// Admins returns a copy of the current platform admin list.
func (r *PlatformRegistry) Admins() ([]Entry, error) {
	list, err := r.load()
	if err != nil {
		return nil, err
	}
	return list.Clone().Entries, nil
}

// IsAdmin reports whether the address sits on the platform list or is the
// root authority itself.
func (r *PlatformRegistry) IsAdmin(addr [20]byte) (bool, error) {
	if r.root != ([20]byte{}) && addr == r.root {
		return true, nil
	}
	list, err := r.load()
	if err != nil {
		return false, err
	}
	return list.Contains(addr), nil
}

func (r *PlatformRegistry) emit(event events.Event) {
	if r.emitter == nil {
		return
	}
	r.emitter.Emit(event)
}
