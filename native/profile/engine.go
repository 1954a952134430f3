package profile

import (
	"errors"
	"strings"

	"commercechain/core/events"
	nativecommon "commercechain/native/common"
	"commercechain/native/store"
)

const moduleName = "profile"

var (
	ErrTextTooLong   = errors.New("profile: text field exceeds limit")
	ErrNotFound      = errors.New("profile: profile not found")
	ErrStoreNotFound = store.ErrStoreNotFound
	errNilState      = errors.New("profile: state not configured")
)

type engineState interface {
	ProfileGet(addr [20]byte) (*Profile, bool)
	ProfilePut(*Profile) error
	StoreGet(id [32]byte) (*store.Store, bool)
}

// Engine maintains buyer profiles. Writes are upserts keyed by the caller's
// address; only the caller can touch its own profile.
type Engine struct {
	state   engineState
	emitter events.Emitter
	pauses  nativecommon.PauseView
}

// NewEngine creates a profile engine with a no-op emitter.
func NewEngine() *Engine {
	return &Engine{emitter: events.NoopEmitter{}}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetEmitter configures the event emitter used by the engine. Passing nil
// resets the emitter to a no-op implementation.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// SetPauses wires the module pause view.
func (e *Engine) SetPauses(p nativecommon.PauseView) {
	if e == nil {
		return
	}
	e.pauses = p
}

func (e *Engine) emit(event events.Event) {
	if e == nil || e.emitter == nil {
		return
	}
	e.emitter.Emit(event)
}

// CreateOrUpdate upserts the caller's profile. A non-zero preferred store
// must exist. TotalPurchases is preserved across updates; callers cannot set
// it.
func (e *Engine) CreateOrUpdate(caller [20]byte, userID, deliveryAddress string, preferredStore [32]byte) (*Profile, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return nil, err
	}
	userID = strings.TrimSpace(userID)
	deliveryAddress = strings.TrimSpace(deliveryAddress)
	if len(userID) > MaxUserIDLen || len(deliveryAddress) > MaxDeliveryAddressLen {
		return nil, ErrTextTooLong
	}
	if preferredStore != ([32]byte{}) {
		if _, ok := e.state.StoreGet(preferredStore); !ok {
			return nil, ErrStoreNotFound
		}
	}
	record, ok := e.state.ProfileGet(caller)
	if !ok {
		record = &Profile{Authority: caller}
	}
	record.UserID = userID
	record.DeliveryAddress = deliveryAddress
	record.PreferredStore = preferredStore
	if err := e.state.ProfilePut(record); err != nil {
		return nil, err
	}
	e.emit(NewProfileUpdatedEvent(record, !ok))
	return record.Clone(), nil
}

// Get retrieves a profile by address.
func (e *Engine) Get(addr [20]byte) (*Profile, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	record, ok := e.state.ProfileGet(addr)
	if !ok {
		return nil, ErrNotFound
	}
	return record.Clone(), nil
}

// RecordPurchase bumps the buyer's purchase counter after a settlement. A
// missing profile is a no-op.
func (e *Engine) RecordPurchase(addr [20]byte) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	record, ok := e.state.ProfileGet(addr)
	if !ok {
		return nil
	}
	total, err := nativecommon.AddU64(record.TotalPurchases, 1)
	if err != nil {
		return err
	}
	record.TotalPurchases = total
	return e.state.ProfilePut(record)
}
