package escrow

import (
	"errors"

	"commercechain/core/events"
	nativecommon "commercechain/native/common"
)

const moduleName = "escrow"

var (
	ErrEscrowNotFound     = errors.New("escrow: escrow not found")
	ErrInsufficientEscrow = errors.New("escrow: insufficient escrow balance")
	ErrUnauthorized       = errors.New("escrow: unauthorized")
	ErrZeroAmount         = errors.New("escrow: amount must be positive")
	errNilState           = errors.New("escrow: state not configured")
)

type engineState interface {
	EscrowGet(store [32]byte) (*Escrow, bool)
	EscrowPut(*Escrow) error
	Transfer(from, to [20]byte, amount uint64) error
	StoreOwner(store [32]byte) ([20]byte, bool)
	AddStoreRevenue(store [32]byte, amount uint64) error
}

// Engine wires the escrow bookkeeping with external state and event emitters.
// It trusts the hosting environment for atomicity: all validation happens
// before the first write, and any error aborts the whole operation.
type Engine struct {
	state   engineState
	emitter events.Emitter
	pauses  nativecommon.PauseView
}

// NewEngine creates an escrow engine with a no-op emitter.
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

func (e *Engine) loadEscrow(store [32]byte) (*Escrow, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	esc, ok := e.state.EscrowGet(store)
	if !ok {
		return nil, ErrEscrowNotFound
	}
	return esc, nil
}

// Init creates the zero-balance escrow for a store. Called once alongside
// store registration; repeated calls are idempotent.
func (e *Engine) Init(store [32]byte) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if _, ok := e.state.EscrowGet(store); ok {
		return nil
	}
	return e.state.EscrowPut(&Escrow{StoreID: store})
}

// Balance returns the current escrow balance for a store.
func (e *Engine) Balance(store [32]byte) (uint64, error) {
	esc, err := e.loadEscrow(store)
	if err != nil {
		return 0, err
	}
	return esc.Balance, nil
}

// Release moves escrowed funds to the store owner and accrues them as store
// revenue. Owner only.
func (e *Engine) Release(caller [20]byte, store [32]byte, amount uint64) error {
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return err
	}
	esc, err := e.loadEscrow(store)
	if err != nil {
		return err
	}
	owner, ok := e.state.StoreOwner(store)
	if !ok {
		return ErrEscrowNotFound
	}
	if caller != owner {
		return ErrUnauthorized
	}
	if amount == 0 {
		return ErrZeroAmount
	}
	if esc.Balance < amount {
		return ErrInsufficientEscrow
	}
	if err := e.state.Transfer(VaultAddress(store), owner, amount); err != nil {
		return err
	}
	remaining, err := nativecommon.SubU64(esc.Balance, amount)
	if err != nil {
		return err
	}
	esc.Balance = remaining
	if err := e.state.EscrowPut(esc); err != nil {
		return err
	}
	if err := e.state.AddStoreRevenue(store, amount); err != nil {
		return err
	}
	e.emit(NewReleasedEvent(esc, owner, amount))
	return nil
}

// Refund moves escrowed funds back to the buyer. The store owner authorizes;
// the revenue counter is untouched.
func (e *Engine) Refund(caller [20]byte, store [32]byte, buyer [20]byte, amount uint64) error {
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return err
	}
	esc, err := e.loadEscrow(store)
	if err != nil {
		return err
	}
	owner, ok := e.state.StoreOwner(store)
	if !ok {
		return ErrEscrowNotFound
	}
	if caller != owner {
		return ErrUnauthorized
	}
	if amount == 0 {
		return ErrZeroAmount
	}
	if esc.Balance < amount {
		return ErrInsufficientEscrow
	}
	if err := e.state.Transfer(VaultAddress(store), buyer, amount); err != nil {
		return err
	}
	remaining, err := nativecommon.SubU64(esc.Balance, amount)
	if err != nil {
		return err
	}
	esc.Balance = remaining
	if err := e.state.EscrowPut(esc); err != nil {
		return err
	}
	e.emit(NewRefundedEvent(esc, buyer, amount))
	return nil
}
