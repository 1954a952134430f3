package loyalty

import (
	"commercechain/core/events"
	"commercechain/native/admin"
	nativecommon "commercechain/native/common"
	"commercechain/native/escrow"
	"commercechain/native/store"
)

const moduleName = "loyalty"

type engineState interface {
	MintGet(storeID [32]byte) (*Mint, bool)
	MintPut(*Mint) error
	StoreGet(id [32]byte) (*store.Store, bool)
	PointsBalance(storeID [32]byte, addr [20]byte) (uint64, error)
	MintPoints(storeID [32]byte, addr [20]byte, amount uint64) error
	BurnPoints(storeID [32]byte, addr [20]byte, amount uint64) error
	EscrowGet(storeID [32]byte) (*escrow.Escrow, bool)
	EscrowPut(*escrow.Escrow) error
	Transfer(from, to [20]byte, amount uint64) error
}

// Engine converts purchase value to issued points and redeemed points back to
// base currency. Conversion truncates at every step: units, whole points and
// the redemption quotient are all floor divisions, so sub-rate amounts redeem
// to zero rather than over-crediting.
type Engine struct {
	state   engineState
	emitter events.Emitter
	pauses  nativecommon.PauseView
}

// NewEngine creates a loyalty engine with a no-op emitter.
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

// InitializeMint creates the loyalty mint for a store. The caller must hold
// the owner or manager role; a zero redemption rate is rejected here so the
// redemption path never divides by zero.
func (e *Engine) InitializeMint(caller [20]byte, storeID [32]byte, pointsPerUnit, redemptionRate uint64) (*Mint, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return nil, err
	}
	storeRecord, ok := e.state.StoreGet(storeID)
	if !ok {
		return nil, store.ErrStoreNotFound
	}
	if !storeRecord.Admins.HasRole(caller, admin.RoleOwner, admin.RoleManager) {
		return nil, ErrUnauthorized
	}
	if redemptionRate == 0 {
		return nil, ErrZeroRedemptionRate
	}
	if _, exists := e.state.MintGet(storeID); exists {
		return nil, ErrMintExists
	}
	mint := &Mint{
		StoreID:        storeID,
		Authority:      caller,
		PointsPerUnit:  pointsPerUnit,
		RedemptionRate: redemptionRate,
	}
	if err := e.state.MintPut(mint); err != nil {
		return nil, err
	}
	e.emit(NewMintInitializedEvent(mint))
	return mint.Clone(), nil
}

// Mint retrieves the loyalty mint for a store.
func (e *Engine) Mint(storeID [32]byte) (*Mint, bool) {
	if e == nil || e.state == nil {
		return nil, false
	}
	return e.state.MintGet(storeID)
}

// Issue converts a purchase value to points and mints them to the buyer.
// Whole units are floored out of the purchase value first; a zero point
// result is a no-op that leaves the counters untouched.
func (e *Engine) Issue(storeID [32]byte, buyer [20]byte, purchaseValue uint64) (uint64, error) {
	if e == nil || e.state == nil {
		return 0, errNilState
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return 0, err
	}
	mint, ok := e.state.MintGet(storeID)
	if !ok {
		return 0, ErrMintNotFound
	}
	units := purchaseValue / BaseUnit
	points, err := nativecommon.MulU64(mint.PointsPerUnit, units)
	if err != nil {
		return 0, err
	}
	points, err = nativecommon.MulU64(points, PointScale)
	if err != nil {
		return 0, err
	}
	if points == 0 {
		return 0, nil
	}
	issued, err := nativecommon.AddU64(mint.TotalIssued, points)
	if err != nil {
		return 0, err
	}
	if err := e.state.MintPoints(storeID, buyer, points); err != nil {
		return 0, err
	}
	mint.TotalIssued = issued
	if err := e.state.MintPut(mint); err != nil {
		return 0, err
	}
	e.emit(NewPointsIssuedEvent(mint, buyer, points))
	return points, nil
}

// IssueForSettlement behaves like Issue but treats a store without a loyalty
// mint as a zero-point no-op, so settlement can invoke it unconditionally.
func (e *Engine) IssueForSettlement(storeID [32]byte, buyer [20]byte, purchaseValue uint64) (uint64, error) {
	if e == nil || e.state == nil {
		return 0, errNilState
	}
	if _, ok := e.state.MintGet(storeID); !ok {
		return 0, nil
	}
	return e.Issue(storeID, buyer, purchaseValue)
}

// Redeem burns points from the redeemer. When redeeming for base currency the
// converted value moves from the store's escrow to the redeemer; the escrow
// balance must cover it. All validation precedes the first mutation.
func (e *Engine) Redeem(storeID [32]byte, redeemer [20]byte, points uint64, forCurrency bool) (uint64, error) {
	if e == nil || e.state == nil {
		return 0, errNilState
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return 0, err
	}
	mint, ok := e.state.MintGet(storeID)
	if !ok {
		return 0, ErrMintNotFound
	}
	balance, err := e.state.PointsBalance(storeID, redeemer)
	if err != nil {
		return 0, err
	}
	if balance < points {
		return 0, ErrInsufficientPoints
	}
	redeemed, err := nativecommon.AddU64(mint.TotalRedeemed, points)
	if err != nil {
		return 0, err
	}

	var value uint64
	var esc *escrow.Escrow
	if forCurrency {
		if mint.RedemptionRate == 0 {
			return 0, ErrZeroRedemptionRate
		}
		wholePoints := points / PointScale
		value, err = nativecommon.MulU64(wholePoints/mint.RedemptionRate, BaseUnit)
		if err != nil {
			return 0, err
		}
		if value > 0 {
			esc, ok = e.state.EscrowGet(storeID)
			if !ok {
				return 0, escrow.ErrEscrowNotFound
			}
			if esc.Balance < value {
				return 0, escrow.ErrInsufficientEscrow
			}
		}
	}

	if err := e.state.BurnPoints(storeID, redeemer, points); err != nil {
		return 0, err
	}
	if value > 0 {
		if err := e.state.Transfer(escrow.VaultAddress(storeID), redeemer, value); err != nil {
			return 0, err
		}
		remaining, err := nativecommon.SubU64(esc.Balance, value)
		if err != nil {
			return 0, err
		}
		esc.Balance = remaining
		if err := e.state.EscrowPut(esc); err != nil {
			return 0, err
		}
	}
	mint.TotalRedeemed = redeemed
	if err := e.state.MintPut(mint); err != nil {
		return 0, err
	}
	e.emit(NewPointsRedeemedEvent(mint, redeemer, points, value))
	return value, nil
}
