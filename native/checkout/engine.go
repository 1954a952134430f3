package checkout

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"commercechain/core/events"
	nativecommon "commercechain/native/common"
	"commercechain/native/escrow"
	"commercechain/native/store"
)

const moduleName = "checkout"

var (
	ErrInvalidCart         = errors.New("checkout: invalid cart")
	ErrCartTooLarge        = errors.New("checkout: cart too large")
	ErrDuplicateCartItem   = errors.New("checkout: duplicate cart item")
	ErrInsufficientStock   = errors.New("checkout: insufficient stock")
	ErrInsufficientPayment = errors.New("checkout: insufficient payment")
	ErrStockUnderflow      = errors.New("checkout: stock underflow")
	errNilState            = errors.New("checkout: state not configured")
)

type engineState interface {
	StoreGet(id [32]byte) (*store.Store, bool)
	ProductGet(storeID [32]byte, id uuid.UUID) (*store.Product, bool)
	ProductPut(*store.Product) error
	EscrowCredit(storeID [32]byte, amount uint64) error
	Transfer(from, to [20]byte, amount uint64) error
	ReceiptPut(*Receipt) error
	NextReceiptSeq(storeID [32]byte) (uint64, error)
}

// PointsIssuer issues loyalty points for a settled purchase value. A missing
// loyalty mint is not an error: the issuer returns zero points and the
// settlement proceeds.
type PointsIssuer interface {
	Issue(storeID [32]byte, buyer [20]byte, purchaseValue uint64) (uint64, error)
}

// Engine validates and settles multi-item purchases. Validation runs to
// completion before the first write; any error aborts the operation with no
// partial mutation, relying on the hosting environment to discard writes on
// failure paths that error after mutation began.
type Engine struct {
	state   engineState
	loyalty PointsIssuer
	emitter events.Emitter
	pauses  nativecommon.PauseView
	nowFn   func() int64
}

// NewEngine creates a settlement engine with a no-op emitter.
func NewEngine() *Engine {
	return &Engine{
		emitter: events.NoopEmitter{},
		nowFn:   func() int64 { return time.Now().Unix() },
	}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetLoyalty wires the optional inline loyalty issuer.
func (e *Engine) SetLoyalty(issuer PointsIssuer) { e.loyalty = issuer }

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

// SetNowFunc overrides the time source. Primarily intended for tests.
func (e *Engine) SetNowFunc(now func() int64) {
	if now == nil {
		e.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	e.nowFn = now
}

func (e *Engine) emit(event events.Event) {
	if e == nil || e.emitter == nil {
		return
	}
	e.emitter.Emit(event)
}

// PurchaseCart validates, prices and settles a cart in one atomic unit.
//
// Steps: structural validation, per-item validation and checked pricing,
// payment sufficiency, and only then the mutations: buyer funds move into
// the store's escrow vault, the escrow balance is credited, stocks are
// decremented and the receipt is written with a derived Completed status.
func (e *Engine) PurchaseCart(buyer [20]byte, storeID [32]byte, productIDs []uuid.UUID, quantities []uint64, amountTendered, gasFee uint64) (*Receipt, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return nil, err
	}
	if len(productIDs) == 0 || len(productIDs) != len(quantities) {
		return nil, ErrInvalidCart
	}
	if len(productIDs) > MaxCartItems {
		return nil, ErrCartTooLarge
	}
	storeRecord, ok := e.state.StoreGet(storeID)
	if !ok {
		return nil, store.ErrStoreNotFound
	}
	if !storeRecord.Active {
		return nil, store.ErrStoreInactive
	}

	// Each product may appear at most once: repeated entries would be
	// checked against the same stock snapshot and the later write would
	// clobber the earlier decrement.
	seen := make(map[uuid.UUID]struct{}, len(productIDs))
	products := make([]*store.Product, len(productIDs))
	var totalPrice uint64
	for i, id := range productIDs {
		if _, dup := seen[id]; dup {
			return nil, ErrDuplicateCartItem
		}
		seen[id] = struct{}{}
		product, ok := e.state.ProductGet(storeID, id)
		if !ok {
			return nil, store.ErrProductNotFound
		}
		if product.ID != id || product.StoreID != storeID || !product.Active {
			return nil, store.ErrProductNotFound
		}
		if product.Stock < quantities[i] {
			return nil, ErrInsufficientStock
		}
		itemTotal, err := nativecommon.MulU64(product.Price, quantities[i])
		if err != nil {
			return nil, err
		}
		totalPrice, err = nativecommon.AddU64(totalPrice, itemTotal)
		if err != nil {
			return nil, err
		}
		products[i] = product
	}
	if amountTendered < totalPrice {
		return nil, ErrInsufficientPayment
	}

	// Validation complete; mutations begin here.
	if err := e.state.Transfer(buyer, escrow.VaultAddress(storeID), totalPrice); err != nil {
		return nil, err
	}
	if err := e.state.EscrowCredit(storeID, totalPrice); err != nil {
		return nil, err
	}
	for i, product := range products {
		remaining, err := nativecommon.SubU64(product.Stock, quantities[i])
		if err != nil {
			// Step 2 already proved sufficiency; surface rather than panic.
			return nil, ErrStockUnderflow
		}
		product.Stock = remaining
		if err := e.state.ProductPut(product); err != nil {
			return nil, err
		}
	}

	seq, err := e.state.NextReceiptSeq(storeID)
	if err != nil {
		return nil, err
	}
	receipt := &Receipt{
		ID:         ReceiptID(storeID, buyer, seq),
		StoreID:    storeID,
		Buyer:      buyer,
		ProductIDs: append([]uuid.UUID(nil), productIDs...),
		Quantities: append([]uint64(nil), quantities...),
		TotalPaid:  totalPrice,
		GasFee:     gasFee,
		Status:     StatusCompleted,
		Timestamp:  uint64(e.nowFn()),
	}
	if err := e.state.ReceiptPut(receipt); err != nil {
		return nil, err
	}

	var pointsIssued uint64
	if e.loyalty != nil {
		points, err := e.loyalty.Issue(storeID, buyer, totalPrice)
		if err != nil {
			return nil, err
		}
		pointsIssued = points
	}

	e.emit(NewCartPurchasedEvent(receipt, pointsIssued))
	return receipt.Clone(), nil
}
