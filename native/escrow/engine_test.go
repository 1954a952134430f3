package escrow

import (
	"errors"
	"testing"
)

type transferRecord struct {
	from   [20]byte
	to     [20]byte
	amount uint64
}

type mockState struct {
	escrows   map[[32]byte]*Escrow
	owners    map[[32]byte][20]byte
	revenues  map[[32]byte]uint64
	transfers []transferRecord
}

func newMockState() *mockState {
	return &mockState{
		escrows:  make(map[[32]byte]*Escrow),
		owners:   make(map[[32]byte][20]byte),
		revenues: make(map[[32]byte]uint64),
	}
}

func (m *mockState) EscrowGet(store [32]byte) (*Escrow, bool) {
	esc, ok := m.escrows[store]
	if !ok {
		return nil, false
	}
	return esc.Clone(), true
}

func (m *mockState) EscrowPut(esc *Escrow) error {
	m.escrows[esc.StoreID] = esc.Clone()
	return nil
}

func (m *mockState) Transfer(from, to [20]byte, amount uint64) error {
	m.transfers = append(m.transfers, transferRecord{from: from, to: to, amount: amount})
	return nil
}

func (m *mockState) StoreOwner(store [32]byte) ([20]byte, bool) {
	owner, ok := m.owners[store]
	return owner, ok
}

func (m *mockState) AddStoreRevenue(store [32]byte, amount uint64) error {
	m.revenues[store] += amount
	return nil
}

func testAddr(b byte) [20]byte {
	var addr [20]byte
	addr[19] = b
	return addr
}

func testStoreID(b byte) [32]byte {
	var id [32]byte
	id[31] = b
	return id
}

func newTestEngine(st *mockState) *Engine {
	engine := NewEngine()
	engine.SetState(st)
	return engine
}

func TestInitIdempotent(t *testing.T) {
	st := newMockState()
	engine := newTestEngine(st)
	storeID := testStoreID(1)

	if err := engine.Init(storeID); err != nil {
		t.Fatalf("init: %v", err)
	}
	balance, err := engine.Balance(storeID)
	if err != nil || balance != 0 {
		t.Fatalf("expected zero balance, got %d %v", balance, err)
	}

	st.escrows[storeID].Balance = 100
	if err := engine.Init(storeID); err != nil {
		t.Fatalf("re-init: %v", err)
	}
	if st.escrows[storeID].Balance != 100 {
		t.Fatal("re-init must not reset the balance")
	}
}

func TestRelease(t *testing.T) {
	st := newMockState()
	engine := newTestEngine(st)
	storeID := testStoreID(1)
	owner := testAddr(1)
	st.owners[storeID] = owner
	st.escrows[storeID] = &Escrow{StoreID: storeID, Balance: 1000}

	if err := engine.Release(owner, storeID, 400); err != nil {
		t.Fatalf("release: %v", err)
	}
	if st.escrows[storeID].Balance != 600 {
		t.Fatalf("expected 600 remaining, got %d", st.escrows[storeID].Balance)
	}
	if st.revenues[storeID] != 400 {
		t.Fatalf("release must accrue revenue, got %d", st.revenues[storeID])
	}
	if len(st.transfers) != 1 {
		t.Fatalf("expected one transfer, got %d", len(st.transfers))
	}
	tr := st.transfers[0]
	if tr.from != VaultAddress(storeID) || tr.to != owner || tr.amount != 400 {
		t.Fatalf("unexpected transfer: %+v", tr)
	}
}

func TestReleaseValidation(t *testing.T) {
	st := newMockState()
	engine := newTestEngine(st)
	storeID := testStoreID(1)
	owner := testAddr(1)
	st.owners[storeID] = owner
	st.escrows[storeID] = &Escrow{StoreID: storeID, Balance: 100}

	if err := engine.Release(testAddr(2), storeID, 10); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if err := engine.Release(owner, storeID, 0); !errors.Is(err, ErrZeroAmount) {
		t.Fatalf("expected zero rejection, got %v", err)
	}
	if err := engine.Release(owner, storeID, 101); !errors.Is(err, ErrInsufficientEscrow) {
		t.Fatalf("expected insufficient, got %v", err)
	}
	if err := engine.Release(owner, testStoreID(2), 10); !errors.Is(err, ErrEscrowNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if len(st.transfers) != 0 {
		t.Fatal("failed releases must not move funds")
	}
	if st.revenues[storeID] != 0 {
		t.Fatal("failed releases must not accrue revenue")
	}
}

func TestRefund(t *testing.T) {
	st := newMockState()
	engine := newTestEngine(st)
	storeID := testStoreID(1)
	owner := testAddr(1)
	buyer := testAddr(2)
	st.owners[storeID] = owner
	st.escrows[storeID] = &Escrow{StoreID: storeID, Balance: 1000}

	if err := engine.Refund(owner, storeID, buyer, 250); err != nil {
		t.Fatalf("refund: %v", err)
	}
	if st.escrows[storeID].Balance != 750 {
		t.Fatalf("expected 750 remaining, got %d", st.escrows[storeID].Balance)
	}
	if st.revenues[storeID] != 0 {
		t.Fatal("refunds must not accrue revenue")
	}
	tr := st.transfers[0]
	if tr.from != VaultAddress(storeID) || tr.to != buyer || tr.amount != 250 {
		t.Fatalf("unexpected transfer: %+v", tr)
	}

	if err := engine.Refund(buyer, storeID, buyer, 10); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("buyer must not self-refund, got %v", err)
	}
}

func TestVaultAddressDeterministic(t *testing.T) {
	a := VaultAddress(testStoreID(1))
	b := VaultAddress(testStoreID(1))
	c := VaultAddress(testStoreID(2))
	if a != b {
		t.Fatal("vault address must be deterministic")
	}
	if a == c {
		t.Fatal("distinct stores must map to distinct vaults")
	}
}
