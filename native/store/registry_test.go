package store

import (
	"errors"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"

	"commercechain/native/admin"
)

type mockState struct {
	kv      map[string][]byte
	escrows map[[32]byte]bool
}

func newMockState() *mockState {
	return &mockState{
		kv:      make(map[string][]byte),
		escrows: make(map[[32]byte]bool),
	}
}

func (m *mockState) KVPut(key []byte, value interface{}) error {
	encoded, err := rlp.EncodeToBytes(value)
	if err != nil {
		return err
	}
	m.kv[string(key)] = encoded
	return nil
}

func (m *mockState) KVGet(key []byte, out interface{}) (bool, error) {
	encoded, ok := m.kv[string(key)]
	if !ok {
		return false, nil
	}
	return true, rlp.DecodeBytes(encoded, out)
}

func (m *mockState) EscrowInit(store [32]byte) error {
	m.escrows[store] = true
	return nil
}

func testAddr(b byte) [20]byte {
	var addr [20]byte
	addr[19] = b
	return addr
}

func TestRegisterStore(t *testing.T) {
	st := newMockState()
	registry := NewRegistry(st)
	owner := testAddr(1)

	record, err := registry.RegisterStore(owner, "  Corner Shop  ", "groceries", "ipfs://logo", LoyaltyConfig{PointsPerUnit: 5, RedemptionRate: 10})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if record.ID != DeriveID(owner) {
		t.Fatal("store id must derive from the owner")
	}
	if record.Name != "Corner Shop" {
		t.Fatalf("name not trimmed: %q", record.Name)
	}
	if !record.Active {
		t.Fatal("new store must be active")
	}
	if record.Revenue != 0 {
		t.Fatal("new store must have zero revenue")
	}
	if !record.Admins.HasRole(owner, admin.RoleOwner) {
		t.Fatal("owner must hold the owner role")
	}
	if !st.escrows[record.ID] {
		t.Fatal("registration must create the escrow")
	}

	loaded, ok := registry.GetStore(record.ID)
	if !ok {
		t.Fatal("store must be retrievable")
	}
	if loaded.Owner != owner || loaded.Loyalty.RedemptionRate != 10 {
		t.Fatalf("round trip mismatch: %+v", loaded)
	}
}

func TestRegisterStoreDuplicate(t *testing.T) {
	registry := NewRegistry(newMockState())
	owner := testAddr(1)
	if _, err := registry.RegisterStore(owner, "A", "", "", LoyaltyConfig{}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := registry.RegisterStore(owner, "B", "", "", LoyaltyConfig{}); !errors.Is(err, ErrStoreExists) {
		t.Fatalf("expected duplicate rejection, got %v", err)
	}
}

func TestRegisterStoreTextBounds(t *testing.T) {
	registry := NewRegistry(newMockState())
	long := strings.Repeat("x", MaxNameLen+1)
	if _, err := registry.RegisterStore(testAddr(1), long, "", "", LoyaltyConfig{}); !errors.Is(err, ErrTextTooLong) {
		t.Fatalf("expected text rejection, got %v", err)
	}
}

func TestUpdateStore(t *testing.T) {
	registry := NewRegistry(newMockState())
	owner := testAddr(1)
	record, err := registry.RegisterStore(owner, "Shop", "old", "", LoyaltyConfig{PointsPerUnit: 1, RedemptionRate: 1})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	name := "Renamed"
	loyaltyCfg := LoyaltyConfig{PointsPerUnit: 2, RedemptionRate: 4}
	if err := registry.UpdateStore(owner, record.ID, StoreUpdate{Name: &name, Loyalty: &loyaltyCfg}); err != nil {
		t.Fatalf("update: %v", err)
	}
	updated, _ := registry.GetStore(record.ID)
	if updated.Name != "Renamed" || updated.Description != "old" {
		t.Fatalf("partial update wrong: %+v", updated)
	}
	if updated.Loyalty != loyaltyCfg {
		t.Fatalf("loyalty not applied: %+v", updated.Loyalty)
	}

	if err := registry.UpdateStore(testAddr(2), record.ID, StoreUpdate{Name: &name}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if err := registry.UpdateStore(owner, [32]byte{1}, StoreUpdate{Name: &name}); !errors.Is(err, ErrStoreNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSetActive(t *testing.T) {
	registry := NewRegistry(newMockState())
	owner := testAddr(1)
	record, err := registry.RegisterStore(owner, "Shop", "", "", LoyaltyConfig{})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := registry.SetActive(owner, record.ID, false); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	loaded, _ := registry.GetStore(record.ID)
	if loaded.Active {
		t.Fatal("store must be inactive")
	}
	if err := registry.SetActive(testAddr(2), record.ID, true); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestStoreAdmins(t *testing.T) {
	registry := NewRegistry(newMockState())
	owner := testAddr(1)
	record, err := registry.RegisterStore(owner, "Shop", "", "", LoyaltyConfig{})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := registry.AddAdmin(owner, record.ID, testAddr(2), admin.RoleManager); err != nil {
		t.Fatalf("add admin: %v", err)
	}
	loaded, _ := registry.GetStore(record.ID)
	if !loaded.Admins.HasRole(testAddr(2), admin.RoleManager) {
		t.Fatal("manager must be present")
	}

	if err := registry.AddAdmin(testAddr(2), record.ID, testAddr(3), admin.RoleViewer); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("non-owner must not add admins, got %v", err)
	}
	if err := registry.RemoveAdmin(owner, record.ID, owner); !errors.Is(err, ErrCannotRemoveOwner) {
		t.Fatalf("owner entry must be protected, got %v", err)
	}
	if err := registry.RemoveAdmin(owner, record.ID, testAddr(2)); err != nil {
		t.Fatalf("remove admin: %v", err)
	}
	loaded, _ = registry.GetStore(record.ID)
	if loaded.Admins.Contains(testAddr(2)) {
		t.Fatal("manager must be gone")
	}
}

func TestStoreAdminCapacity(t *testing.T) {
	registry := NewRegistry(newMockState())
	owner := testAddr(1)
	record, err := registry.RegisterStore(owner, "Shop", "", "", LoyaltyConfig{})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	// Owner occupies one slot already.
	for i := 0; i < admin.MaxAdmins-1; i++ {
		if err := registry.AddAdmin(owner, record.ID, testAddr(byte(i+10)), admin.RoleViewer); err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
	}
	if err := registry.AddAdmin(owner, record.ID, testAddr(200), admin.RoleViewer); !errors.Is(err, admin.ErrTooManyAdmins) {
		t.Fatalf("expected capacity rejection, got %v", err)
	}
}
