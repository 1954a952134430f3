package store

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"commercechain/native/admin"
)

func registerTestStore(t *testing.T, st *mockState, owner [20]byte) *Store {
	t.Helper()
	registry := NewRegistry(st)
	record, err := registry.RegisterStore(owner, "Shop", "", "", LoyaltyConfig{})
	if err != nil {
		t.Fatalf("register store: %v", err)
	}
	return record
}

func TestRegisterProduct(t *testing.T) {
	st := newMockState()
	owner := testAddr(1)
	storeRecord := registerTestStore(t, st, owner)
	catalog := NewCatalog(st)

	id := uuid.New()
	product, err := catalog.RegisterProduct(owner, storeRecord.ID, id, 500, 10, KindFungible, "ipfs://meta")
	if err != nil {
		t.Fatalf("register product: %v", err)
	}
	if product.ID != id || product.StoreID != storeRecord.ID {
		t.Fatal("product identity mismatch")
	}
	if !product.Active || product.Authority != owner {
		t.Fatalf("unexpected product defaults: %+v", product)
	}

	loaded, ok := catalog.GetProduct(storeRecord.ID, id)
	if !ok || loaded.Price != 500 || loaded.Stock != 10 {
		t.Fatalf("round trip mismatch: %+v", loaded)
	}

	if _, err := catalog.RegisterProduct(owner, storeRecord.ID, id, 1, 1, KindNone, ""); !errors.Is(err, ErrProductExists) {
		t.Fatalf("expected duplicate rejection, got %v", err)
	}
}

func TestRegisterProductAuthorization(t *testing.T) {
	st := newMockState()
	owner := testAddr(1)
	storeRecord := registerTestStore(t, st, owner)
	registry := NewRegistry(st)
	catalog := NewCatalog(st)

	if _, err := catalog.RegisterProduct(testAddr(2), storeRecord.ID, uuid.New(), 1, 1, KindNone, ""); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("stranger must not register, got %v", err)
	}

	manager := testAddr(3)
	if err := registry.AddAdmin(owner, storeRecord.ID, manager, admin.RoleManager); err != nil {
		t.Fatalf("add manager: %v", err)
	}
	if _, err := catalog.RegisterProduct(manager, storeRecord.ID, uuid.New(), 1, 1, KindNone, ""); err != nil {
		t.Fatalf("manager must register, got %v", err)
	}

	viewer := testAddr(4)
	if err := registry.AddAdmin(owner, storeRecord.ID, viewer, admin.RoleViewer); err != nil {
		t.Fatalf("add viewer: %v", err)
	}
	if _, err := catalog.RegisterProduct(viewer, storeRecord.ID, uuid.New(), 1, 1, KindNone, ""); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("viewer must not register, got %v", err)
	}
}

func TestRegisterProductInactiveStore(t *testing.T) {
	st := newMockState()
	owner := testAddr(1)
	storeRecord := registerTestStore(t, st, owner)
	registry := NewRegistry(st)
	catalog := NewCatalog(st)

	if err := registry.SetActive(owner, storeRecord.ID, false); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, err := catalog.RegisterProduct(owner, storeRecord.ID, uuid.New(), 1, 1, KindNone, ""); !errors.Is(err, ErrStoreInactive) {
		t.Fatalf("expected inactive rejection, got %v", err)
	}
}

func TestRegisterProductValidation(t *testing.T) {
	st := newMockState()
	owner := testAddr(1)
	storeRecord := registerTestStore(t, st, owner)
	catalog := NewCatalog(st)

	if _, err := catalog.RegisterProduct(owner, storeRecord.ID, uuid.New(), 1, 1, TokenizedKind(9), ""); !errors.Is(err, ErrInvalidKind) {
		t.Fatalf("expected kind rejection, got %v", err)
	}
	long := strings.Repeat("x", MaxMetadataURILen+1)
	if _, err := catalog.RegisterProduct(owner, storeRecord.ID, uuid.New(), 1, 1, KindNone, long); !errors.Is(err, ErrTextTooLong) {
		t.Fatalf("expected uri rejection, got %v", err)
	}
}

func TestUpdateProduct(t *testing.T) {
	st := newMockState()
	owner := testAddr(1)
	storeRecord := registerTestStore(t, st, owner)
	catalog := NewCatalog(st)

	id := uuid.New()
	if _, err := catalog.RegisterProduct(owner, storeRecord.ID, id, 500, 10, KindNone, ""); err != nil {
		t.Fatalf("register: %v", err)
	}

	price := uint64(750)
	stock := uint64(3)
	if err := catalog.UpdateProduct(owner, storeRecord.ID, id, ProductUpdate{Price: &price, Stock: &stock}); err != nil {
		t.Fatalf("update: %v", err)
	}
	loaded, _ := catalog.GetProduct(storeRecord.ID, id)
	if loaded.Price != 750 || loaded.Stock != 3 {
		t.Fatalf("update not applied: %+v", loaded)
	}

	if err := catalog.UpdateProduct(testAddr(2), storeRecord.ID, id, ProductUpdate{Price: &price}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if err := catalog.UpdateProduct(owner, storeRecord.ID, uuid.New(), ProductUpdate{Price: &price}); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeactivateProduct(t *testing.T) {
	st := newMockState()
	owner := testAddr(1)
	storeRecord := registerTestStore(t, st, owner)
	catalog := NewCatalog(st)

	id := uuid.New()
	if _, err := catalog.RegisterProduct(owner, storeRecord.ID, id, 500, 10, KindNone, ""); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := catalog.DeactivateProduct(owner, storeRecord.ID, id); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	loaded, ok := catalog.GetProduct(storeRecord.ID, id)
	if !ok {
		t.Fatal("record must survive deactivation")
	}
	if loaded.Active {
		t.Fatal("product must be inactive")
	}
}
