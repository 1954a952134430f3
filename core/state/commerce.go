package state

import (
	"github.com/google/uuid"

	"commercechain/native/checkout"
	nativecommon "commercechain/native/common"
	"commercechain/native/escrow"
	"commercechain/native/loyalty"
	"commercechain/native/profile"
	"commercechain/native/store"
)

// Raw key prefixes for the commerce records. The store and product prefixes
// must match the keys the registries write through KVPut.
func rawStoreKey(id [32]byte) []byte {
	return append([]byte("store/"), id[:]...)
}

func rawProductKey(storeID [32]byte, id uuid.UUID) []byte {
	key := make([]byte, 0, len("product/")+32+16)
	key = append(key, []byte("product/")...)
	key = append(key, storeID[:]...)
	key = append(key, id[:]...)
	return key
}

func rawEscrowKey(storeID [32]byte) []byte {
	return append([]byte("escrow/"), storeID[:]...)
}

func rawReceiptKey(id [32]byte) []byte {
	return append([]byte("receipt/"), id[:]...)
}

func rawReceiptSeqKey(storeID [32]byte) []byte {
	return append([]byte("receipt-seq/"), storeID[:]...)
}

func rawMintKey(storeID [32]byte) []byte {
	return append([]byte("loyalty/mint/"), storeID[:]...)
}

func rawPointsKey(storeID [32]byte, addr [20]byte) []byte {
	key := make([]byte, 0, len("loyalty/points/")+32+20)
	key = append(key, []byte("loyalty/points/")...)
	key = append(key, storeID[:]...)
	key = append(key, addr[:]...)
	return key
}

func rawProfileKey(addr [20]byte) []byte {
	return append([]byte("profile/"), addr[:]...)
}

// StoreGet loads a store record.
func (m *Manager) StoreGet(id [32]byte) (*store.Store, bool) {
	record := new(store.Store)
	ok, err := m.KVGet(rawStoreKey(id), record)
	if err != nil || !ok {
		return nil, false
	}
	return record, true
}

// StorePut stores a store record.
func (m *Manager) StorePut(record *store.Store) error {
	return m.KVPut(rawStoreKey(record.ID), record)
}

// StoreOwner reports the owner of a store, if the store exists.
func (m *Manager) StoreOwner(id [32]byte) ([20]byte, bool) {
	record, ok := m.StoreGet(id)
	if !ok {
		return [20]byte{}, false
	}
	return record.Owner, true
}

// AddStoreRevenue bumps the store's lifetime revenue counter.
func (m *Manager) AddStoreRevenue(id [32]byte, amount uint64) error {
	record, ok := m.StoreGet(id)
	if !ok {
		return store.ErrStoreNotFound
	}
	total, err := nativecommon.AddU64(record.Revenue, amount)
	if err != nil {
		return err
	}
	record.Revenue = total
	return m.StorePut(record)
}

// ProductGet loads a product record.
func (m *Manager) ProductGet(storeID [32]byte, id uuid.UUID) (*store.Product, bool) {
	record := new(store.Product)
	ok, err := m.KVGet(rawProductKey(storeID, id), record)
	if err != nil || !ok {
		return nil, false
	}
	return record, true
}

// ProductPut stores a product record.
func (m *Manager) ProductPut(record *store.Product) error {
	return m.KVPut(rawProductKey(record.StoreID, record.ID), record)
}

// EscrowGet loads the escrow record for a store.
func (m *Manager) EscrowGet(storeID [32]byte) (*escrow.Escrow, bool) {
	record := new(escrow.Escrow)
	ok, err := m.KVGet(rawEscrowKey(storeID), record)
	if err != nil || !ok {
		return nil, false
	}
	return record, true
}

// EscrowPut stores the escrow record for a store.
func (m *Manager) EscrowPut(record *escrow.Escrow) error {
	return m.KVPut(rawEscrowKey(record.StoreID), record)
}

// EscrowInit creates the zero-balance escrow for a store. Repeated calls are
// idempotent.
func (m *Manager) EscrowInit(storeID [32]byte) error {
	if _, ok := m.EscrowGet(storeID); ok {
		return nil
	}
	return m.EscrowPut(&escrow.Escrow{StoreID: storeID})
}

// EscrowCredit adds amount to the store's escrow balance.
func (m *Manager) EscrowCredit(storeID [32]byte, amount uint64) error {
	record, ok := m.EscrowGet(storeID)
	if !ok {
		return escrow.ErrEscrowNotFound
	}
	balance, err := nativecommon.AddU64(record.Balance, amount)
	if err != nil {
		return err
	}
	record.Balance = balance
	return m.EscrowPut(record)
}

// ReceiptGet loads a receipt by its identifier.
func (m *Manager) ReceiptGet(id [32]byte) (*checkout.Receipt, bool) {
	record := new(checkout.Receipt)
	ok, err := m.KVGet(rawReceiptKey(id), record)
	if err != nil || !ok {
		return nil, false
	}
	return record, true
}

// ReceiptPut stores a receipt record.
func (m *Manager) ReceiptPut(record *checkout.Receipt) error {
	return m.KVPut(rawReceiptKey(record.ID), record)
}

// NextReceiptSeq returns the next receipt sequence number for a store and
// advances the counter.
func (m *Manager) NextReceiptSeq(storeID [32]byte) (uint64, error) {
	var seq uint64
	if _, err := m.KVGet(rawReceiptSeqKey(storeID), &seq); err != nil {
		return 0, err
	}
	next, err := nativecommon.AddU64(seq, 1)
	if err != nil {
		return 0, err
	}
	if err := m.KVPut(rawReceiptSeqKey(storeID), next); err != nil {
		return 0, err
	}
	return seq, nil
}

// MintGet loads the loyalty mint for a store.
func (m *Manager) MintGet(storeID [32]byte) (*loyalty.Mint, bool) {
	record := new(loyalty.Mint)
	ok, err := m.KVGet(rawMintKey(storeID), record)
	if err != nil || !ok {
		return nil, false
	}
	return record, true
}

// MintPut stores the loyalty mint for a store.
func (m *Manager) MintPut(record *loyalty.Mint) error {
	return m.KVPut(rawMintKey(record.StoreID), record)
}

// PointsBalance reports the loyalty point balance of an address at a store.
func (m *Manager) PointsBalance(storeID [32]byte, addr [20]byte) (uint64, error) {
	var balance uint64
	if _, err := m.KVGet(rawPointsKey(storeID, addr), &balance); err != nil {
		return 0, err
	}
	return balance, nil
}

// MintPoints credits loyalty points to an address at a store.
func (m *Manager) MintPoints(storeID [32]byte, addr [20]byte, amount uint64) error {
	balance, err := m.PointsBalance(storeID, addr)
	if err != nil {
		return err
	}
	total, err := nativecommon.AddU64(balance, amount)
	if err != nil {
		return err
	}
	return m.KVPut(rawPointsKey(storeID, addr), total)
}

// BurnPoints debits loyalty points from an address at a store.
func (m *Manager) BurnPoints(storeID [32]byte, addr [20]byte, amount uint64) error {
	balance, err := m.PointsBalance(storeID, addr)
	if err != nil {
		return err
	}
	remaining, err := nativecommon.SubU64(balance, amount)
	if err != nil {
		return err
	}
	return m.KVPut(rawPointsKey(storeID, addr), remaining)
}

// ProfileGet loads the profile record for an address.
func (m *Manager) ProfileGet(addr [20]byte) (*profile.Profile, bool) {
	record := new(profile.Profile)
	ok, err := m.KVGet(rawProfileKey(addr), record)
	if err != nil || !ok {
		return nil, false
	}
	return record, true
}

// ProfilePut stores the profile record for an address.
func (m *Manager) ProfilePut(record *profile.Profile) error {
	return m.KVPut(rawProfileKey(record.Authority), record)
}
