package escrow

import (
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// Escrow is the per-store holding balance. It is credited only by cart
// settlement and debited only by release, refund or loyalty redemption; the
// balance is unsigned and every debit is a checked subtraction.
type Escrow struct {
	StoreID [32]byte
	Balance uint64
}

// Clone returns a copy of the escrow record.
func (e *Escrow) Clone() *Escrow {
	if e == nil {
		return nil
	}
	clone := *e
	return &clone
}

// VaultAddress derives the ledger account that physically holds a store's
// escrowed funds. The escrow record mirrors this account's balance.
func VaultAddress(store [32]byte) [20]byte {
	var addr [20]byte
	copy(addr[:], ethcrypto.Keccak256([]byte("escrow-vault:"), store[:])[:20])
	return addr
}
