package types

import "math/big"

// Account holds the base-currency balance and replay nonce for an address.
// Balances are wei-style integers in the smallest denomination.
type Account struct {
	Nonce   uint64
	Balance *big.Int
}

// EnsureDefaults replaces nil pointer fields with zero values so callers can
// operate on the account without nil checks.
func (a *Account) EnsureDefaults() *Account {
	if a == nil {
		return &Account{Balance: big.NewInt(0)}
	}
	if a.Balance == nil {
		a.Balance = big.NewInt(0)
	}
	return a
}

// Clone returns a deep copy of the account.
func (a *Account) Clone() *Account {
	if a == nil {
		return &Account{Balance: big.NewInt(0)}
	}
	clone := &Account{Nonce: a.Nonce, Balance: big.NewInt(0)}
	if a.Balance != nil {
		clone.Balance = new(big.Int).Set(a.Balance)
	}
	return clone
}
