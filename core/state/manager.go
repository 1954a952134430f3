package state

import (
	"errors"
	"math/big"
	"sync"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"

	"commercechain/core/types"
	"commercechain/storage"
)

var ErrInsufficientFunds = errors.New("state: insufficient funds")

// Manager mediates all reads and writes against the backing key-value store.
// Values are RLP encoded under keccak-hashed keys; the raw key namespaces
// ("store/", "product/", ...) are chosen by the callers.
type Manager struct {
	mu sync.Mutex
	db storage.Database
}

// NewManager creates a state manager over the given database.
func NewManager(db storage.Database) *Manager {
	return &Manager{db: db}
}

func kvKey(key []byte) []byte {
	return ethcrypto.Keccak256(key)
}

// KVPut RLP-encodes value and stores it under the hashed key.
func (m *Manager) KVPut(key []byte, value interface{}) error {
	encoded, err := rlp.EncodeToBytes(value)
	if err != nil {
		return err
	}
	return m.db.Put(kvKey(key), encoded)
}

// KVGet decodes the stored value into out. It returns false with a nil error
// when the key is absent.
func (m *Manager) KVGet(key []byte, out interface{}) (bool, error) {
	data, err := m.db.Get(kvKey(key))
	if err != nil {
		return false, err
	}
	if data == nil {
		return false, nil
	}
	if err := rlp.DecodeBytes(data, out); err != nil {
		return false, err
	}
	return true, nil
}

// KVDelete removes the value stored under the hashed key.
func (m *Manager) KVDelete(key []byte) error {
	return m.db.Delete(kvKey(key))
}

func accountKey(addr [20]byte) []byte {
	return append([]byte("account/"), addr[:]...)
}

// GetAccount loads the account record for an address. Unknown addresses yield
// a zero-balance account.
func (m *Manager) GetAccount(addr [20]byte) (*types.Account, error) {
	account := new(types.Account)
	ok, err := m.KVGet(accountKey(addr), account)
	if err != nil {
		return nil, err
	}
	if !ok {
		account = &types.Account{}
	}
	account.EnsureDefaults()
	return account, nil
}

// PutAccount stores the account record for an address.
func (m *Manager) PutAccount(addr [20]byte, account *types.Account) error {
	if account == nil {
		account = &types.Account{}
	}
	account.EnsureDefaults()
	return m.KVPut(accountKey(addr), account)
}

// Transfer moves amount from one account to another. The debit and credit are
// applied together under the manager lock; an insufficient source balance
// aborts before any write.
func (m *Manager) Transfer(from, to [20]byte, amount uint64) error {
	if amount == 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	value := new(big.Int).SetUint64(amount)
	sender, err := m.GetAccount(from)
	if err != nil {
		return err
	}
	if sender.Balance.Cmp(value) < 0 {
		return ErrInsufficientFunds
	}
	receiver, err := m.GetAccount(to)
	if err != nil {
		return err
	}
	sender.Balance = new(big.Int).Sub(sender.Balance, value)
	receiver.Balance = new(big.Int).Add(receiver.Balance, value)
	if err := m.PutAccount(from, sender); err != nil {
		return err
	}
	return m.PutAccount(to, receiver)
}

// Credit adds amount to an account balance.
func (m *Manager) Credit(addr [20]byte, amount uint64) error {
	if amount == 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	account, err := m.GetAccount(addr)
	if err != nil {
		return err
	}
	account.Balance = new(big.Int).Add(account.Balance, new(big.Int).SetUint64(amount))
	return m.PutAccount(addr, account)
}
