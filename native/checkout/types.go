package checkout

import (
	"encoding/binary"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
)

// MaxCartItems bounds the item list of a single settlement, matching the
// fixed receipt layout.
const MaxCartItems = 10

// Status tags the settlement outcome recorded on a receipt. The value is
// derived from the outcome, never accepted from the caller: a receipt is
// only ever written by a settlement that completed.
type Status uint8

const (
	StatusPending Status = iota
	StatusCompleted
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Receipt is the immutable audit record of a completed settlement.
type Receipt struct {
	ID         [32]byte
	StoreID    [32]byte
	Buyer      [20]byte
	ProductIDs []uuid.UUID
	Quantities []uint64
	TotalPaid  uint64
	GasFee     uint64
	Status     Status
	Timestamp  uint64
}

// Clone returns a deep copy of the receipt.
func (r *Receipt) Clone() *Receipt {
	if r == nil {
		return nil
	}
	clone := *r
	clone.ProductIDs = append([]uuid.UUID(nil), r.ProductIDs...)
	clone.Quantities = append([]uint64(nil), r.Quantities...)
	return &clone
}

// ReceiptID derives the deterministic identifier for the n-th receipt of a
// store/buyer pair.
func ReceiptID(store [32]byte, buyer [20]byte, seq uint64) [32]byte {
	var seqBytes [8]byte
	binary.BigEndian.PutUint64(seqBytes[:], seq)
	var id [32]byte
	copy(id[:], ethcrypto.Keccak256([]byte("receipt:"), store[:], buyer[:], seqBytes[:]))
	return id
}
