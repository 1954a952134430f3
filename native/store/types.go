package store

import (
	"strings"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"

	"commercechain/native/admin"
)

// Text bounds carried over from the canonical record layout.
const (
	MaxNameLen        = 200
	MaxDescriptionLen = 500
	MaxLogoURILen     = 200
	MaxMetadataURILen = 128
)

// LoyaltyConfig is the per-store loyalty parameterisation. PointsPerUnit is
// the number of points issued per whole base unit spent; RedemptionRate is
// how many whole points convert back to one base unit.
type LoyaltyConfig struct {
	PointsPerUnit  uint64
	RedemptionRate uint64
}

// Store is the canonical store record. A store is created once by its
// registering owner and never deleted; the activity flag gates commerce.
type Store struct {
	ID          [32]byte
	Owner       [20]byte
	Name        string
	Description string
	LogoURI     string
	Loyalty     LoyaltyConfig
	Active      bool
	Revenue     uint64
	Admins      admin.List
}

// DeriveID computes the deterministic store identifier for an owner. One
// store per owner, mirroring the record-addressing scheme of the hosting
// environment.
func DeriveID(owner [20]byte) [32]byte {
	var id [32]byte
	copy(id[:], ethcrypto.Keccak256([]byte("store:"), owner[:]))
	return id
}

// Clone returns a deep copy of the store record.
func (s *Store) Clone() *Store {
	if s == nil {
		return nil
	}
	clone := *s
	clone.Admins = s.Admins.Clone()
	return &clone
}

// TokenizedKind tags how a product is tokenized, if at all.
type TokenizedKind uint8

const (
	KindNone TokenizedKind = iota
	KindFungible
	KindNonFungible
)

// Valid reports whether the kind is within the supported range.
func (k TokenizedKind) Valid() bool {
	switch k {
	case KindNone, KindFungible, KindNonFungible:
		return true
	default:
		return false
	}
}

// Product is the canonical catalog record. Products are scoped to their
// store, never deleted; deactivation clears the activity flag.
type Product struct {
	ID          uuid.UUID
	StoreID     [32]byte
	Price       uint64
	Stock       uint64
	Kind        TokenizedKind
	Active      bool
	MetadataURI string
	Authority   [20]byte
}

// Clone returns a copy of the product record.
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}

func boundedText(s string, max int) (string, bool) {
	trimmed := strings.TrimSpace(s)
	if len(trimmed) > max {
		return "", false
	}
	return trimmed, true
}
