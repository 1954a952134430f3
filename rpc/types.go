package rpc

import (
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"commercechain/native/admin"
	"commercechain/native/checkout"
	"commercechain/native/escrow"
	"commercechain/native/loyalty"
	"commercechain/native/profile"
	"commercechain/native/store"
)

func parseAddress(value string) ([20]byte, error) {
	var addr [20]byte
	cleaned := strings.TrimPrefix(strings.TrimSpace(value), "0x")
	raw, err := hex.DecodeString(cleaned)
	if err != nil {
		return addr, fmt.Errorf("invalid address %q", value)
	}
	if len(raw) != 20 {
		return addr, fmt.Errorf("address must be 20 bytes, got %d", len(raw))
	}
	copy(addr[:], raw)
	return addr, nil
}

func parseHash(value string) ([32]byte, error) {
	var hash [32]byte
	cleaned := strings.TrimPrefix(strings.TrimSpace(value), "0x")
	raw, err := hex.DecodeString(cleaned)
	if err != nil {
		return hash, fmt.Errorf("invalid identifier %q", value)
	}
	if len(raw) != 32 {
		return hash, fmt.Errorf("identifier must be 32 bytes, got %d", len(raw))
	}
	copy(hash[:], raw)
	return hash, nil
}

func formatAddress(addr [20]byte) string {
	return "0x" + hex.EncodeToString(addr[:])
}

func formatHash(hash [32]byte) string {
	return "0x" + hex.EncodeToString(hash[:])
}

func parseRole(value string) (admin.Role, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "owner":
		return admin.RoleOwner, nil
	case "manager":
		return admin.RoleManager, nil
	case "viewer":
		return admin.RoleViewer, nil
	default:
		return 0, fmt.Errorf("invalid role %q", value)
	}
}

func parseKind(value string) (store.TokenizedKind, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "none":
		return store.KindNone, nil
	case "fungible":
		return store.KindFungible, nil
	case "nonfungible", "non-fungible":
		return store.KindNonFungible, nil
	default:
		return 0, fmt.Errorf("invalid tokenized kind %q", value)
	}
}

func formatKind(kind store.TokenizedKind) string {
	switch kind {
	case store.KindFungible:
		return "fungible"
	case store.KindNonFungible:
		return "nonfungible"
	default:
		return "none"
	}
}

// writeEngineError maps module sentinel errors onto the JSON-RPC error space.
func writeEngineError(w http.ResponseWriter, id interface{}, err error) {
	code := codeServerError
	status := http.StatusOK
	switch {
	case errors.Is(err, store.ErrUnauthorized),
		errors.Is(err, escrow.ErrUnauthorized),
		errors.Is(err, loyalty.ErrUnauthorized),
		errors.Is(err, admin.ErrUnauthorized):
		code = codeUnauthorized
		status = http.StatusForbidden
	}
	writeError(w, status, id, code, err.Error(), nil)
}

type storeResult struct {
	ID          string            `json:"id"`
	Owner       string            `json:"owner"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	LogoURI     string            `json:"logoUri,omitempty"`
	Loyalty     loyaltyConfigBody `json:"loyalty"`
	Active      bool              `json:"active"`
	Revenue     uint64            `json:"revenue"`
	Admins      []adminEntry      `json:"admins"`
}

type loyaltyConfigBody struct {
	PointsPerUnit  uint64 `json:"pointsPerUnit"`
	RedemptionRate uint64 `json:"redemptionRate"`
}

type adminEntry struct {
	Address string `json:"address"`
	Role    string `json:"role"`
}

func newStoreResult(record *store.Store) storeResult {
	admins := make([]adminEntry, 0, record.Admins.Len())
	for _, entry := range record.Admins.Entries {
		admins = append(admins, adminEntry{Address: formatAddress(entry.Addr), Role: entry.Role.String()})
	}
	return storeResult{
		ID:          formatHash(record.ID),
		Owner:       formatAddress(record.Owner),
		Name:        record.Name,
		Description: record.Description,
		LogoURI:     record.LogoURI,
		Loyalty: loyaltyConfigBody{
			PointsPerUnit:  record.Loyalty.PointsPerUnit,
			RedemptionRate: record.Loyalty.RedemptionRate,
		},
		Active:  record.Active,
		Revenue: record.Revenue,
		Admins:  admins,
	}
}

type productResult struct {
	ID          string `json:"id"`
	StoreID     string `json:"storeId"`
	Price       uint64 `json:"price"`
	Stock       uint64 `json:"stock"`
	Kind        string `json:"kind"`
	Active      bool   `json:"active"`
	MetadataURI string `json:"metadataUri,omitempty"`
	Authority   string `json:"authority"`
}

func newProductResult(record *store.Product) productResult {
	return productResult{
		ID:          record.ID.String(),
		StoreID:     formatHash(record.StoreID),
		Price:       record.Price,
		Stock:       record.Stock,
		Kind:        formatKind(record.Kind),
		Active:      record.Active,
		MetadataURI: record.MetadataURI,
		Authority:   formatAddress(record.Authority),
	}
}

type receiptResult struct {
	ID         string   `json:"id"`
	StoreID    string   `json:"storeId"`
	Buyer      string   `json:"buyer"`
	ProductIDs []string `json:"productIds"`
	Quantities []uint64 `json:"quantities"`
	TotalPaid  uint64   `json:"totalPaid"`
	GasFee     uint64   `json:"gasFee"`
	Status     string   `json:"status"`
	Timestamp  uint64   `json:"timestamp"`
}

func newReceiptResult(record *checkout.Receipt) receiptResult {
	ids := make([]string, len(record.ProductIDs))
	for i, id := range record.ProductIDs {
		ids[i] = id.String()
	}
	return receiptResult{
		ID:         formatHash(record.ID),
		StoreID:    formatHash(record.StoreID),
		Buyer:      formatAddress(record.Buyer),
		ProductIDs: ids,
		Quantities: append([]uint64(nil), record.Quantities...),
		TotalPaid:  record.TotalPaid,
		GasFee:     record.GasFee,
		Status:     record.Status.String(),
		Timestamp:  record.Timestamp,
	}
}

type mintResult struct {
	StoreID        string `json:"storeId"`
	Authority      string `json:"authority"`
	PointsPerUnit  uint64 `json:"pointsPerUnit"`
	RedemptionRate uint64 `json:"redemptionRate"`
	TotalIssued    uint64 `json:"totalIssued"`
	TotalRedeemed  uint64 `json:"totalRedeemed"`
}

func newMintResult(record *loyalty.Mint) mintResult {
	return mintResult{
		StoreID:        formatHash(record.StoreID),
		Authority:      formatAddress(record.Authority),
		PointsPerUnit:  record.PointsPerUnit,
		RedemptionRate: record.RedemptionRate,
		TotalIssued:    record.TotalIssued,
		TotalRedeemed:  record.TotalRedeemed,
	}
}

type profileResult struct {
	Authority       string `json:"authority"`
	UserID          string `json:"userId,omitempty"`
	DeliveryAddress string `json:"deliveryAddress,omitempty"`
	PreferredStore  string `json:"preferredStore,omitempty"`
	TotalPurchases  uint64 `json:"totalPurchases"`
}

func newProfileResult(record *profile.Profile) profileResult {
	result := profileResult{
		Authority:       formatAddress(record.Authority),
		UserID:          record.UserID,
		DeliveryAddress: record.DeliveryAddress,
		TotalPurchases:  record.TotalPurchases,
	}
	if record.PreferredStore != ([32]byte{}) {
		result.PreferredStore = formatHash(record.PreferredStore)
	}
	return result
}

func parseProductID(value string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("invalid product id %q", value)
	}
	return id, nil
}
