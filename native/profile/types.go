package profile

// Field length ceilings enforced before any profile write.
const (
	MaxUserIDLen          = 64
	MaxDeliveryAddressLen = 500
)

// Profile is the buyer-facing account record. PreferredStore is zero when the
// buyer has not chosen one.
type Profile struct {
	Authority       [20]byte
	UserID          string
	DeliveryAddress string
	PreferredStore  [32]byte
	TotalPurchases  uint64
}

// Clone returns a copy of the profile record.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}
