package loyalty

// BaseUnit is the number of smallest-denomination units in one whole unit of
// base currency. Purchase values are converted to whole units before point
// accrual.
const BaseUnit uint64 = 1_000_000_000

// PointDecimals is the decimal precision of issued points; PointScale is the
// matching multiplier.
const (
	PointDecimals        = 6
	PointScale    uint64 = 1_000_000
)

// Mint captures the loyalty configuration and cumulative counters for a
// store. Both counters are monotonically non-decreasing.
type Mint struct {
	StoreID        [32]byte
	Authority      [20]byte
	PointsPerUnit  uint64
	RedemptionRate uint64
	TotalIssued    uint64
	TotalRedeemed  uint64
}

// Clone returns a copy of the mint record.
func (m *Mint) Clone() *Mint {
	if m == nil {
		return nil
	}
	clone := *m
	return &clone
}
