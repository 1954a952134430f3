package common

import (
	"errors"
	"math/bits"
)

var (
	// ErrOverflow is returned when a checked operation would exceed the
	// uint64 range.
	ErrOverflow = errors.New("checked: uint64 overflow")
	// ErrUnderflow is returned when a checked subtraction would go below
	// zero.
	ErrUnderflow = errors.New("checked: uint64 underflow")
)

// AddU64 returns a+b or ErrOverflow. All monetary, stock and point values in
// the ledger are uint64 on the wire, so every accumulation must go through a
// checked helper instead of wrapping silently.
func AddU64(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, ErrOverflow
	}
	return sum, nil
}

// SubU64 returns a-b or ErrUnderflow.
func SubU64(a, b uint64) (uint64, error) {
	diff, borrow := bits.Sub64(a, b, 0)
	if borrow != 0 {
		return 0, ErrUnderflow
	}
	return diff, nil
}

// MulU64 returns a*b or ErrOverflow.
func MulU64(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, ErrOverflow
	}
	return lo, nil
}
