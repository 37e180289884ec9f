package sieve

import (
	"fmt"
	"math/bits"
)

// Layout constants.
const (
	// DefaultMinPower is the default minimal batch power (first batch holds 256 numbers).
	DefaultMinPower uint = 8

	// DefaultMagnitude is the magnitude analyzed when none is given.
	DefaultMagnitude uint = 16

	// MinPowerFloor is the smallest minimal batch power that keeps the layout sound.
	MinPowerFloor uint = 2

	// MaxMagnitude bounds both M and P so that start+length of the last batch
	// (2^(P+1) - 2^M) stays below the platform's int range.
	MaxMagnitude = uint(bits.UintSize - 2)

	// MaxLayoutBytes caps the marks allocated for a whole layout, one byte
	// per number: 1 TiB on 64-bit platforms, 1 GiB on 32-bit ones.
	MaxLayoutBytes uint64 = 1 << min(bits.UintSize-2, 40)
)

// Span is the (start, length) pair of one batch in a layout.
type Span struct {
	Index  int
	Power  uint
	Start  uint64
	Length uint64
}

// End returns the exclusive upper bound of the span.
func (s Span) End() uint64 {
	return s.Start + s.Length
}

// BatchCount returns the number of batches needed for magnitude with the
// given minimal power: max(magnitude-minPower, 0) + 1.
func BatchCount(minPower, magnitude uint) int {
	if magnitude <= minPower {
		return 1
	}
	return int(magnitude-minPower) + 1
}

// LayoutSize returns the number of integers covered by the layout of
// (minPower, magnitude): 2^(P+1) - 2^M, or 2^M when P <= M. Both powers
// must not exceed MaxMagnitude.
func LayoutSize(minPower, magnitude uint) uint64 {
	if magnitude <= minPower {
		return uint64(1) << minPower
	}
	return uint64(1)<<(magnitude+1) - uint64(1)<<minPower
}

// Layout computes every batch span for (minPower, magnitude). Batch i has
// power minPower+i and starts at the sum of all previous lengths.
func Layout(minPower, magnitude uint) ([]Span, error) {
	if err := validateLayout(minPower, magnitude); err != nil {
		return nil, err
	}

	count := BatchCount(minPower, magnitude)
	spans := make([]Span, count)
	var start uint64
	for i := range count {
		power := minPower + uint(i)
		length := uint64(1) << power
		spans[i] = Span{Index: i, Power: power, Start: start, Length: length}
		start += length
	}
	return spans, nil
}

// validateLayout rejects parameters whose layout would be unsound, would
// overflow the platform's integers or would exceed MaxLayoutBytes.
func validateLayout(minPower, magnitude uint) error {
	if minPower < MinPowerFloor {
		return fmt.Errorf("%w: got %d, need at least %d", ErrMinPowerTooSmall, minPower, MinPowerFloor)
	}
	if minPower > MaxMagnitude {
		return fmt.Errorf("%w: got %d, limit is %d", ErrMinPowerTooLarge, minPower, MaxMagnitude)
	}
	if magnitude > MaxMagnitude {
		return fmt.Errorf("%w: got %d, limit is %d", ErrMagnitudeTooLarge, magnitude, MaxMagnitude)
	}
	if size := LayoutSize(minPower, magnitude); size > MaxLayoutBytes {
		return fmt.Errorf("%w: layout of %d numbers exceeds %d bytes of marks", ErrMagnitudeTooLarge, size, MaxLayoutBytes)
	}
	return nil
}
