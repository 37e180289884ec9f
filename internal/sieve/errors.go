package sieve

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors returned while building a Space. Compare with errors.Is.
var (
	// ErrMagnitudeTooLarge indicates the layout would overflow the platform's
	// integers or exceed MaxLayoutBytes.
	ErrMagnitudeTooLarge = constError("magnitude too large")

	// ErrMinPowerTooSmall indicates a minimal batch power below MinPowerFloor.
	// With M = 1 the bootstrap batch is too small to hold every prime needed
	// by the first dependent batch.
	ErrMinPowerTooSmall = constError("minimal batch power too small")

	// ErrMinPowerTooLarge indicates a minimal batch power whose single batch
	// cannot be allocated.
	ErrMinPowerTooLarge = constError("minimal batch power too large")
)
