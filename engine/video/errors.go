package video

import (
	"errors"
	"fmt"
)

var (
	// ErrBackendFatal marks failures that leave the backend unusable: the
	// display cannot be opened, the requested mode is unsupported, or the
	// surface was lost while presenting. Startup must abort on it.
	ErrBackendFatal = errors.New("video: backend fatal")

	// ErrUnsupportedMode is returned by CreateMainScreen for a size or
	// depth the device cannot provide. It wraps ErrBackendFatal.
	ErrUnsupportedMode = fmt.Errorf("%w: unsupported display mode", ErrBackendFatal)

	// ErrBackendNotAvailable is returned by New for an unregistered name.
	ErrBackendNotAvailable = errors.New("video: backend not available")

	ErrNotInitialized   = errors.New("video: backend not initialized")
	ErrNoScreen         = errors.New("video: no main screen")
	ErrOutOfBounds      = errors.New("video: pixel out of bounds")
	ErrInvalidImageData = errors.New("video: invalid image data")

	// ErrContractViolation is wrapped by every ContractViolation.
	ErrContractViolation = errors.New("video: contract violation")
)

// ContractViolation is the panic value raised when a caller breaks the
// backend contract: popping an empty clip stack, nesting frames, ending a
// frame that was never started, or drawing outside a frame.
type ContractViolation struct {
	Op  string
	Msg string
}

func (e *ContractViolation) Error() string {
	return fmt.Sprintf("video: contract violation in %s: %s", e.Op, e.Msg)
}

func (e *ContractViolation) Unwrap() error { return ErrContractViolation }

func violate(op, format string, args ...any) {
	panic(&ContractViolation{Op: op, Msg: fmt.Sprintf(format, args...)})
}
