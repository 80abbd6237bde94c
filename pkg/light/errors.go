package light

import (
	"errors"
	"fmt"
)

var (
	// ErrConnectionUnavailable indicates discovery or connect failed and the
	// backend has no usable clients
	ErrConnectionUnavailable = errors.New("connection unavailable")

	// ErrTransport indicates a single HTTP, serial or TCP call failed
	ErrTransport = errors.New("transport failure")

	// ErrProtocolTimeout indicates the device never completed a protocol exchange
	ErrProtocolTimeout = errors.New("protocol timeout")

	// ErrHandshakeTimeout indicates the device never announced it was ready
	// for a frame
	ErrHandshakeTimeout = fmt.Errorf("handshake timeout: %w", ErrProtocolTimeout)

	// ErrValidation indicates a request was rejected before any I/O
	ErrValidation = errors.New("validation error")

	// ErrUnsupported indicates an operation is not supported by the backend
	ErrUnsupported = errors.New("operation not supported")
)

// ValidateBrightness checks a brightness percentage.
func ValidateBrightness(percent int) error {
	if percent < 0 || percent > 100 {
		return fmt.Errorf("%w: brightness %d outside 0-100", ErrValidation, percent)
	}
	return nil
}
