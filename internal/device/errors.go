package device

import (
	"errors"
	"fmt"
)

var (
	// ErrDeviceRejected is returned when the controller answers ERR.
	ErrDeviceRejected = errors.New("device rejected command")

	// ErrCommandTimeout is returned when no OK/ERR arrives in time.
	ErrCommandTimeout = errors.New("timed out waiting for device response")

	// ErrChannelClosed is returned when the link closed before a response.
	ErrChannelClosed = errors.New("command channel closed")

	// ErrCaptureFailed is returned when the camera produced no frame.
	ErrCaptureFailed = errors.New("frame capture failed")

	// ErrInvalidLEDPattern is returned for patterns without exactly 17 bits.
	ErrInvalidLEDPattern = errors.New("invalid LED pattern")

	// ErrInvalidRegion is returned for brightness regions outside 1..BrightnessRegions.
	ErrInvalidRegion = errors.New("invalid brightness region")
)

// CommandError carries the controller's ERR response.
type CommandError struct {
	Command  string
	Response string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("device rejected %q: %s", e.Command, e.Response)
}

func (e *CommandError) Unwrap() error {
	return ErrDeviceRejected
}
