package device

import (
	"fmt"
	"time"

	"mastication-analyzer/internal/logger"

	"go.bug.st/serial"
)

// SerialOptions configures the controller's serial link.
type SerialOptions struct {
	BaudRate int
	// StartupDelay waits out the board reset triggered by opening the port.
	StartupDelay time.Duration
	Timeout      time.Duration
}

// DefaultSerialOptions matches the controller firmware.
func DefaultSerialOptions() SerialOptions {
	return SerialOptions{
		BaudRate:     115200,
		StartupDelay: 2 * time.Second,
		Timeout:      DefaultCommandTimeout,
	}
}

// OpenSerial opens port, waits for the controller to boot and discards
// anything it printed while starting.
func OpenSerial(port string, opts SerialOptions, log logger.Logger) (*LineChannel, error) {
	if log == nil {
		log = logger.Nop()
	}

	p, err := serial.Open(port, &serial.Mode{BaudRate: opts.BaudRate})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", port, err)
	}

	time.Sleep(opts.StartupDelay)
	if err := p.ResetInputBuffer(); err != nil {
		p.Close()
		return nil, fmt.Errorf("failed to reset input buffer on %s: %w", port, err)
	}

	log.Info("SerialChannel", "connected", map[string]interface{}{
		"port":     port,
		"baudrate": opts.BaudRate,
	})
	return NewLineChannel(p, opts.Timeout, log.With(map[string]interface{}{"port": port})), nil
}

// ListPorts returns the serial ports present on the host.
func ListPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}
	return ports, nil
}
