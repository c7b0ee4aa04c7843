// Package device talks to the rig hardware: the stage/LED controller over a
// line-oriented serial protocol and the camera.
package device

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"mastication-analyzer/internal/logger"
)

// DefaultCommandTimeout bounds the wait for a controller acknowledgment.
const DefaultCommandTimeout = 30 * time.Second

// CommandChannel sends one ASCII command and waits for its acknowledgment.
type CommandChannel interface {
	Send(ctx context.Context, command string) error
	Close() error
}

// LineChannel implements the controller protocol over any byte stream: each
// command is a newline-terminated line, answered by a line reading OK or
// starting with ERR. Other lines are status chatter and are skipped.
type LineChannel struct {
	rw      io.ReadWriteCloser
	timeout time.Duration
	logger  logger.Logger

	mu      sync.Mutex
	lines   chan string
	readErr error
	done    chan struct{}

	closeOnce sync.Once
}

// NewLineChannel starts reading responses from rw. A non-positive timeout
// selects DefaultCommandTimeout.
func NewLineChannel(rw io.ReadWriteCloser, timeout time.Duration, log logger.Logger) *LineChannel {
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}
	if log == nil {
		log = logger.Nop()
	}

	lc := &LineChannel{
		rw:      rw,
		timeout: timeout,
		logger:  log,
		lines:   make(chan string, 16),
		done:    make(chan struct{}),
	}
	go lc.readLoop()
	return lc
}

func (lc *LineChannel) readLoop() {
	defer close(lc.lines)

	scanner := bufio.NewScanner(lc.rw)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		select {
		case lc.lines <- line:
		case <-lc.done:
			return
		}
	}
	lc.readErr = scanner.Err()
}

// Send writes command and blocks until OK, ERR, the per-command timeout or
// ctx cancellation. Commands are serialized.
func (lc *LineChannel) Send(ctx context.Context, command string) error {
	command = strings.TrimSpace(command)
	if command == "" {
		return fmt.Errorf("empty command")
	}

	lc.mu.Lock()
	defer lc.mu.Unlock()

	if _, err := io.WriteString(lc.rw, command+"\n"); err != nil {
		return fmt.Errorf("failed to write %q: %w", command, err)
	}
	lc.logger.Debug("CommandChannel", "command sent", map[string]interface{}{
		"command": command,
	})

	timer := time.NewTimer(lc.timeout)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for %q: %w", command, ctx.Err())
		case <-timer.C:
			return fmt.Errorf("%w: %q after %s", ErrCommandTimeout, command, lc.timeout)
		case line, ok := <-lc.lines:
			if !ok {
				if lc.readErr != nil {
					return fmt.Errorf("%w: %v", ErrChannelClosed, lc.readErr)
				}
				return ErrChannelClosed
			}
			switch {
			case line == "OK":
				return nil
			case strings.HasPrefix(line, "ERR"):
				return &CommandError{Command: command, Response: line}
			default:
				lc.logger.Debug("CommandChannel", "ignoring device output", map[string]interface{}{
					"line": line,
				})
			}
		}
	}
}

// Close closes the underlying stream and stops the reader.
func (lc *LineChannel) Close() error {
	var err error
	lc.closeOnce.Do(func() {
		close(lc.done)
		err = lc.rw.Close()
	})
	return err
}
