// Package shutdown cancels running rig work on SIGINT/SIGTERM and releases
// the camera and serial link in reverse acquisition order.
package shutdown

import (
	"context"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"mastication-analyzer/internal/logger"
)

// DefaultCloseTimeout bounds how long one component may take to close.
const DefaultCloseTimeout = 10 * time.Second

type component struct {
	name   string
	closer io.Closer
}

// Manager owns the process context and the resources to release on exit.
type Manager struct {
	components []component
	logger     logger.Logger
	timeout    time.Duration

	mu     sync.Mutex
	once   sync.Once
	done   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
}

func NewManager(parent context.Context, log logger.Logger) *Manager {
	if log == nil {
		log = logger.Nop()
	}
	ctx, cancel := context.WithCancel(parent)

	return &Manager{
		logger:  log,
		timeout: DefaultCloseTimeout,
		done:    make(chan struct{}),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// SetTimeout changes the per-component close timeout.
func (m *Manager) SetTimeout(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timeout = d
}

// Register adds a resource. Resources close in reverse registration order.
func (m *Manager) Register(name string, c io.Closer) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.components = append(m.components, component{name: name, closer: c})
}

// Listen cancels the context and shuts down on SIGINT or SIGTERM.
// The returned function stops listening.
func (m *Manager) Listen() func() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	stop := make(chan struct{})
	go func() {
		select {
		case sig := <-sigChan:
			m.logger.Info("ShutdownManager", "shutdown signal received", map[string]interface{}{
				"signal": sig.String(),
			})
			m.Shutdown()
		case <-stop:
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			signal.Stop(sigChan)
			close(stop)
		})
	}
}

// Shutdown cancels the context and closes every registered resource once.
func (m *Manager) Shutdown() {
	m.once.Do(m.shutdown)
}

func (m *Manager) shutdown() {
	m.mu.Lock()
	components := append([]component(nil), m.components...)
	timeout := m.timeout
	m.mu.Unlock()

	m.logger.Info("ShutdownManager", "shutdown sequence initiated", map[string]interface{}{
		"components": len(components),
	})

	m.cancel()

	for i := len(components) - 1; i >= 0; i-- {
		c := components[i]

		errCh := make(chan error, 1)
		go func() {
			errCh <- c.closer.Close()
		}()

		select {
		case err := <-errCh:
			if err != nil {
				m.logger.Error("ShutdownManager", err, map[string]interface{}{
					logger.MessageKey: "component close failed",
					"name":            c.name,
				})
			}
		case <-time.After(timeout):
			m.logger.Warning("ShutdownManager", "component shutdown timeout", map[string]interface{}{
				"name": c.name,
			})
		}
	}

	close(m.done)
	m.logger.Info("ShutdownManager", "shutdown sequence completed", nil)
}

// Context is cancelled when shutdown starts.
func (m *Manager) Context() context.Context {
	return m.ctx
}

// Done is closed once every resource has been released.
func (m *Manager) Done() <-chan struct{} {
	return m.done
}
