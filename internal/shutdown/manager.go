// Package shutdown stops the shell's long-lived components in reverse
// registration order, at most once.
package shutdown

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"companion-shell/internal/logger"
)

const componentTimeout = 10 * time.Second

type Shutdownable interface {
	Shutdown()
}

type Manager struct {
	logger  logger.Logger
	timeout time.Duration

	mu         sync.Mutex
	components []Shutdownable
	signals    chan os.Signal
	done       chan struct{}
}

func NewManager(log logger.Logger) *Manager {
	return &Manager{
		logger:  log,
		timeout: componentTimeout,
		done:    make(chan struct{}),
	}
}

func (m *Manager) Register(component Shutdownable) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.components = append(m.components, component)
}

// Listen shuts down on SIGINT or SIGTERM delivered to the shell itself.
func (m *Manager) Listen() {
	m.mu.Lock()
	if m.signals != nil {
		m.mu.Unlock()
		return
	}
	m.signals = make(chan os.Signal, 1)
	signal.Notify(m.signals, os.Interrupt, syscall.SIGTERM)
	sigChan := m.signals
	m.mu.Unlock()

	go func() {
		select {
		case sig := <-sigChan:
			m.logger.Info("ShutdownManager", "signal received", map[string]interface{}{
				"signal": sig.String(),
			})
			m.Shutdown()
		case <-m.done:
		}
	}()
}

// Shutdown stops every component, newest first. Later calls return after
// the first one has finished.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()

	select {
	case <-m.done:
		return
	default:
		close(m.done)
	}
	if m.signals != nil {
		signal.Stop(m.signals)
	}

	stuck := 0
	for i := len(m.components) - 1; i >= 0; i-- {
		if !m.stop(m.components[i]) {
			stuck++
			m.logger.Warning("ShutdownManager", "component did not stop in time", map[string]interface{}{
				"component_index": i,
				"timeout_ms":      m.timeout.Milliseconds(),
			})
		}
	}

	m.logger.Info("ShutdownManager", "components stopped", map[string]interface{}{
		"components": len(m.components),
		"stuck":      stuck,
	})
}

// stop reports whether c returned within the timeout. A stuck component
// keeps its goroutine.
func (m *Manager) stop(c Shutdownable) bool {
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		c.Shutdown()
	}()

	timer := time.NewTimer(m.timeout)
	defer timer.Stop()

	select {
	case <-finished:
		return true
	case <-timer.C:
		return false
	}
}

// Done is closed once Shutdown has started.
func (m *Manager) Done() <-chan struct{} {
	return m.done
}
