package gui

import (
	"sync"

	"companion-shell/internal/logger"

	"github.com/google/uuid"
)

// Window is the handle to one UI surface. A closed window is never reused.
type Window struct {
	ID          string
	Width       int
	Height      int
	ResourceURL string

	surface Surface

	mu         sync.Mutex
	closed     bool
	fired      bool
	inspecting bool
	onClosed   func()
}

// OnClosed registers the one-shot close handler. If the window is already
// closed the handler runs immediately.
func (w *Window) OnClosed(cb func()) {
	w.mu.Lock()
	if w.fired {
		w.mu.Unlock()
		return
	}
	w.onClosed = cb
	fire := w.closed && cb != nil
	if fire {
		w.fired = true
	}
	w.mu.Unlock()

	if fire {
		cb()
	}
}

// OpenInspector shows the developer inspection panel next to the content.
func (w *Window) OpenInspector() {
	w.mu.Lock()
	if w.closed || w.inspecting {
		w.mu.Unlock()
		return
	}
	w.inspecting = true
	w.mu.Unlock()

	w.surface.OpenInspector()
}

func (w *Window) Inspecting() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.inspecting
}

// Close asks the surface to close; the close handler runs when the surface
// reports it.
func (w *Window) Close() {
	if w.Closed() {
		return
	}
	w.surface.Close()
}

func (w *Window) Closed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

// markClosed returns the handler to fire, or nil if there is none or it
// already ran.
func (w *Window) markClosed() (func(), bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil, false
	}
	w.closed = true
	if w.onClosed == nil || w.fired {
		return nil, true
	}
	w.fired = true
	return w.onClosed, true
}

// Manager owns the window lifecycle: creation, close notification and the
// count of open windows.
type Manager struct {
	factory SurfaceFactory
	title   string
	logger  logger.Logger

	mu   sync.Mutex
	open map[string]*Window
}

func NewManager(factory SurfaceFactory, title string, log logger.Logger) *Manager {
	return &Manager{
		factory: factory,
		title:   title,
		logger:  log,
		open:    make(map[string]*Window),
	}
}

// CreateWindow shows a new window and starts loading resourceURL into it
// without waiting for the load to finish.
func (m *Manager) CreateWindow(width, height int, resourceURL string) *Window {
	surface := m.factory.NewSurface(m.title, width, height)
	win := &Window{
		ID:          uuid.NewString(),
		Width:       width,
		Height:      height,
		ResourceURL: resourceURL,
		surface:     surface,
	}

	m.mu.Lock()
	m.open[win.ID] = win
	m.mu.Unlock()

	surface.SetOnClosed(func() { m.handleClosed(win) })
	surface.Show()
	surface.Load(resourceURL)

	m.logger.Info("GUIManager", "window created", map[string]interface{}{
		"window_id": win.ID,
		"width":     width,
		"height":    height,
		"resource":  resourceURL,
	})
	return win
}

func (m *Manager) handleClosed(win *Window) {
	cb, first := win.markClosed()
	if !first {
		return
	}

	m.mu.Lock()
	delete(m.open, win.ID)
	remaining := len(m.open)
	m.mu.Unlock()

	m.logger.Info("GUIManager", "window closed", map[string]interface{}{
		"window_id": win.ID,
		"remaining": remaining,
	})

	if cb != nil {
		cb()
	}
}

// Count is the number of windows not yet closed.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.open)
}
