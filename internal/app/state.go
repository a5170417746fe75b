package app

import (
	"errors"
	"sync"

	"companion-shell/internal/gui"
	"companion-shell/internal/worker"
)

var (
	ErrWindowExists = errors.New("window already exists")
	ErrWorkerExists = errors.New("worker already exists")
)

// State is the process-wide application state. Only the lifecycle loop
// mutates it; the lock lets other goroutines read it.
type State struct {
	mu     sync.RWMutex
	window *gui.Window
	worker *worker.Handle
}

func (s *State) Window() *gui.Window {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.window
}

func (s *State) Worker() *worker.Handle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.worker
}

func (s *State) setWindow(w *gui.Window) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.window != nil {
		return ErrWindowExists
	}
	s.window = w
	return nil
}

func (s *State) setWorker(h *worker.Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.worker != nil {
		return ErrWorkerExists
	}
	s.worker = h
	return nil
}

// clearWindow drops the reference only if it still points at w.
func (s *State) clearWindow(w *gui.Window) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.window == nil || s.window != w {
		return false
	}
	s.window = nil
	return true
}

func (s *State) takeWindow() *gui.Window {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := s.window
	s.window = nil
	return w
}

// takeWorker hands the worker out once; later calls return nil.
func (s *State) takeWorker() *worker.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := s.worker
	s.worker = nil
	return h
}
