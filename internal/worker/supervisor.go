package worker

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"companion-shell/internal/logger"
)

var ErrAlreadySpawned = errors.New("worker already spawned")

// Supervisor spawns the companion worker once per run and terminates it at
// most once. It does not restart or health-check the worker.
type Supervisor struct {
	launcher Launcher
	logger   logger.Logger

	mu     sync.Mutex
	handle *Handle
}

func NewSupervisor(launcher Launcher, log logger.Logger) *Supervisor {
	return &Supervisor{
		launcher: launcher,
		logger:   log,
	}
}

// Spawn launches path with args and returns as soon as the process exists.
func (s *Supervisor) Spawn(path string, args ...string) (*Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.handle != nil {
		return nil, ErrAlreadySpawned
	}

	proc, err := s.launcher.Launch(path, args)
	if err != nil {
		s.logger.Error("Supervisor", "worker spawn failed", err, map[string]interface{}{
			"path": path,
			"args": args,
		})
		return nil, fmt.Errorf("spawn worker %s: %w", path, err)
	}

	h := newHandle(path, args, proc)
	s.handle = h
	go s.watch(h)

	s.logger.Info("Supervisor", "worker spawned", map[string]interface{}{
		"worker_id": h.ID,
		"pid":       proc.Pid(),
		"path":      path,
		"args":      args,
	})
	return h, nil
}

func (s *Supervisor) watch(h *Handle) {
	err := h.proc.Wait()
	signalled := h.Signalled()
	h.markExited(err)

	fields := map[string]interface{}{
		"worker_id": h.ID,
		"pid":       h.proc.Pid(),
		"signalled": signalled,
	}
	if err != nil {
		fields["exit"] = err.Error()
	}
	s.logger.Info("Supervisor", "worker exited", fields)
}

// Terminate sends the interrupt signal. It is a no-op for nil handles,
// handles that were already terminated and workers that exited on their own.
func (s *Supervisor) Terminate(h *Handle) {
	if h == nil {
		return
	}

	if !h.claimTermination() {
		s.logger.Debug("Supervisor", "terminate skipped, worker not running", map[string]interface{}{
			"worker_id": h.ID,
			"state":     h.State().String(),
		})
		return
	}

	if err := h.proc.Interrupt(); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			s.logger.Debug("Supervisor", "worker already exited", map[string]interface{}{
				"worker_id": h.ID,
			})
			return
		}
		s.logger.Warning("Supervisor", "interrupt delivery failed, killing worker", map[string]interface{}{
			"worker_id": h.ID,
			"pid":       h.proc.Pid(),
			"error":     err.Error(),
		})
		s.kill(h)
		return
	}

	s.logger.Info("Supervisor", "interrupt sent to worker", map[string]interface{}{
		"worker_id": h.ID,
		"pid":       h.proc.Pid(),
	})
}

// kill is the fallback for a worker that cannot be interrupted, such as a
// windows child of a shell without a console.
func (s *Supervisor) kill(h *Handle) {
	err := h.proc.Kill()
	if err == nil || errors.Is(err, os.ErrProcessDone) {
		s.logger.Info("Supervisor", "worker killed", map[string]interface{}{
			"worker_id": h.ID,
			"pid":       h.proc.Pid(),
		})
		return
	}
	s.logger.Error("Supervisor", "worker kill failed", err, map[string]interface{}{
		"worker_id": h.ID,
		"pid":       h.proc.Pid(),
	})
}

// State is UNSPAWNED until Spawn succeeds, then the handle's state.
func (s *Supervisor) State() State {
	s.mu.Lock()
	h := s.handle
	s.mu.Unlock()

	if h == nil {
		return StateUnspawned
	}
	return h.State()
}

func (s *Supervisor) Handle() *Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handle
}

// Shutdown terminates the live worker, if any. Registered with the
// shutdown manager so the worker never outlives the shell.
func (s *Supervisor) Shutdown() {
	s.Terminate(s.Handle())
}
