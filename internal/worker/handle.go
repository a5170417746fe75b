package worker

import (
	"sync"

	"github.com/google/uuid"
)

// State is the worker lifecycle: UNSPAWNED -> RUNNING -> TERMINATED.
type State int

const (
	StateUnspawned State = iota
	StateRunning
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateUnspawned:
		return "UNSPAWNED"
	case StateRunning:
		return "RUNNING"
	case StateTerminated:
		return "TERMINATED"
	default:
		return "UNKNOWN"
	}
}

// Handle is the supervisor-owned reference to one spawned worker.
type Handle struct {
	ID   string
	Path string
	Args []string

	proc Process

	mu        sync.Mutex
	state     State
	signalled bool
	exited    bool
	exitErr   error
	done      chan struct{}
}

func newHandle(path string, args []string, proc Process) *Handle {
	return &Handle{
		ID:    uuid.NewString(),
		Path:  path,
		Args:  append([]string(nil), args...),
		proc:  proc,
		state: StateRunning,
		done:  make(chan struct{}),
	}
}

func (h *Handle) PID() int {
	return h.proc.Pid()
}

func (h *Handle) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

func (h *Handle) Alive() bool {
	return h.State() == StateRunning
}

// Signalled reports whether an interrupt was sent to this worker.
func (h *Handle) Signalled() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.signalled
}

// Done is closed once the process has exited and been reaped.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// ExitErr is the result of waiting on the process. Valid after Done.
func (h *Handle) ExitErr() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.exitErr
}

// claimTermination moves RUNNING to TERMINATED. Only the first caller on a
// live handle gets true.
func (h *Handle) claimTermination() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state != StateRunning || h.exited {
		return false
	}
	h.state = StateTerminated
	h.signalled = true
	return true
}

func (h *Handle) markExited(err error) {
	h.mu.Lock()
	h.exited = true
	h.exitErr = err
	h.state = StateTerminated
	h.mu.Unlock()

	close(h.done)
}
