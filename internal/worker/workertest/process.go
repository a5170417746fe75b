// Package workertest provides an in-memory worker.Process for tests.
package workertest

import (
	"errors"
	"os"
	"sync"
)

var (
	// ErrInterrupted is what Wait returns for a process stopped by Interrupt.
	ErrInterrupted = errors.New("workertest: interrupted")
	// ErrKilled is what Wait returns for a process stopped by Kill.
	ErrKilled = errors.New("workertest: killed")
)

// Process behaves like a cooperative worker: it runs until interrupted or
// until Exit is called.
type Process struct {
	pid int

	mu         sync.Mutex
	interrupts   int
	kills        int
	interruptErr error
	err          error

	done      chan struct{}
	closeOnce sync.Once
}

func NewProcess(pid int) *Process {
	return &Process{pid: pid, done: make(chan struct{})}
}

func (p *Process) Pid() int {
	return p.pid
}

// Interrupt records the attempt. A live process exits with ErrInterrupted;
// an exited one returns os.ErrProcessDone.
func (p *Process) Interrupt() error {
	p.mu.Lock()
	p.interrupts++
	failure := p.interruptErr
	p.mu.Unlock()

	if failure != nil {
		return failure
	}

	select {
	case <-p.done:
		return os.ErrProcessDone
	default:
	}
	p.Exit(ErrInterrupted)
	return nil
}

// RejectInterrupts makes every later Interrupt fail with err and leave the
// process running.
func (p *Process) RejectInterrupts(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.interruptErr = err
}

func (p *Process) Kill() error {
	p.mu.Lock()
	p.kills++
	p.mu.Unlock()

	select {
	case <-p.done:
		return os.ErrProcessDone
	default:
	}
	p.Exit(ErrKilled)
	return nil
}

// Exit makes the process end on its own with err.
func (p *Process) Exit(err error) {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.err = err
		p.mu.Unlock()
		close(p.done)
	})
}

func (p *Process) Wait() error {
	<-p.done
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Interrupts counts every Interrupt call, including ones on an exited process.
func (p *Process) Interrupts() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.interrupts
}

func (p *Process) Kills() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.kills
}
