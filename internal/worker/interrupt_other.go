//go:build !windows

package worker

import (
	"os"
	"syscall"
)

func sysProcAttr() *syscall.SysProcAttr {
	return nil
}

// interrupt delivers SIGINT. A process that has already been reaped yields
// os.ErrProcessDone.
func interrupt(p *os.Process) error {
	return p.Signal(os.Interrupt)
}
