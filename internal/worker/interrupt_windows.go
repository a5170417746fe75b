//go:build windows

package worker

import (
	"os"
	"syscall"

	"golang.org/x/sys/windows"
)

// The worker gets its own process group so a console break can be aimed
// at it without hitting the shell.
func sysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{CreationFlags: windows.CREATE_NEW_PROCESS_GROUP}
}

// interrupt sends CTRL_BREAK_EVENT, the closest catchable equivalent of
// SIGINT that windows can deliver to another process group. It fails when
// the shell has no console, and the supervisor then kills the worker.
func interrupt(p *os.Process) error {
	return windows.GenerateConsoleCtrlEvent(windows.CTRL_BREAK_EVENT, uint32(p.Pid))
}
