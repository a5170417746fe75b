package worker

import (
	"fmt"
	"os"
	"os/exec"
)

//go:generate mockgen -destination=mocks/mock_launcher.go -package=mocks companion-shell/internal/worker Launcher

// Process is a started OS process as seen by the supervisor.
type Process interface {
	Pid() int
	// Interrupt asks the process to stop. It must not force-kill.
	Interrupt() error
	// Kill stops the process unconditionally.
	Kill() error
	// Wait blocks until the process exits and has been reaped.
	Wait() error
}

// Launcher starts processes. It returns as soon as the process is running;
// it never waits for the child's own initialization.
type Launcher interface {
	Launch(path string, args []string) (Process, error)
}

// ExecLauncher launches real processes with os/exec. Stdio is inherited
// from the shell.
type ExecLauncher struct {
	// Env is appended to the shell's environment when non-empty.
	Env []string
}

func (l ExecLauncher) Launch(path string, args []string) (Process, error) {
	cmd := exec.Command(path, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.SysProcAttr = sysProcAttr()
	if len(l.Env) > 0 {
		cmd.Env = append(os.Environ(), l.Env...)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start process: %w", err)
	}
	return &execProcess{cmd: cmd}, nil
}

type execProcess struct {
	cmd *exec.Cmd
}

func (p *execProcess) Pid() int {
	return p.cmd.Process.Pid
}

func (p *execProcess) Interrupt() error {
	return interrupt(p.cmd.Process)
}

func (p *execProcess) Kill() error {
	return p.cmd.Process.Kill()
}

func (p *execProcess) Wait() error {
	return p.cmd.Wait()
}
