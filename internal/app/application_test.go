package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"companion-shell/internal/bundle"
	"companion-shell/internal/config"
	"companion-shell/internal/gui/guitest"
	"companion-shell/internal/logger"
	"companion-shell/internal/worker"
	workermocks "companion-shell/internal/worker/mocks"
	"companion-shell/internal/worker/workertest"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type appHarness struct {
	app      *Application
	fyneApp  *guitest.App
	launcher *workermocks.MockLauncher
	process  *workertest.Process
}

func newAppHarness(t *testing.T, platform string) *appHarness {
	t.Helper()
	ctrl := gomock.NewController(t)

	b, err := bundle.New(t.TempDir())
	require.NoError(t, err)

	h := &appHarness{
		fyneApp:  guitest.NewApp(t),
		launcher: workermocks.NewMockLauncher(ctrl),
		process:  workertest.NewProcess(6000),
	}
	host := &fyneHost{app: h.fyneApp, platform: platform}
	h.app = assemble(h.fyneApp, host, h.launcher, NewLaunch(b, "python"), &config.Manifest{}, logger.Nop(), nil)
	return h
}

// run starts the application and delivers the driver's started callback.
func (h *appHarness) run(t *testing.T) <-chan error {
	t.Helper()
	errCh := make(chan error, 1)
	go func() { errCh <- h.app.Run(context.Background()) }()
	h.app.lifecycle.Post(Event{Type: EventReady})
	return errCh
}

func (h *appHarness) waitWindow(t *testing.T) *guitest.Window {
	t.Helper()
	require.Eventually(t, func() bool {
		return h.app.lifecycle.State().Window() != nil
	}, 2*time.Second, 5*time.Millisecond)

	windows := h.fyneApp.Windows()
	require.Len(t, windows, 1)
	return windows[0]
}

func waitRun(t *testing.T, errCh <-chan error) error {
	t.Helper()
	select {
	case err := <-errCh:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("application did not stop")
		return nil
	}
}

func TestApplicationQuitsWhenWindowClosed(t *testing.T) {
	h := newAppHarness(t, "linux")
	h.launcher.EXPECT().Launch("python", gomock.Any()).Return(h.process, nil).Times(1)

	errCh := h.run(t)
	win := h.waitWindow(t)

	win.UserClose()

	require.NoError(t, waitRun(t, errCh))
	assert.Equal(t, 1, h.process.Interrupts())
	assert.Equal(t, 1, h.fyneApp.Quits())
	assert.Zero(t, win.Closes())
}

func TestApplicationStaysResidentOnDarwin(t *testing.T) {
	h := newAppHarness(t, ResidentPlatform)
	h.launcher.EXPECT().Launch("python", gomock.Any()).Return(h.process, nil).Times(1)

	errCh := h.run(t)
	win := h.waitWindow(t)

	win.UserClose()

	require.Eventually(t, func() bool {
		return h.process.Interrupts() == 1 && h.app.lifecycle.State().Window() == nil
	}, 2*time.Second, 5*time.Millisecond)

	select {
	case err := <-errCh:
		t.Fatalf("application exited after last window closed: %v", err)
	case <-time.After(100 * time.Millisecond):
	}
	assert.Zero(t, h.fyneApp.Quits())
	assert.Zero(t, win.Closes(), "native window must not be destroyed")

	// The tray's Quit item.
	h.fyneApp.Quit()

	require.NoError(t, waitRun(t, errCh))
	assert.Equal(t, 1, h.process.Interrupts())
}

func TestApplicationSpawnFailureEndsRun(t *testing.T) {
	h := newAppHarness(t, "linux")
	notFound := errors.New("executable file not found")
	h.launcher.EXPECT().Launch("python", gomock.Any()).Return(nil, notFound).Times(1)

	err := waitRun(t, h.run(t))

	assert.ErrorIs(t, err, notFound)
	assert.Equal(t, err, h.app.Err())
	assert.Empty(t, h.fyneApp.Windows())
	assert.Equal(t, 1, h.fyneApp.Quits())
	assert.Equal(t, worker.StateUnspawned, h.app.lifecycle.workers.(*worker.Supervisor).State())
}
