package app

import (
	"context"
	"fmt"
	"sync"

	"companion-shell/internal/bundle"
	"companion-shell/internal/gui"
	"companion-shell/internal/logger"
	"companion-shell/internal/worker"
)

//go:generate mockgen -destination=mocks/mock_host.go -package=mocks companion-shell/internal/app Host

// ResidentPlatform keeps running after its last window closes, waiting for
// an explicit quit.
const ResidentPlatform = "darwin"

const eventQueueSize = 16

// Host is the application runtime hosting the shell.
type Host interface {
	Platform() string
	Quit()
}

// DebugSource reports the packaged debug flag.
type DebugSource interface {
	DebugEnabled() bool
}

// WindowCreator opens windows and counts the ones still open.
type WindowCreator interface {
	CreateWindow(width, height int, resourceURL string) *gui.Window
	Count() int
}

// WorkerSupervisor starts the worker and stops it cooperatively.
type WorkerSupervisor interface {
	Spawn(path string, args ...string) (*worker.Handle, error)
	Terminate(h *worker.Handle)
}

// Launch describes what ready brings up.
type Launch struct {
	WorkerCommand string
	WorkerScript  string
	ResourceURL   string
	Width         int
	Height        int
}

// NewLaunch resolves the worker script and the window page inside b.
func NewLaunch(b *bundle.Bundle, workerCommand string) Launch {
	return Launch{
		WorkerCommand: workerCommand,
		WorkerScript:  b.Path(WorkerScript),
		ResourceURL:   b.URL(IndexPage),
		Width:         WindowWidth,
		Height:        WindowHeight,
	}
}

// Options are the collaborators of a Lifecycle. A nil Logger discards.
type Options struct {
	Host    Host
	Windows WindowCreator
	Workers WorkerSupervisor
	Debug   DebugSource
	Logger  logger.Logger
	Launch  Launch
}

// Lifecycle decides when windows and the worker come and go and when the
// application exits. Handlers run one at a time on the goroutine that calls
// Run (or Dispatch).
type Lifecycle struct {
	host    Host
	windows WindowCreator
	workers WorkerSupervisor
	debug   DebugSource
	logger  logger.Logger
	launch  Launch

	state    *State
	handlers map[EventType]func(Event) error

	events   chan Event
	stopped  chan struct{}
	stopOnce sync.Once

	ready    bool
	quitting bool
}

// NewLifecycle returns a Lifecycle that waits for EventReady. Nothing runs
// until Run or Dispatch is called.
func NewLifecycle(opts Options) *Lifecycle {
	l := &Lifecycle{
		host:    opts.Host,
		windows: opts.Windows,
		workers: opts.Workers,
		debug:   opts.Debug,
		logger:  opts.Logger,
		launch:  opts.Launch,
		state:   &State{},
		events:  make(chan Event, eventQueueSize),
		stopped: make(chan struct{}),
	}
	if l.logger == nil {
		l.logger = logger.Nop()
	}

	l.handlers = map[EventType]func(Event) error{
		EventReady:            l.onReady,
		EventWindowClosed:     l.onWindowClosed,
		EventAllWindowsClosed: l.onAllWindowsClosed,
		EventWorkerExited:     l.onWorkerExited,
		EventQuitRequested:    l.onQuitRequested,
	}
	return l
}

func (l *Lifecycle) State() *State {
	return l.state
}

// Post queues ev for the loop. Safe from any goroutine; dropped once the
// loop has stopped.
func (l *Lifecycle) Post(ev Event) {
	select {
	case l.events <- ev:
	case <-l.stopped:
		l.logger.Debug("Lifecycle", "event dropped after stop", map[string]interface{}{
			"event": ev.Type.String(),
		})
	}
}

// Run is the driver loop. It returns nil once the application quit,
// ctx.Err() on cancellation, or the first handler error.
func (l *Lifecycle) Run(ctx context.Context) error {
	defer l.stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-l.events:
			if err := l.Dispatch(ev); err != nil {
				return err
			}
			if l.quitting {
				return nil
			}
		}
	}
}

func (l *Lifecycle) stop() {
	l.stopOnce.Do(func() { close(l.stopped) })
}

// Dispatch runs the handler for ev on the calling goroutine.
func (l *Lifecycle) Dispatch(ev Event) error {
	handler, ok := l.handlers[ev.Type]
	if !ok {
		return fmt.Errorf("no handler for event %d", ev.Type)
	}

	if !l.ready && ev.Type != EventReady && ev.Type != EventQuitRequested {
		l.logger.Warning("Lifecycle", "event before ready ignored", map[string]interface{}{
			"event": ev.Type.String(),
		})
		return nil
	}

	l.logger.Debug("Lifecycle", "dispatch", map[string]interface{}{
		"event": ev.Type.String(),
	})
	return handler(ev)
}

// Shutdown asks the loop to quit. It satisfies shutdown.Shutdownable.
func (l *Lifecycle) Shutdown() {
	l.Post(Event{Type: EventQuitRequested})
}

func (l *Lifecycle) onReady(Event) error {
	if l.ready {
		l.logger.Warning("Lifecycle", "duplicate ready ignored", nil)
		return nil
	}
	l.ready = true

	h, err := l.workers.Spawn(l.launch.WorkerCommand, l.launch.WorkerScript)
	if err != nil {
		return fmt.Errorf("ready: %w", err)
	}
	if err := l.state.setWorker(h); err != nil {
		return fmt.Errorf("ready: %w", err)
	}
	go func() {
		<-h.Done()
		l.Post(Event{Type: EventWorkerExited, Worker: h})
	}()

	win := l.windows.CreateWindow(l.launch.Width, l.launch.Height, l.launch.ResourceURL)
	if err := l.state.setWindow(win); err != nil {
		return fmt.Errorf("ready: %w", err)
	}
	win.OnClosed(func() {
		l.Post(Event{Type: EventWindowClosed, Window: win})
	})

	debug := l.debug != nil && l.debug.DebugEnabled()
	if debug {
		win.OpenInspector()
	}

	l.logger.Info("Lifecycle", "application ready", map[string]interface{}{
		"worker_id": h.ID,
		"window_id": win.ID,
		"debug":     debug,
	})
	return nil
}

func (l *Lifecycle) onWindowClosed(ev Event) error {
	l.state.clearWindow(ev.Window)
	l.workers.Terminate(l.state.takeWorker())

	if l.windows.Count() == 0 {
		return l.Dispatch(Event{Type: EventAllWindowsClosed})
	}
	return nil
}

func (l *Lifecycle) onAllWindowsClosed(Event) error {
	if platform := l.host.Platform(); platform == ResidentPlatform {
		l.logger.Info("Lifecycle", "last window closed, staying resident", map[string]interface{}{
			"platform": platform,
		})
		return nil
	}
	l.quit()
	return nil
}

// The worker exiting by itself is reported but changes nothing.
func (l *Lifecycle) onWorkerExited(ev Event) error {
	fields := map[string]interface{}{
		"worker_id": ev.Worker.ID,
		"pid":       ev.Worker.PID(),
		"signalled": ev.Worker.Signalled(),
	}
	if err := ev.Worker.ExitErr(); err != nil {
		fields["exit"] = err.Error()
	}
	l.logger.Info("Lifecycle", "worker exited", fields)
	return nil
}

func (l *Lifecycle) onQuitRequested(Event) error {
	if win := l.state.takeWindow(); win != nil {
		win.Close()
	}
	l.workers.Terminate(l.state.takeWorker())
	l.quit()
	return nil
}

func (l *Lifecycle) quit() {
	if l.quitting {
		return
	}
	l.quitting = true

	l.logger.Info("Lifecycle", "quitting application", nil)
	l.host.Quit()
}
