package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"companion-shell/internal/bundle"
	"companion-shell/internal/config"
	"companion-shell/internal/crash"
	"companion-shell/internal/gui"
	"companion-shell/internal/logger"
	"companion-shell/internal/shutdown"
	"companion-shell/internal/worker"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
)

const (
	AppName    = "Companion Shell"
	AppID      = "io.companionshell.app"
	AppVersion = "1.0.0"

	WindowWidth  = 800
	WindowHeight = 600

	WorkerScript = "client.py"
	IndexPage    = "index.html"
	ManifestFile = "package.json"
)

type Application struct {
	fyneApp   fyne.App
	lifecycle *Lifecycle
	shutdown  *shutdown.Manager
	reporter  *crash.Reporter
	logger    logger.Logger

	mu  sync.Mutex
	err error
}

func NewApplication(cfg *config.Config, log logger.Logger, reporter *crash.Reporter) (*Application, error) {
	b, err := bundle.Locate(cfg.ResourcesDir)
	if err != nil {
		return nil, err
	}

	manifest, err := config.LoadManifestOrEmpty(b.Path(ManifestFile))
	if err != nil {
		return nil, fmt.Errorf("load manifest: %w", err)
	}

	fyneApp := app.NewWithID(AppID)
	host := newFyneHost(fyneApp)
	if host.Platform() == ResidentPlatform && host.stayResident(AppName) {
		log.Debug("Application", "system tray installed", nil)
	}

	a := assemble(fyneApp, host, worker.ExecLauncher{}, NewLaunch(b, cfg.WorkerCommand), manifest, log, reporter)

	log.Info("Application", "initialization complete", map[string]interface{}{
		"version":    AppVersion,
		"bundle_dir": b.Dir(),
		"worker":     cfg.WorkerCommand,
		"debug":      manifest.DebugEnabled(),
		"platform":   host.Platform(),
	})
	return a, nil
}

// assemble wires the lifecycle to fyne-backed windows and a supervised
// worker. Nothing starts until Run.
func assemble(fyneApp fyne.App, host Host, launcher worker.Launcher, launch Launch, debug DebugSource, log logger.Logger, reporter *crash.Reporter) *Application {
	supervisor := worker.NewSupervisor(launcher, log)
	windows := gui.NewManager(gui.NewFyneFactory(fyneApp, log), AppName, log)

	lifecycle := NewLifecycle(Options{
		Host:    host,
		Windows: windows,
		Workers: supervisor,
		Debug:   debug,
		Logger:  log,
		Launch:  launch,
	})

	shutdownManager := shutdown.NewManager(log)
	shutdownManager.Register(supervisor)
	shutdownManager.Register(lifecycle)

	fyneApp.Lifecycle().SetOnStarted(func() {
		lifecycle.Post(Event{Type: EventReady})
	})

	return &Application{
		fyneApp:   fyneApp,
		lifecycle: lifecycle,
		shutdown:  shutdownManager,
		reporter:  reporter,
		logger:    log,
	}
}

// Run blocks in the fyne event loop until the lifecycle quits it. The
// returned error is the fault that ended the lifecycle, if any.
func (a *Application) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.shutdown.Listen()

	go func() {
		defer a.reporter.Recover()

		err := a.lifecycle.Run(ctx)
		if err == nil || errors.Is(err, context.Canceled) {
			return
		}

		a.logger.Error("Application", "lifecycle failed", err, nil)
		a.setErr(err)
		fyne.Do(a.fyneApp.Quit)
	}()

	a.fyneApp.Run()

	a.shutdown.Shutdown()
	return a.Err()
}

func (a *Application) setErr(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.err = err
}

func (a *Application) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.err
}
