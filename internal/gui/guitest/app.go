// Package guitest wraps the fyne test driver with windows that can be closed
// the way a user closes them, and an App whose Run blocks until Quit.
package guitest

import (
	"sync"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
)

type App struct {
	fyne.App

	mu      sync.Mutex
	windows []*Window
	quits   int

	quit     chan struct{}
	quitOnce sync.Once
}

func NewApp(t testing.TB) *App {
	return &App{App: test.NewTempApp(t), quit: make(chan struct{})}
}

func (a *App) NewWindow(title string) fyne.Window {
	w := &Window{Window: a.App.NewWindow(title)}

	a.mu.Lock()
	a.windows = append(a.windows, w)
	a.mu.Unlock()
	return w
}

// Run blocks until Quit, like a real driver's event loop.
func (a *App) Run() {
	<-a.quit
}

func (a *App) Quit() {
	a.mu.Lock()
	a.quits++
	a.mu.Unlock()
	a.quitOnce.Do(func() { close(a.quit) })
}

func (a *App) Quits() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.quits
}

func (a *App) Windows() []*Window {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]*Window(nil), a.windows...)
}

// Window records what a real driver would act on: the close intercept and
// calls to Close, which destroy the native window.
type Window struct {
	fyne.Window

	mu        sync.Mutex
	intercept func()
	closes    int
	shows     int
	hides     int
}

func (w *Window) SetCloseIntercept(cb func()) {
	w.mu.Lock()
	w.intercept = cb
	w.mu.Unlock()
	w.Window.SetCloseIntercept(cb)
}

func (w *Window) Show() {
	w.mu.Lock()
	w.shows++
	w.mu.Unlock()
	w.Window.Show()
}

func (w *Window) Hide() {
	w.mu.Lock()
	w.hides++
	w.mu.Unlock()
	w.Window.Hide()
}

func (w *Window) Close() {
	w.mu.Lock()
	w.closes++
	w.mu.Unlock()
	w.Window.Close()
}

// UserClose presses the title bar close button: the intercept runs if one
// is set, otherwise the window is destroyed.
func (w *Window) UserClose() {
	w.mu.Lock()
	cb := w.intercept
	w.mu.Unlock()

	if cb != nil {
		cb()
		return
	}
	w.Close()
}

// Closes counts destroy requests.
func (w *Window) Closes() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closes
}

func (w *Window) Shows() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.shows
}

func (w *Window) Hides() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.hides
}
