package app

import (
	"runtime"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

// fyneHost adapts a fyne application to Host.
type fyneHost struct {
	app      fyne.App
	platform string
}

func newFyneHost(app fyne.App) *fyneHost {
	return &fyneHost{app: app, platform: runtime.GOOS}
}

func (h *fyneHost) Platform() string {
	return h.platform
}

func (h *fyneHost) Quit() {
	fyne.Do(h.app.Quit)
}

// stayResident installs a tray menu, the way back to a resident app with no
// window open. Its Quit item is the explicit exit.
func (h *fyneHost) stayResident(name string) bool {
	desk, ok := h.app.(desktop.App)
	if !ok {
		return false
	}
	desk.SetSystemTrayMenu(fyne.NewMenu(name))
	return true
}
