package gui

// Surface is one native window as the manager drives it. Implementations
// must not block: Load in particular returns before the resource is read.
type Surface interface {
	Show()
	Load(resourceURL string)
	OpenInspector()
	Close()
	// SetOnClosed registers the callback fired when the user or the system
	// closes the window.
	SetOnClosed(func())
}

type SurfaceFactory interface {
	NewSurface(title string, width, height int) Surface
}
