package gui

import (
	"fmt"
	"sync"

	"companion-shell/internal/logger"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// FyneFactory creates surfaces backed by fyne windows.
type FyneFactory struct {
	app    fyne.App
	logger logger.Logger
	load   func(string) (*Document, error)
}

func NewFyneFactory(app fyne.App, log logger.Logger) *FyneFactory {
	return &FyneFactory{
		app:    app,
		logger: log,
		load:   LoadDocument,
	}
}

// NewSurface must not be called from the fyne main goroutine: it waits for
// the window to exist.
func (f *FyneFactory) NewSurface(title string, width, height int) Surface {
	s := &fyneSurface{
		logger: f.logger,
		load:   f.load,
		width:  width,
		height: height,
	}

	fyne.DoAndWait(func() {
		s.window = f.app.NewWindow(title)
		s.window.SetCloseIntercept(s.requestClose)
		s.window.Resize(fyne.NewSize(float32(width), float32(height)))
		s.window.CenterOnScreen()
		s.render()
	})
	return s
}

// fyneSurface never destroys its native window. fyne quits once its last
// window is destroyed, and only Host.Quit may end the application, so a
// closed surface is hidden for good instead.
type fyneSurface struct {
	logger logger.Logger
	load   func(string) (*Document, error)
	width  int
	height int
	window fyne.Window

	mu         sync.Mutex
	doc        *Document
	loadErr    error
	loading    string
	inspecting bool
	closed     bool
	onClosed   func()
}

func (s *fyneSurface) Show() {
	fyne.Do(func() {
		if s.isClosed() {
			return
		}
		s.window.Show()
	})
}

func (s *fyneSurface) SetOnClosed(cb func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onClosed = cb
}

func (s *fyneSurface) Load(resourceURL string) {
	s.mu.Lock()
	s.loading = resourceURL
	s.mu.Unlock()
	fyne.Do(s.render)

	go func() {
		doc, err := s.load(resourceURL)
		if err != nil {
			s.logger.Error("GUISurface", "resource load failed", err, map[string]interface{}{
				"resource": resourceURL,
			})
		} else {
			s.logger.Debug("GUISurface", "resource loaded", map[string]interface{}{
				"resource": resourceURL,
				"mime":     doc.MIME,
				"bytes":    doc.Size,
				"load_ms":  doc.LoadTime.Milliseconds(),
			})
		}

		s.mu.Lock()
		s.doc = doc
		s.loadErr = err
		s.mu.Unlock()
		fyne.Do(s.render)
	}()
}

func (s *fyneSurface) OpenInspector() {
	s.mu.Lock()
	s.inspecting = true
	s.mu.Unlock()
	fyne.Do(s.render)
}

func (s *fyneSurface) Close() {
	fyne.Do(s.requestClose)
}

// requestClose is the window's close intercept, so the title bar button and
// Close share one path. The callback fires once.
func (s *fyneSurface) requestClose() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	cb := s.onClosed
	s.onClosed = nil
	s.mu.Unlock()

	s.window.Hide()
	s.logger.Debug("GUISurface", "window closed", map[string]interface{}{
		"title": s.window.Title(),
	})
	if cb != nil {
		cb()
	}
}

func (s *fyneSurface) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *fyneSurface) render() {
	s.mu.Lock()
	doc, loadErr, loading, inspecting := s.doc, s.loadErr, s.loading, s.inspecting
	s.mu.Unlock()

	content := documentView(doc, loadErr, loading)
	if inspecting {
		split := container.NewHSplit(content, newInspector(doc, loading, s.width, s.height))
		split.SetOffset(0.65)
		content = split
	}
	s.window.SetContent(content)
}

func documentView(doc *Document, loadErr error, loading string) fyne.CanvasObject {
	switch {
	case loadErr != nil:
		return container.NewCenter(widget.NewLabel(fmt.Sprintf("Failed to load %s\n%v", loading, loadErr)))
	case doc == nil:
		return container.NewCenter(widget.NewLabel("Loading..."))
	}

	title := widget.NewLabelWithStyle(doc.Title, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	blocks := container.NewVBox()
	for _, text := range doc.Blocks {
		label := widget.NewLabel(text)
		label.Wrapping = fyne.TextWrapWord
		blocks.Add(label)
	}
	return container.NewBorder(title, nil, nil, nil, container.NewVScroll(blocks))
}
