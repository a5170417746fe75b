package gui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"companion-shell/internal/gui/guitest"
	"companion-shell/internal/logger"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const indexURL = "file:///app/index.html"

func newTestSurface(t *testing.T, load func(string) (*Document, error)) (*fyneSurface, *guitest.Window, *guitest.App) {
	t.Helper()
	a := guitest.NewApp(t)
	factory := &FyneFactory{app: a, logger: logger.Nop(), load: load}

	s, ok := factory.NewSurface("Companion Shell", 800, 600).(*fyneSurface)
	require.True(t, ok)
	require.Len(t, a.Windows(), 1)
	return s, a.Windows()[0], a
}

func parseIndex(url string) (*Document, error) {
	return ParseDocument(url, []byte(indexHTML))
}

func isDocumentView(obj fyne.CanvasObject) bool {
	c, ok := obj.(*fyne.Container)
	if !ok {
		return false
	}
	for _, child := range c.Objects {
		if _, ok := child.(*container.Scroll); ok {
			return true
		}
	}
	return false
}

func TestFyneSurfaceUserCloseFiresOnceAndHides(t *testing.T) {
	s, win, a := newTestSurface(t, parseIndex)

	closed := 0
	s.SetOnClosed(func() { closed++ })
	s.Show()
	require.Equal(t, 1, win.Shows())

	win.UserClose()
	win.UserClose()
	s.Close()

	assert.Equal(t, 1, closed)
	assert.Equal(t, 1, win.Hides())
	assert.Zero(t, win.Closes(), "native window must not be destroyed")
	assert.Zero(t, a.Quits())

	s.Show()
	assert.Equal(t, 1, win.Shows(), "closed window is never shown again")
}

func TestFyneSurfaceCloseUsesInterceptPath(t *testing.T) {
	s, win, a := newTestSurface(t, parseIndex)

	closed := 0
	s.SetOnClosed(func() { closed++ })

	s.Close()
	win.UserClose()

	assert.Equal(t, 1, closed)
	assert.Zero(t, win.Closes())
	assert.Zero(t, a.Quits())
}

func TestFyneSurfaceLoadDoesNotBlock(t *testing.T) {
	release := make(chan struct{})
	s, win, _ := newTestSurface(t, func(url string) (*Document, error) {
		<-release
		return parseIndex(url)
	})

	returned := make(chan struct{})
	go func() {
		s.Load(indexURL)
		s.OpenInspector()
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(2 * time.Second):
		t.Fatal("Load blocked on the resource")
	}

	split, ok := win.Content().(*container.Split)
	require.True(t, ok, "inspector renders beside the page")
	assert.False(t, isDocumentView(split.Leading))

	close(release)
	require.Eventually(t, func() bool {
		split, ok := win.Content().(*container.Split)
		return ok && isDocumentView(split.Leading)
	}, 2*time.Second, 5*time.Millisecond)
}

func TestFyneSurfaceLoadFailureIsRendered(t *testing.T) {
	s, win, _ := newTestSurface(t, func(string) (*Document, error) {
		return nil, errors.New("no such file")
	})

	s.Load(indexURL)

	require.Eventually(t, func() bool {
		center, ok := win.Content().(*fyne.Container)
		if !ok || len(center.Objects) != 1 {
			return false
		}
		label, ok := center.Objects[0].(*widget.Label)
		return ok && strings.HasPrefix(label.Text, "Failed to load "+indexURL)
	}, 2*time.Second, 5*time.Millisecond)
}

func TestManagerWithFyneSurface(t *testing.T) {
	a := guitest.NewApp(t)
	m := NewManager(&FyneFactory{app: a, logger: logger.Nop(), load: parseIndex}, "Companion Shell", logger.Nop())

	w := m.CreateWindow(800, 600, indexURL)
	require.Len(t, a.Windows(), 1)
	assert.Equal(t, 1, m.Count())

	closed := 0
	w.OnClosed(func() { closed++ })

	a.Windows()[0].UserClose()

	assert.Equal(t, 1, closed)
	assert.True(t, w.Closed())
	assert.Zero(t, m.Count())
	assert.Zero(t, a.Windows()[0].Closes())
}
