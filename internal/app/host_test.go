package app

import (
	"runtime"
	"testing"

	"companion-shell/internal/bundle"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFyneHostPlatform(t *testing.T) {
	host := newFyneHost(test.NewTempApp(t))
	assert.Equal(t, runtime.GOOS, host.Platform())
}

func TestNewLaunch(t *testing.T) {
	b, err := bundle.New(t.TempDir())
	require.NoError(t, err)

	launch := NewLaunch(b, "python3")

	assert.Equal(t, "python3", launch.WorkerCommand)
	assert.Equal(t, b.Path("client.py"), launch.WorkerScript)
	assert.Equal(t, b.URL("index.html"), launch.ResourceURL)
	assert.Equal(t, 800, launch.Width)
	assert.Equal(t, 600, launch.Height)
}
