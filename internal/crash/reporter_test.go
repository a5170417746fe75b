package crash

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"companion-shell/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func readReports(t *testing.T, dir string) []Report {
	t.Helper()
	paths, err := filepath.Glob(filepath.Join(dir, "crash-*.yaml"))
	require.NoError(t, err)

	var reports []Report
	for _, path := range paths {
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		var r Report
		require.NoError(t, yaml.Unmarshal(data, &r))
		reports = append(reports, r)
	}
	return reports
}

func TestStartCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "crashes")

	r, err := Start(dir, "Companion Shell", "1.0.0", logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, dir, r.Dir())
	assert.DirExists(t, dir)
}

func TestWriteReport(t *testing.T) {
	r, err := Start(t.TempDir(), "Companion Shell", "1.0.0", logger.Nop())
	require.NoError(t, err)
	fixed := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return fixed }

	path, err := r.Write("window vanished", []byte("goroutine 1 [running]"))
	require.NoError(t, err)
	assert.FileExists(t, path)

	reports := readReports(t, r.Dir())
	require.Len(t, reports, 1)
	got := reports[0]
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "Companion Shell", got.Product)
	assert.Equal(t, "1.0.0", got.Version)
	assert.Equal(t, "window vanished", got.Panic)
	assert.Equal(t, "goroutine 1 [running]", got.Stack)
	assert.True(t, fixed.Equal(got.Time))
}

func TestRecoverWritesAndRepanics(t *testing.T) {
	r, err := Start(t.TempDir(), "Companion Shell", "1.0.0", logger.Nop())
	require.NoError(t, err)

	assert.PanicsWithValue(t, "boom", func() {
		defer r.Recover()
		panic("boom")
	})

	reports := readReports(t, r.Dir())
	require.Len(t, reports, 1)
	assert.Equal(t, "boom", reports[0].Panic)
	assert.Contains(t, reports[0].Stack, "goroutine")
}

func TestRecoverWithoutPanic(t *testing.T) {
	r, err := Start(t.TempDir(), "Companion Shell", "1.0.0", logger.Nop())
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		defer r.Recover()
	})
	assert.Empty(t, readReports(t, r.Dir()))
}

func TestNilReporterRepanics(t *testing.T) {
	var r *Reporter
	assert.PanicsWithValue(t, "boom", func() {
		defer r.Recover()
		panic("boom")
	})
}
