// Package bundle resolves the files shipped alongside the shell: the
// window's page, the worker script and the packaged manifest.
package bundle

import (
	"fmt"
	"os"
	"path/filepath"

	"fyne.io/fyne/v2/storage"
)

type Bundle struct {
	dir string
}

// Locate returns the bundle rooted at override, or at the directory of the
// running executable when override is empty.
func Locate(override string) (*Bundle, error) {
	if override != "" {
		return New(override)
	}

	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("resolve executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return New(filepath.Dir(exe))
}

func New(dir string) (*Bundle, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve bundle dir %s: %w", dir, err)
	}
	return &Bundle{dir: abs}, nil
}

func (b *Bundle) Dir() string {
	return b.dir
}

// Path is the absolute path of name inside the bundle.
func (b *Bundle) Path(name string) string {
	return filepath.Join(b.dir, name)
}

// URL is the file:// locator of name inside the bundle.
func (b *Bundle) URL(name string) string {
	return storage.NewFileURI(b.Path(name)).String()
}
