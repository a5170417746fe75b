// Package crash records panics of the shell as YAML reports on disk.
package crash

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"time"

	"companion-shell/internal/logger"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

type Report struct {
	ID        string    `yaml:"id"`
	Product   string    `yaml:"product"`
	Version   string    `yaml:"version"`
	Platform  string    `yaml:"platform"`
	GoVersion string    `yaml:"go_version"`
	Time      time.Time `yaml:"time"`
	Panic     string    `yaml:"panic"`
	Stack     string    `yaml:"stack"`
}

type Reporter struct {
	dir     string
	product string
	version string
	logger  logger.Logger
	now     func() time.Time
}

// Start prepares dir for crash reports. An empty dir selects
// <user cache dir>/<product>/crashes.
func Start(dir, product, version string, log logger.Logger) (*Reporter, error) {
	if dir == "" {
		cache, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("locate cache dir: %w", err)
		}
		dir = filepath.Join(cache, product, "crashes")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create crash dir: %w", err)
	}

	log.Debug("CrashReporter", "crash reporting started", map[string]interface{}{
		"dir": dir,
	})
	return &Reporter{
		dir:     dir,
		product: product,
		version: version,
		logger:  log,
		now:     time.Now,
	}, nil
}

func (r *Reporter) Dir() string {
	return r.dir
}

// Write stores a report for the panic value p and returns its path.
func (r *Reporter) Write(p interface{}, stack []byte) (string, error) {
	report := Report{
		ID:        uuid.NewString(),
		Product:   r.product,
		Version:   r.version,
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		GoVersion: runtime.Version(),
		Time:      r.now().UTC(),
		Panic:     fmt.Sprint(p),
		Stack:     string(stack),
	}

	data, err := yaml.Marshal(&report)
	if err != nil {
		return "", fmt.Errorf("encode crash report: %w", err)
	}

	path := filepath.Join(r.dir, "crash-"+report.ID+".yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write crash report: %w", err)
	}
	return path, nil
}

// Recover must be deferred directly. It records a panic and re-panics so
// the process still dies. A nil Reporter only re-panics.
func (r *Reporter) Recover() {
	p := recover()
	if p == nil {
		return
	}

	if r != nil {
		path, err := r.Write(p, debug.Stack())
		if err != nil {
			r.logger.Error("CrashReporter", "crash report not written", err, nil)
		} else {
			r.logger.Error("CrashReporter", "crash report written", fmt.Errorf("panic: %v", p), map[string]interface{}{
				"path": path,
			})
		}
	}
	panic(p)
}
