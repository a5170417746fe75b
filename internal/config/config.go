package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Prefix namespaces every environment variable read by Load.
const Prefix = "COMPANION"

// Config holds the ambient settings of the shell. None of them change the
// startup/shutdown ordering; they only tune logging and where things live.
type Config struct {
	LogLevel      string `envconfig:"LOG_LEVEL" default:"info"`
	LogJSON       bool   `envconfig:"LOG_JSON" default:"false"`
	WorkerCommand string `envconfig:"WORKER_COMMAND" default:"python"`
	ResourcesDir  string `envconfig:"RESOURCES_DIR"`
	CrashDir      string `envconfig:"CRASH_DIR"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		LogLevel:      "info",
		LogJSON:       false,
		WorkerCommand: "python",
	}
}
