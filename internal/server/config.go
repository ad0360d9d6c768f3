package server

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tickforge/tickforge/internal/core/engine"
)

// Config holds gateway and engine configuration.
type Config struct {
	// Network settings
	ListenAddr string `yaml:"listen_addr"`
	MaxClients int    `yaml:"max_clients"`

	// Message settings
	ReadLimit    int64         `yaml:"read_limit"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	SendBuffer   int           `yaml:"send_buffer"`

	// Engine settings
	Engine engine.Config `yaml:"engine"`

	// Logging
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns the default gateway configuration.
func DefaultConfig() Config {
	return Config{
		ListenAddr:   "127.0.0.1:8080",
		MaxClients:   10_000,
		ReadLimit:    64 * 1024, // 64KB
		WriteTimeout: 10 * time.Second,
		SendBuffer:   256,
		Engine:       engine.DefaultConfig(),
		LogLevel:     "info",
	}
}

// LoadConfig reads a yaml config file over the defaults. A missing path
// returns the defaults unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return cfg, nil
}
