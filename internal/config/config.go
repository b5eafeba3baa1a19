package config

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	"snaptrack/internal/fsio"
)

// Config controls snapshot population and change reporting.
type Config struct {
	// Exclude lists location prefixes stripped from reported change sets.
	Exclude []string `yaml:"exclude"`
	// MaxSignatureBytes caps the file size for content hashing; files larger
	// than this keep attribute signatures only. Zero means no cap.
	MaxSignatureBytes int64 `yaml:"max_signature_bytes"`
	// Workers bounds the number of files hashed concurrently per directory.
	Workers int `yaml:"workers"`
}

func DefaultConfig() *Config {
	return &Config{
		Exclude:           []string{},
		MaxSignatureBytes: 0,
		Workers:           runtime.NumCPU(),
	}
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	if cfg.Exclude == nil {
		cfg.Exclude = []string{}
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}

	return &cfg, nil
}

// SignatureFilter builds the per-file predicate deciding whether a file's
// content is hashed during population.
func (c *Config) SignatureFilter(fs fsio.FS) func(absPath string) bool {
	if c.MaxSignatureBytes <= 0 {
		return func(string) bool { return true }
	}
	max := c.MaxSignatureBytes
	return func(absPath string) bool {
		st, err := fs.Stat(absPath)
		if err != nil {
			return false
		}
		return st.Size <= max
	}
}
