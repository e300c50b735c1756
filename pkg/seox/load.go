package seox

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadConfig reads a YAML or JSON site configuration from path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML (or JSON, which YAML accepts) into a Config.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing site config: %w", err)
	}
	return &cfg, nil
}

// ConfigFromMap converts a generic object, for example one evaluated from a
// TypeScript source file, into a Config.
func ConfigFromMap(m map[string]any) (*Config, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encoding site config: %w", err)
	}
	return ParseConfig(data)
}
