package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the settings file looked up in the project root.
const FileName = ".seoxrc.toml"

// Config represents the tool settings.
type Config struct {
	Project ProjectConfig `toml:"project"`
	Imports ImportsConfig `toml:"imports"`
	Doctor  DoctorConfig  `toml:"doctor"`
}

// ProjectConfig locates the site configuration inside the project.
type ProjectConfig struct {
	// ConfigDir is relative to src/ when the project has one, else to the
	// project root.
	ConfigDir  string `toml:"config_dir"`
	ConfigFile string `toml:"config_file"`
}

// ImportsConfig holds the identifiers written into route files.
type ImportsConfig struct {
	ConfigImport     string `toml:"config_import"`
	ConfigIdentifier string `toml:"config_identifier"`
	ComponentPackage string `toml:"component_package"`
	ComponentName    string `toml:"component_name"`
	// ConfigClass is the constructor wrapping the site configuration object.
	ConfigClass string `toml:"config_class"`
}

// DoctorConfig holds the diagnostic thresholds.
type DoctorConfig struct {
	TitleMax       int    `toml:"title_max"`
	DescriptionMax int    `toml:"description_max"`
	MinNextVersion string `toml:"min_next_version"`
}

// DefaultConfig returns a Config populated with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Project: ProjectConfig{
			ConfigDir:  "lib",
			ConfigFile: "seo.ts",
		},
		Imports: ImportsConfig{
			ConfigImport:     "@/lib/seo",
			ConfigIdentifier: "seoConfig",
			ComponentPackage: "seox/next",
			ComponentName:    "JsonLd",
			ConfigClass:      "Seox",
		},
		Doctor: DoctorConfig{
			TitleMax:       60,
			DescriptionMax: 160,
			MinNextVersion: "13.2.0",
		},
	}
}

// Load reads settings from path on top of the defaults. A missing file
// yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Project.ConfigFile == "":
		return errors.New("project.config_file must not be empty")
	case c.Imports.ConfigIdentifier == "":
		return errors.New("imports.config_identifier must not be empty")
	case c.Imports.ComponentName == "":
		return errors.New("imports.component_name must not be empty")
	case c.Doctor.TitleMax <= 0 || c.Doctor.DescriptionMax <= 0:
		return errors.New("doctor limits must be positive")
	}
	return nil
}

// SourceDir returns root/src when it exists, else root.
func SourceDir(root string) string {
	src := filepath.Join(root, "src")
	if info, err := os.Stat(src); err == nil && info.IsDir() {
		return src
	}
	return root
}

// SiteConfigPath returns the expected location of the site configuration.
func (c *Config) SiteConfigPath(root string) string {
	return filepath.Join(SourceDir(root), c.Project.ConfigDir, c.Project.ConfigFile)
}
