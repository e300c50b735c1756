// Package siteconfig locates and loads the site configuration a Next.js
// project authors for seox.
//
// TypeScript and JavaScript configurations are never executed. The object
// passed to the configuration class constructor (or the default export) is
// evaluated statically from its syntax tree; expressions that need a runtime
// are skipped and reported as warnings.
package siteconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianshen/seox/internal/config"
	"github.com/julianshen/seox/internal/parser"
	"github.com/julianshen/seox/pkg/seox"
)

// ErrNotFound is returned when the project has no site configuration file.
var ErrNotFound = errors.New("site configuration not found")

// alternates are tried, in order, next to the configured file name.
var alternates = []string{".ts", ".js", ".mjs", ".json", ".yaml", ".yml"}

// Loaded is a site configuration together with where it came from.
type Loaded struct {
	Path   string
	Config *seox.Config
	// Warnings lists the expressions of a script configuration that could
	// not be evaluated statically.
	Warnings []string
}

// Locate returns the path of the project's site configuration. The
// configured file wins; otherwise a file with the same base name and one
// of the supported extensions is accepted.
func Locate(root string, settings *config.Config) (string, error) {
	primary := settings.SiteConfigPath(root)
	if isFile(primary) {
		return primary, nil
	}
	base := strings.TrimSuffix(primary, filepath.Ext(primary))
	for _, ext := range alternates {
		if candidate := base + ext; isFile(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, primary)
}

// Load locates and reads the project's site configuration.
func Load(root string, settings *config.Config) (*Loaded, error) {
	path, err := Locate(root, settings)
	if err != nil {
		return nil, err
	}
	return LoadFile(path, settings.Imports.ConfigClass)
}

// LoadFile reads the site configuration at path. class names the
// constructor wrapping the configuration object in script files.
func LoadFile(path, class string) (*Loaded, error) {
	if !parser.Supported(path) {
		cfg, err := seox.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		return &Loaded{Path: path, Config: cfg}, nil
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	cfg, warnings, err := Evaluate(path, source, class)
	if err != nil {
		return nil, err
	}
	return &Loaded{Path: path, Config: cfg, Warnings: warnings}, nil
}

// Evaluate extracts the configuration object from a script source.
func Evaluate(path string, source []byte, class string) (*seox.Config, []string, error) {
	tree, err := parser.NewParser().Parse(path, source)
	if err != nil {
		return nil, nil, err
	}
	defer tree.Close()

	node, ok := tree.NewArgument(class)
	if !ok {
		node, ok = tree.DefaultExport()
	}
	if !ok {
		return nil, nil, fmt.Errorf("%s: no `new %s({...})` expression or default export", path, class)
	}

	ev := tree.NewEvaluator()
	value, ok := ev.Eval(node)
	if !ok {
		return nil, ev.Warnings(), fmt.Errorf("%s: configuration is not a static object literal", path)
	}
	obj, isObject := value.(map[string]any)
	if !isObject {
		return nil, ev.Warnings(), fmt.Errorf("%s: configuration must be an object, got %T", path, value)
	}

	cfg, err := seox.ConfigFromMap(obj)
	if err != nil {
		return nil, ev.Warnings(), fmt.Errorf("%s: %w", path, err)
	}
	return cfg, ev.Warnings(), nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
