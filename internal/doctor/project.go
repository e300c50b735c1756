package doctor

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// packageName is the npm package providing the runtime and the component.
const packageName = "seox"

type packageManifest struct {
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

func (m packageManifest) version(name string) (string, bool) {
	if v, ok := m.Dependencies[name]; ok {
		return v, true
	}
	v, ok := m.DevDependencies[name]
	return v, ok
}

// CheckProject inspects the project's package.json: Next.js must be recent
// enough to support the Metadata API and the runtime package must be
// installed. A project without package.json yields a single warning.
func (c *Checker) CheckProject(root string) (Report, error) {
	var r Report

	data, err := os.ReadFile(filepath.Join(root, "package.json"))
	if errors.Is(err, os.ErrNotExist) {
		r.Add(Finding{Severity: SeverityWarning, Message: "package.json not found; is this a Next.js project?"})
		return r, nil
	}
	if err != nil {
		return r, fmt.Errorf("reading package.json: %w", err)
	}

	var manifest packageManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return r, fmt.Errorf("parsing package.json: %w", err)
	}

	next, ok := manifest.version("next")
	if !ok {
		r.Add(Finding{Severity: SeverityError, Message: "next is not a dependency"})
	} else {
		checkNextVersion(&r, next, c.MinNextVersion)
	}

	if _, ok := manifest.version(packageName); !ok {
		r.Add(Finding{Severity: SeverityWarning, Message: fmt.Sprintf("%s is not listed in package.json; the generated imports will not resolve", packageName)})
	}
	return r, nil
}

func checkNextVersion(r *Report, declared, minNext string) {
	floor, ok := lowestVersion(declared)
	if !ok {
		r.Add(Finding{Severity: SeveritySuggestion, Message: fmt.Sprintf("cannot verify next version %q supports the Metadata API (>= %s)", declared, minNext)})
		return
	}
	c, err := semver.NewConstraint(">= " + minNext)
	if err != nil {
		r.Add(Finding{Severity: SeverityWarning, Message: fmt.Sprintf("invalid minimum next version %q: %v", minNext, err)})
		return
	}
	if !c.Check(floor) {
		r.Add(Finding{Severity: SeverityError, Message: fmt.Sprintf("next %s does not support the Metadata API (requires >= %s)", declared, minNext)})
	}
}

// lowestVersion returns the smallest version a package.json range admits,
// for the common forms "1.2.3", "^1.2.3", "~1.2", ">=1.2.3", ">= 1.2.3 <2".
// Tags such as "latest", and workspace or URL specifiers, are not versions.
func lowestVersion(declared string) (*semver.Version, bool) {
	s := strings.TrimLeft(strings.TrimSpace(declared), "^~>=v ")
	if i := strings.IndexAny(s, " |<"); i > 0 {
		s = s[:i]
	}
	v, err := semver.NewVersion(s)
	if err != nil {
		return nil, false
	}
	return v, true
}
