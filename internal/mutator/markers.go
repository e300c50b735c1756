package mutator

import (
	"fmt"

	"github.com/julianshen/seox/internal/config"
)

// Markers are the literal snippets written into route files. They double as
// the text-level contract that makes repeated runs idempotent.
type Markers struct {
	ConfigImport     string
	ConfigIdentifier string
	ComponentPackage string
	ComponentName    string
}

// DefaultMarkers returns the markers for the default settings.
func DefaultMarkers() Markers {
	return MarkersFrom(config.DefaultConfig())
}

// MarkersFrom derives the markers from the tool settings.
func MarkersFrom(cfg *config.Config) Markers {
	return Markers{
		ConfigImport:     cfg.Imports.ConfigImport,
		ConfigIdentifier: cfg.Imports.ConfigIdentifier,
		ComponentPackage: cfg.Imports.ComponentPackage,
		ComponentName:    cfg.Imports.ComponentName,
	}
}

// ConfigImportLine is the import of the site configuration object.
func (m Markers) ConfigImportLine() string {
	return fmt.Sprintf("import { %s } from '%s';", m.ConfigIdentifier, m.ConfigImport)
}

// ComponentImportLine is the import of the structured-data component.
func (m Markers) ComponentImportLine() string {
	return fmt.Sprintf("import { %s } from '%s';", m.ComponentName, m.ComponentPackage)
}

// MetadataExportLine is the generated metadata export.
func (m Markers) MetadataExportLine() string {
	return fmt.Sprintf("export const metadata = %s.configToMetadata();", m.ConfigIdentifier)
}

// ComponentTag is the structured-data element placed inside <head>.
func (m Markers) ComponentTag() string {
	return fmt.Sprintf("<%s seo={%s} />", m.ComponentName, m.ConfigIdentifier)
}
