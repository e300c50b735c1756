// Package seox merges a site-wide SEO configuration with per-page overrides
// into the Next.js metadata shape and exposes the site's JSON-LD schemas.
//
// This package is self-contained and MUST NOT import anything from internal/.
// Go renderers use it directly; the seox CLI uses it to preview and diagnose
// the configuration it injects into Next.js projects.
package seox

// Schema is a JSON-LD structured data object. It must carry "@context" and
// "@type" keys; every other key is passed through untouched.
type Schema map[string]any

// Context returns the schema's "@context" value, or "" when absent.
func (s Schema) Context() string {
	v, _ := s["@context"].(string)
	return v
}

// Type returns the schema's "@type" value, or "" when absent.
func (s Schema) Type() string {
	v, _ := s["@type"].(string)
	return v
}

// Fields is an open metadata block (openGraph, twitter, robots, icons,
// formatDetection). Blocks are merged key by key.
type Fields map[string]any

// Author is a single entry of the authors list.
type Author struct {
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	URL  string `json:"url,omitempty" yaml:"url,omitempty"`
}

// Config is the user-authored site configuration.
//
// Name and URL drive the openGraph fallbacks and never appear in generated
// metadata. JSONLD and Pages are tool-side fields and are never emitted
// either. Metadata fields this package does not interpret are kept in Extra
// and passed through as-is.
type Config struct {
	Name   string   `json:"name" yaml:"name"`
	URL    string   `json:"url" yaml:"url"`
	JSONLD []Schema `json:"jsonld,omitempty" yaml:"jsonld,omitempty"`

	// Title is either a plain string or an object with default, template
	// and absolute keys.
	Title           any      `json:"title,omitempty" yaml:"title,omitempty"`
	Description     string   `json:"description,omitempty" yaml:"description,omitempty"`
	Keywords        []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	Creator         string   `json:"creator,omitempty" yaml:"creator,omitempty"`
	Publisher       string   `json:"publisher,omitempty" yaml:"publisher,omitempty"`
	Authors         []Author `json:"authors,omitempty" yaml:"authors,omitempty"`
	Manifest        string   `json:"manifest,omitempty" yaml:"manifest,omitempty"`
	// Icons and Robots hold a block, or the plain string or list forms
	// Next.js also accepts.
	Icons           any      `json:"icons,omitempty" yaml:"icons,omitempty"`
	FormatDetection Fields   `json:"formatDetection,omitempty" yaml:"formatDetection,omitempty"`
	OpenGraph       Fields   `json:"openGraph,omitempty" yaml:"openGraph,omitempty"`
	Twitter         Fields   `json:"twitter,omitempty" yaml:"twitter,omitempty"`
	Robots          any      `json:"robots,omitempty" yaml:"robots,omitempty"`

	// Pages holds per-page overrides keyed by page name.
	Pages map[string]*Config `json:"pages,omitempty" yaml:"pages,omitempty"`

	Extra map[string]any `json:"-" yaml:",inline"`
}

// TitleText returns the plain text of the configured title. Object titles
// yield their "absolute" key, then their "default" key.
func (c *Config) TitleText() string {
	if c == nil {
		return ""
	}
	switch t := c.Title.(type) {
	case string:
		return t
	case map[string]any:
		for _, k := range []string{"absolute", "default"} {
			if s, ok := t[k].(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

// Metadata is the generated Next.js metadata object. Zero-valued fields are
// omitted when serialized.
type Metadata struct {
	Title           any      `json:"title,omitempty" yaml:"title,omitempty"`
	Description     string   `json:"description,omitempty" yaml:"description,omitempty"`
	Keywords        []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	Creator         string   `json:"creator,omitempty" yaml:"creator,omitempty"`
	Publisher       string   `json:"publisher,omitempty" yaml:"publisher,omitempty"`
	Authors         []Author `json:"authors,omitempty" yaml:"authors,omitempty"`
	Manifest        string   `json:"manifest,omitempty" yaml:"manifest,omitempty"`
	Icons           any      `json:"icons,omitempty" yaml:"icons,omitempty"`
	FormatDetection Fields   `json:"formatDetection,omitempty" yaml:"formatDetection,omitempty"`
	OpenGraph       Fields   `json:"openGraph,omitempty" yaml:"openGraph,omitempty"`
	Twitter         Fields   `json:"twitter,omitempty" yaml:"twitter,omitempty"`
	Robots          any      `json:"robots,omitempty" yaml:"robots,omitempty"`

	Extra map[string]any `json:"-" yaml:",inline"`
}

// reservedKeys are config-only keys that must never reach Metadata.Extra.
var reservedKeys = map[string]bool{
	"name":   true,
	"url":    true,
	"jsonld": true,
	"pages":  true,
}
