package seox

import "encoding/json"

// Seox holds a read-only site configuration and derives page metadata and
// JSON-LD from it.
type Seox struct {
	config *Config
}

// New wraps cfg. The configuration is never mutated.
func New(cfg *Config) *Seox {
	if cfg == nil {
		cfg = &Config{}
	}
	return &Seox{config: cfg}
}

// Config returns the wrapped site configuration.
func (s *Seox) Config() *Config { return s.config }

// ConfigToMetadata merges override on top of the site configuration.
//
// Top-level fields present in override replace the base value. An empty
// string counts as absent, so it never clears a base value. Nested blocks
// are merged key by key; icons and robots are merged only when both sides
// are blocks, otherwise the override's value is used as-is. openGraph.url and openGraph.siteName fall back to
// the site URL and name. Config-only fields (name, url, jsonld, pages) are
// never emitted.
func (s *Seox) ConfigToMetadata(override *Config) Metadata {
	base := s.config
	if override == nil {
		override = &Config{}
	}

	md := Metadata{
		Title:       firstAny(override.Title, base.Title),
		Description: firstString(override.Description, base.Description),
		Keywords:    firstStrings(override.Keywords, base.Keywords),
		Creator:     firstString(override.Creator, base.Creator),
		Publisher:   firstString(override.Publisher, base.Publisher),
		Authors:     copyAuthors(firstAuthors(override.Authors, base.Authors)),
		Manifest:    firstString(override.Manifest, base.Manifest),

		Icons:           mergeValue(base.Icons, override.Icons),
		FormatDetection: mergeFields(base.FormatDetection, override.FormatDetection),
		Twitter:         mergeFields(base.Twitter, override.Twitter),
	}

	if base.OpenGraph != nil || override.OpenGraph != nil {
		og := mergeFields(base.OpenGraph, override.OpenGraph)
		setIfPresent(og, "url", firstString(
			stringField(override.OpenGraph, "url"),
			stringField(base.OpenGraph, "url"),
			base.URL,
		))
		setIfPresent(og, "siteName", firstString(
			stringField(override.OpenGraph, "siteName"),
			stringField(base.OpenGraph, "siteName"),
			base.Name,
		))
		md.OpenGraph = og
	}

	md.Robots = mergeValue(base.Robots, override.Robots)
	if robots, ok := md.Robots.(Fields); ok {
		baseRobots, _ := asFields(base.Robots)
		overRobots, _ := asFields(override.Robots)
		baseBot := fieldsField(baseRobots, "googleBot")
		overBot := fieldsField(overRobots, "googleBot")
		if baseBot != nil || overBot != nil {
			robots["googleBot"] = mergeFields(baseBot, overBot)
		} else {
			delete(robots, "googleBot")
		}
	}

	md.Extra = mergeExtra(base.Extra, override.Extra)
	return md
}

// GeneratePageMetadata is an alias of ConfigToMetadata.
func (s *Seox) GeneratePageMetadata(override *Config) Metadata {
	return s.ConfigToMetadata(override)
}

// PageMetadata merges the named entry of the pages table. The boolean is
// false when no such page is configured; the site metadata is returned then.
func (s *Seox) PageMetadata(name string) (Metadata, bool) {
	page, ok := s.config.Pages[name]
	if !ok {
		return s.ConfigToMetadata(nil), false
	}
	return s.ConfigToMetadata(page), true
}

// MarshalJSON emits the known fields followed by the pass-through fields.
// Known fields win over an Extra key of the same name.
func (m Metadata) MarshalJSON() ([]byte, error) {
	type plain Metadata
	data, err := json.Marshal(plain(m))
	if err != nil {
		return nil, err
	}
	if len(m.Extra) == 0 {
		return data, nil
	}
	out := make(map[string]any)
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	for k, v := range m.Extra {
		if _, taken := out[k]; !taken {
			out[k] = v
		}
	}
	return json.Marshal(out)
}

func firstAny(vals ...any) any {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}

func firstString(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstStrings(a, b []string) []string {
	if a != nil {
		return a
	}
	return b
}

func firstAuthors(a, b []Author) []Author {
	if a != nil {
		return a
	}
	return b
}

// copyAuthors keeps only name and url, matching the metadata author shape.
func copyAuthors(in []Author) []Author {
	if in == nil {
		return nil
	}
	out := make([]Author, len(in))
	for i, a := range in {
		out[i] = Author{Name: a.Name, URL: a.URL}
	}
	return out
}

// mergeFields returns a new block holding base's keys overlaid with
// override's. It returns nil when both blocks are nil.
func mergeFields(base, override Fields) Fields {
	if base == nil && override == nil {
		return nil
	}
	out := make(Fields, len(base)+len(override))
	for k, v := range base {
		if v != nil {
			out[k] = v
		}
	}
	for k, v := range override {
		if v != nil {
			out[k] = v
		}
	}
	return out
}

// mergeValue merges two values that are either blocks or scalar forms.
// Blocks are merged key by key into a new block; any other override
// replaces base.
func mergeValue(base, override any) any {
	b, bok := asFields(base)
	if bok && b == nil {
		base, bok = nil, false
	}
	o, ook := asFields(override)
	if ook && o == nil {
		override, ook = nil, false
	}
	switch {
	case override == nil && bok:
		return mergeFields(b, nil)
	case override == nil:
		return base
	case ook && bok:
		return mergeFields(b, o)
	case ook:
		return mergeFields(nil, o)
	}
	return override
}

// asFields reports whether v is a block and returns it as Fields.
func asFields(v any) (Fields, bool) {
	switch m := v.(type) {
	case Fields:
		return m, true
	case map[string]any:
		return Fields(m), true
	}
	return nil, false
}

func mergeExtra(base, override map[string]any) map[string]any {
	out := make(map[string]any)
	for _, m := range []map[string]any{base, override} {
		for k, v := range m {
			if reservedKeys[k] || v == nil {
				continue
			}
			out[k] = v
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func setIfPresent(f Fields, key, value string) {
	if value == "" {
		return
	}
	f[key] = value
}

func stringField(f Fields, key string) string {
	if f == nil {
		return ""
	}
	v, _ := f[key].(string)
	return v
}

// fieldsField reads a nested block. Both Fields and plain maps are accepted
// since decoded YAML and hand-built configs differ in the concrete type.
func fieldsField(f Fields, key string) Fields {
	if f == nil {
		return nil
	}
	switch v := f[key].(type) {
	case Fields:
		return v
	case map[string]any:
		return Fields(v)
	}
	return nil
}
