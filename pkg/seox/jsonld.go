package seox

import (
	"encoding/json"
	"fmt"
	"html/template"
	"strings"
)

// JSONLDContentType is the script type marker for structured data.
const JSONLDContentType = "application/ld+json"

// JSONLD returns the configured schemas followed by additional, in order.
// The result is never nil.
func (s *Seox) JSONLD(additional ...Schema) []Schema {
	out := make([]Schema, 0, len(s.config.JSONLD)+len(additional))
	out = append(out, s.config.JSONLD...)
	out = append(out, additional...)
	return out
}

// JSONLDStrings serializes every schema returned by JSONLD independently.
// encoding/json escapes <, > and & so the strings are safe to inline.
func (s *Seox) JSONLDStrings(additional ...Schema) ([]string, error) {
	schemas := s.JSONLD(additional...)
	out := make([]string, 0, len(schemas))
	for i, schema := range schemas {
		data, err := json.Marshal(schema)
		if err != nil {
			return nil, fmt.Errorf("marshal json-ld schema %d: %w", i, err)
		}
		out = append(out, string(data))
	}
	return out, nil
}

// ScriptTags renders one inline script element per schema. It returns an
// empty string when there is nothing to render.
func (s *Seox) ScriptTags(additional ...Schema) (template.HTML, error) {
	docs, err := s.JSONLDStrings(additional...)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, doc := range docs {
		b.WriteString(`<script type="`)
		b.WriteString(JSONLDContentType)
		b.WriteString(`">`)
		b.WriteString(doc)
		b.WriteString("</script>\n")
	}
	return template.HTML(b.String()), nil
}
