package output

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONFormatterDoctor(t *testing.T) {
	f := NewJSONFormatter()
	result := &Result{
		Command:    "doctor",
		ConfigPath: "lib/seo.ts",
		Findings: []Finding{
			{Severity: "error", Page: "home", Message: `Page "home" : description missing`},
		},
		Summary: &FindingSummary{Errors: 1},
	}

	out, err := f.Format(result)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))

	assert.Equal(t, "doctor", decoded["command"])
	assert.Equal(t, "lib/seo.ts", decoded["config_path"])
	findings, ok := decoded["findings"].([]any)
	require.True(t, ok)
	require.Len(t, findings, 1)
	assert.Equal(t, "home", findings[0].(map[string]any)["page"])
	assert.Equal(t, float64(1), decoded["summary"].(map[string]any)["errors"])
	assert.NotContains(t, decoded, "configure")
}

func TestJSONFormatterConfigure(t *testing.T) {
	f := NewJSONFormatter()
	result := &Result{
		Command: "configure",
		Configure: &ConfigureData{
			DryRun:  true,
			Added:   []string{"app/layout.tsx"},
			Skipped: []string{"app/page.tsx"},
			Errors:  []FileError{{Path: "app/x/page.tsx", Error: "permission denied"}},
		},
	}

	out, err := f.Format(result)
	require.NoError(t, err)

	var decoded struct {
		Configure ConfigureData `json:"configure"`
	}
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.True(t, decoded.Configure.DryRun)
	assert.Equal(t, []string{"app/layout.tsx"}, decoded.Configure.Added)
	assert.Equal(t, "permission denied", decoded.Configure.Errors[0].Error)
}

func TestJSONFormatterWithError(t *testing.T) {
	out, err := NewJSONFormatter().Format(&Result{Command: "doctor", Error: "site configuration not found"})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"error": "site configuration not found"`)
}

func TestNewFormatter(t *testing.T) {
	assert.IsType(t, &JSONFormatter{}, NewFormatter("json"))
	assert.IsType(t, &MarkdownFormatter{}, NewFormatter("markdown"))
	assert.Nil(t, NewFormatter("text"))
}
