package output

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdownFormatterFindings(t *testing.T) {
	f := NewMarkdownFormatter()
	result := &Result{
		Command: "doctor",
		Findings: []Finding{
			{Severity: "error", Message: `Page "home" : description missing`},
			{Severity: "warning", Message: `Page "home" : title too long (75 > 60)`},
			{Severity: "suggestion", Message: `Page "home" : add JSON-LD to improve indexing`},
		},
		Summary: &FindingSummary{Errors: 1, Warnings: 1, Suggestions: 1},
	}

	out, err := f.Format(result)
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, "# seox doctor")
	assert.Contains(t, s, "## Errors\n\n- Page \"home\" : description missing\n")
	assert.Contains(t, s, "## Warnings")
	assert.Contains(t, s, "## Suggestions")
	assert.Contains(t, s, "1 error, 1 warning, 1 suggestion")
}

func TestMarkdownFormatterNoIssues(t *testing.T) {
	out, err := NewMarkdownFormatter().Format(&Result{Command: "doctor", Summary: &FindingSummary{}})
	require.NoError(t, err)
	assert.Contains(t, string(out), "No issues detected.")
	assert.False(t, strings.Contains(string(out), "## Errors"))
}

func TestMarkdownFormatterConfigure(t *testing.T) {
	out, err := NewMarkdownFormatter().Format(&Result{
		Command: "configure",
		Configure: &ConfigureData{
			DryRun:  true,
			Added:   []string{"app/layout.tsx", "app/page.tsx"},
			Skipped: []string{"app/blog/page.tsx"},
		},
	})
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, "Dry run")
	assert.Contains(t, s, "## Added\n\n- app/layout.tsx\n- app/page.tsx\n")
	assert.NotContains(t, s, "## Overwritten")
	assert.Contains(t, s, "2 files added, 0 files overwritten, 1 file skipped")
}

func TestMarkdownFormatterWithError(t *testing.T) {
	out, err := NewMarkdownFormatter().Format(&Result{Command: "configure", Error: "no Next.js layout or page files found"})
	require.NoError(t, err)
	assert.Contains(t, string(out), "## Error")
	assert.Contains(t, string(out), "no Next.js layout or page files found")
}
