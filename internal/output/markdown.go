package output

import (
	"fmt"
	"strings"
)

// MarkdownFormatter outputs Result as human-readable Markdown.
type MarkdownFormatter struct{}

// NewMarkdownFormatter creates a new MarkdownFormatter.
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// Format renders the Result as Markdown.
func (f *MarkdownFormatter) Format(result *Result) ([]byte, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "# seox %s\n\n", result.Command)
	if result.ConfigPath != "" {
		fmt.Fprintf(&b, "Configuration: `%s`\n\n", result.ConfigPath)
	}

	if result.Error != "" {
		b.WriteString("## Error\n\n")
		b.WriteString(result.Error)
		b.WriteString("\n")
		return []byte(b.String()), nil
	}

	if result.Summary != nil {
		writeFindings(&b, result)
	}
	if result.Configure != nil {
		writeConfigure(&b, result.Configure)
	}
	return []byte(b.String()), nil
}

func writeFindings(b *strings.Builder, result *Result) {
	s := result.Summary
	if s.Errors == 0 && s.Warnings == 0 && s.Suggestions == 0 {
		b.WriteString("No issues detected.\n")
		return
	}
	for _, section := range []struct {
		title    string
		severity string
	}{
		{"Errors", "error"},
		{"Warnings", "warning"},
		{"Suggestions", "suggestion"},
	} {
		var items []string
		for _, f := range result.Findings {
			if f.Severity == section.severity {
				items = append(items, f.Message)
			}
		}
		writeList(b, section.title, items)
	}
	fmt.Fprintf(b, "---\n*%s, %s, %s*\n",
		plural(s.Errors, "error"), plural(s.Warnings, "warning"), plural(s.Suggestions, "suggestion"))
}

func writeConfigure(b *strings.Builder, c *ConfigureData) {
	if c.DryRun {
		b.WriteString("*Dry run: no files were written.*\n\n")
	}
	writeList(b, "Added", c.Added)
	writeList(b, "Overwritten", c.Overwritten)
	writeList(b, "Skipped", c.Skipped)

	var errs []string
	for _, e := range c.Errors {
		errs = append(errs, fmt.Sprintf("%s: %s", e.Path, e.Error))
	}
	writeList(b, "Errors", errs)

	if c.Cancelled {
		b.WriteString("Operation cancelled.\n\n")
	}
	fmt.Fprintf(b, "---\n*%s added, %s overwritten, %s skipped*\n",
		plural(len(c.Added), "file"), plural(len(c.Overwritten), "file"), plural(len(c.Skipped), "file"))
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
