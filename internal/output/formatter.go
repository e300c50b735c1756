// Package output formats command results for machines (JSON) and for
// pull-request comments and reports (Markdown).
package output

// Result holds the outcome of a doctor or configure run.
type Result struct {
	Command    string          `json:"command"`
	ConfigPath string          `json:"config_path,omitempty"`
	Error      string          `json:"error,omitempty"`
	Findings   []Finding       `json:"findings,omitempty"`
	Summary    *FindingSummary `json:"summary,omitempty"`
	Configure  *ConfigureData  `json:"configure,omitempty"`
}

// Finding is a simplified diagnostic for output formatting.
type Finding struct {
	Severity string `json:"severity"`
	Page     string `json:"page,omitempty"`
	Message  string `json:"message"`
}

// FindingSummary provides aggregate counts of findings.
type FindingSummary struct {
	Errors      int `json:"errors"`
	Warnings    int `json:"warnings"`
	Suggestions int `json:"suggestions"`
}

// ConfigureData lists the files a configure run touched.
type ConfigureData struct {
	DryRun      bool        `json:"dry_run"`
	Cancelled   bool        `json:"cancelled,omitempty"`
	Added       []string    `json:"added"`
	Overwritten []string    `json:"overwritten"`
	Skipped     []string    `json:"skipped"`
	Errors      []FileError `json:"errors,omitempty"`
	// Dirty lists scanned files that had uncommitted changes.
	Dirty []string `json:"dirty,omitempty"`
}

// FileError is a per-file failure.
type FileError struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// Formatter formats a Result into output bytes.
type Formatter interface {
	Format(result *Result) ([]byte, error)
}

// NewFormatter returns the formatter for name ("json" or "markdown"), or
// nil when name selects the styled terminal output.
func NewFormatter(name string) Formatter {
	switch name {
	case "json":
		return NewJSONFormatter()
	case "markdown":
		return NewMarkdownFormatter()
	default:
		return nil
	}
}
