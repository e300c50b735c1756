// Package doctor diagnoses a site configuration: missing or oversized page
// titles and descriptions, pages without structured data, and project-level
// problems that keep the generated metadata from working.
package doctor

import (
	"fmt"
	"net/url"
	"sort"
	"unicode/utf8"

	"github.com/julianshen/seox/internal/config"
	"github.com/julianshen/seox/pkg/seox"
)

// Severity categorizes a finding.
type Severity string

const (
	SeverityError      Severity = "error"
	SeverityWarning    Severity = "warning"
	SeveritySuggestion Severity = "suggestion"
)

// SeverityRank returns a numeric rank for ordering severities.
// Error=3, Warning=2, Suggestion=1. Unknown severities return 0.
func SeverityRank(s Severity) int {
	switch s {
	case SeverityError:
		return 3
	case SeverityWarning:
		return 2
	case SeveritySuggestion:
		return 1
	default:
		return 0
	}
}

// Finding is a single diagnostic.
type Finding struct {
	Severity Severity `json:"severity"`
	// Page is empty for site and project findings.
	Page    string `json:"page,omitempty"`
	Message string `json:"message"`
}

func (f Finding) String() string {
	return f.Message
}

// Report groups findings by severity, each in the order they were found.
type Report struct {
	Errors      []Finding `json:"errors"`
	Warnings    []Finding `json:"warnings"`
	Suggestions []Finding `json:"suggestions"`
}

// Add files f under its severity.
func (r *Report) Add(f Finding) {
	switch f.Severity {
	case SeverityError:
		r.Errors = append(r.Errors, f)
	case SeverityWarning:
		r.Warnings = append(r.Warnings, f)
	default:
		f.Severity = SeveritySuggestion
		r.Suggestions = append(r.Suggestions, f)
	}
}

// Merge appends every finding of other.
func (r *Report) Merge(other Report) {
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
	r.Suggestions = append(r.Suggestions, other.Suggestions...)
}

// Findings returns all findings, errors first.
func (r Report) Findings() []Finding {
	all := make([]Finding, 0, len(r.Errors)+len(r.Warnings)+len(r.Suggestions))
	all = append(all, r.Errors...)
	all = append(all, r.Warnings...)
	return append(all, r.Suggestions...)
}

// Healthy reports whether there are no errors and no warnings.
// Suggestions alone do not make a configuration unhealthy.
func (r Report) Healthy() bool {
	return len(r.Errors) == 0 && len(r.Warnings) == 0
}

// Empty reports whether the report has no findings at all.
func (r Report) Empty() bool {
	return r.Healthy() && len(r.Suggestions) == 0
}

// Checker runs the diagnostics with configurable limits.
type Checker struct {
	TitleMax       int
	DescriptionMax int
	MinNextVersion string
}

// NewChecker returns a Checker using the limits from settings.
func NewChecker(settings *config.Config) *Checker {
	return &Checker{
		TitleMax:       settings.Doctor.TitleMax,
		DescriptionMax: settings.Doctor.DescriptionMax,
		MinNextVersion: settings.Doctor.MinNextVersion,
	}
}

// Check validates every page of cfg. Pages are visited in name order;
// lengths are counted in characters.
func (c *Checker) Check(cfg *seox.Config) Report {
	var r Report
	if cfg == nil {
		return r
	}

	names := make([]string, 0, len(cfg.Pages))
	for name := range cfg.Pages {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		page := cfg.Pages[name]

		title := page.TitleText()
		switch n := utf8.RuneCountInString(title); {
		case title == "":
			r.Add(pageFinding(SeverityError, name, "title missing"))
		case n > c.TitleMax:
			r.Add(pageFinding(SeverityWarning, name, fmt.Sprintf("title too long (%d > %d)", n, c.TitleMax)))
		}

		desc := ""
		if page != nil {
			desc = page.Description
		}
		switch n := utf8.RuneCountInString(desc); {
		case desc == "":
			r.Add(pageFinding(SeverityError, name, "description missing"))
		case n > c.DescriptionMax:
			r.Add(pageFinding(SeverityWarning, name, fmt.Sprintf("description too long (%d > %d)", n, c.DescriptionMax)))
		}

		if page == nil || len(page.JSONLD) == 0 {
			r.Add(pageFinding(SeveritySuggestion, name, "add JSON-LD to improve indexing"))
		}
	}
	return r
}

// CheckSite validates the site-wide fields the merge relies on.
func (c *Checker) CheckSite(cfg *seox.Config) Report {
	var r Report
	if cfg == nil {
		r.Add(Finding{Severity: SeverityError, Message: "site configuration is empty"})
		return r
	}

	if cfg.Name == "" {
		r.Add(Finding{Severity: SeverityError, Message: "site name missing (used as openGraph.siteName)"})
	}
	switch {
	case cfg.URL == "":
		r.Add(Finding{Severity: SeverityError, Message: "site url missing (used as openGraph.url)"})
	case !isHTTPURL(cfg.URL):
		r.Add(Finding{Severity: SeverityWarning, Message: fmt.Sprintf("site url %q is not an absolute http(s) URL", cfg.URL)})
	}

	if n := utf8.RuneCountInString(cfg.TitleText()); n > c.TitleMax {
		r.Add(Finding{Severity: SeverityWarning, Message: fmt.Sprintf("site title too long (%d > %d)", n, c.TitleMax)})
	}
	if n := utf8.RuneCountInString(cfg.Description); n > c.DescriptionMax {
		r.Add(Finding{Severity: SeverityWarning, Message: fmt.Sprintf("site description too long (%d > %d)", n, c.DescriptionMax)})
	}

	for i, schema := range cfg.JSONLD {
		if schema.Context() == "" {
			r.Add(Finding{Severity: SeverityWarning, Message: fmt.Sprintf("JSON-LD schema %d has no @context", i)})
		}
		if schema.Type() == "" {
			r.Add(Finding{Severity: SeverityWarning, Message: fmt.Sprintf("JSON-LD schema %d has no @type", i)})
		}
	}
	if len(cfg.JSONLD) == 0 {
		r.Add(Finding{Severity: SeveritySuggestion, Message: "add site-wide JSON-LD (Organization, WebSite) to improve indexing"})
	}
	return r
}

func pageFinding(sev Severity, page, msg string) Finding {
	return Finding{
		Severity: sev,
		Page:     page,
		Message:  fmt.Sprintf("Page %q : %s", page, msg),
	}
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
