package runner

import (
	"github.com/julianshen/seox/internal/configure"
	"github.com/julianshen/seox/internal/doctor"
	"github.com/julianshen/seox/internal/output"
)

// DoctorResult converts a diagnostic report into its output form.
func DoctorResult(configPath string, report doctor.Report) *output.Result {
	findings := make([]output.Finding, 0, len(report.Findings()))
	for _, f := range report.Findings() {
		findings = append(findings, output.Finding{
			Severity: string(f.Severity),
			Page:     f.Page,
			Message:  f.Message,
		})
	}
	return &output.Result{
		Command:    "doctor",
		ConfigPath: configPath,
		Findings:   findings,
		Summary: &output.FindingSummary{
			Errors:      len(report.Errors),
			Warnings:    len(report.Warnings),
			Suggestions: len(report.Suggestions),
		},
	}
}

// ConfigureResult converts a configure tally into its output form. Empty
// lists are kept so that JSON consumers always see arrays.
func ConfigureResult(t *configure.Tally) *output.Result {
	data := &output.ConfigureData{
		DryRun:      t.DryRun,
		Cancelled:   t.Cancelled,
		Added:       nonNil(t.Added),
		Overwritten: nonNil(t.Overwritten),
		Skipped:     nonNil(t.Skipped),
		Dirty:       t.Dirty,
	}
	for _, fe := range t.Errors {
		data.Errors = append(data.Errors, output.FileError{Path: fe.Path, Error: fe.Err.Error()})
	}
	return &output.Result{
		Command:    "configure",
		ConfigPath: t.ConfigPath,
		Configure:  data,
	}
}

// ErrorResult reports a command that failed before producing a result.
func ErrorResult(command string, err error) *output.Result {
	return &output.Result{Command: command, Error: err.Error()}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
