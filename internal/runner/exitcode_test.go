package runner

import (
	"errors"
	"testing"

	"github.com/julianshen/seox/internal/output"
	"github.com/stretchr/testify/assert"
)

func TestExitCodeFromFindings_NoFindings(t *testing.T) {
	code := ExitCodeFromFindings(nil, "error")
	assert.Equal(t, 0, code)
}

func TestExitCodeFromFindings_BelowThreshold(t *testing.T) {
	findings := []output.Finding{
		{Severity: "suggestion", Message: "add JSON-LD"},
		{Severity: "warning", Message: "title too long"},
	}
	code := ExitCodeFromFindings(findings, "error")
	assert.Equal(t, 0, code)
}

func TestExitCodeFromFindings_AtThreshold(t *testing.T) {
	findings := []output.Finding{
		{Severity: "warning", Message: "title too long"},
	}
	code := ExitCodeFromFindings(findings, "warning")
	assert.Equal(t, 1, code)
}

func TestExitCodeFromFindings_AboveThreshold(t *testing.T) {
	findings := []output.Finding{
		{Severity: "error", Message: "description missing"},
	}
	code := ExitCodeFromFindings(findings, "suggestion")
	assert.Equal(t, 1, code)
}

func TestExitCodeFromFindings_EmptyFailOn(t *testing.T) {
	findings := []output.Finding{
		{Severity: "error", Message: "title missing"},
	}
	// Empty failOn disables gating.
	code := ExitCodeFromFindings(findings, "")
	assert.Equal(t, 0, code)
}

func TestExitCodeFromFindings_InvalidThreshold(t *testing.T) {
	findings := []output.Finding{
		{Severity: "error", Message: "title missing"},
	}
	code := ExitCodeFromFindings(findings, "banana")
	assert.Equal(t, 0, code)
}

func TestExitError(t *testing.T) {
	err := &ExitError{Code: 1}
	assert.Equal(t, "exit code 1", err.Error())

	var exitErr *ExitError
	assert.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 1, exitErr.Code)
}
