package runner

import (
	"fmt"

	"github.com/julianshen/seox/internal/doctor"
	"github.com/julianshen/seox/internal/output"
)

// ExitError is returned when a command should exit with a non-zero code.
// Using a typed error instead of os.Exit ensures deferred cleanup runs.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// ExitCodeFromFindings returns 1 if any finding has severity at or above
// the failOn threshold, 0 otherwise. An empty failOn disables gating.
func ExitCodeFromFindings(findings []output.Finding, failOn string) int {
	if failOn == "" {
		return 0
	}
	threshold := doctor.SeverityRank(doctor.Severity(failOn))
	if threshold == 0 {
		return 0
	}
	for _, f := range findings {
		if doctor.SeverityRank(doctor.Severity(f.Severity)) >= threshold {
			return 1
		}
	}
	return 0
}
