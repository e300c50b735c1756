package configure

import (
	"fmt"

	"github.com/julianshen/seox/internal/scanner"
)

// FileError is a failure to rewrite a single file.
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e FileError) Unwrap() error {
	return e.Err
}

// Tally is the outcome of a run. Paths are listed in processing order.
type Tally struct {
	// ConfigPath is the site configuration the rewritten files import.
	ConfigPath string
	Files      []scanner.File
	// Dirty lists scanned files with uncommitted git changes.
	Dirty       []string
	Added       []string
	Overwritten []string
	Skipped     []string
	Errors      []FileError
	// DryRun is set when nothing was written.
	DryRun    bool
	Cancelled bool
}

// Changed reports whether any file was (or, in a dry run, would be)
// rewritten.
func (t *Tally) Changed() bool {
	return len(t.Added) > 0 || len(t.Overwritten) > 0
}

// EventKind identifies a progress event.
type EventKind string

const (
	EventScanned     EventKind = "scanned"
	EventAdded       EventKind = "added"
	EventOverwritten EventKind = "overwritten"
	EventSkipped     EventKind = "skipped"
	EventFailed      EventKind = "failed"
)

// Event reports progress of a run.
type Event struct {
	Kind EventKind
	// Path is set for per-file events.
	Path string
	Err  error
	// Files and Dirty are set for EventScanned.
	Files []scanner.File
	Dirty []string
}

// Reporter receives progress events in order.
type Reporter interface {
	Report(Event)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(Event)

// Report calls f(e).
func (f ReporterFunc) Report(e Event) { f(e) }

type nopReporter struct{}

func (nopReporter) Report(Event) {}
