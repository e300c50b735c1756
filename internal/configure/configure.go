// Package configure applies the site configuration to every route file of a
// Next.js project: it scans for layouts and pages, then rewrites each one
// with the metadata export and, for layouts, the JSON-LD component.
//
// Files are processed sequentially. A failing file is recorded and the run
// moves on to the next one; nothing is rolled back.
package configure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/julianshen/seox/internal/config"
	"github.com/julianshen/seox/internal/gitstate"
	"github.com/julianshen/seox/internal/mutator"
	"github.com/julianshen/seox/internal/parser"
	"github.com/julianshen/seox/internal/scanner"
	"github.com/julianshen/seox/internal/siteconfig"
)

var (
	// ErrConfigNotFound means the project has no site configuration yet.
	ErrConfigNotFound = errors.New("site configuration not found")
	// ErrNoFiles means the project has no layout or page files.
	ErrNoFiles = errors.New("no Next.js layout or page files found")
	// ErrCancelled means the user aborted an overwrite prompt. The files
	// processed before the prompt keep their changes.
	ErrCancelled = errors.New("operation cancelled")
)

// ConfirmFunc asks whether the existing metadata of f may be replaced.
// Returning ErrCancelled (or an error wrapping it) stops the run.
type ConfirmFunc func(f scanner.File) (bool, error)

// Options controls a run.
type Options struct {
	// Root is the Next.js project root.
	Root string
	// Force replaces existing metadata exports without asking.
	Force bool
	// Validate computes every edit without writing anything.
	Validate bool
	// Settings defaults to config.DefaultConfig().
	Settings *config.Config
	// Confirm is consulted for files that already export metadata when
	// Force is off. A nil Confirm skips those files.
	Confirm ConfirmFunc
	// Reporter receives progress events. May be nil.
	Reporter Reporter
}

// Run scans the project and rewrites its route files.
//
// The returned Tally is non-nil whenever the scan succeeded, including when
// the run was cancelled part way.
func Run(ctx context.Context, opts Options) (*Tally, error) {
	settings := opts.Settings
	if settings == nil {
		settings = config.DefaultConfig()
	}
	report := opts.Reporter
	if report == nil {
		report = nopReporter{}
	}

	configPath, err := siteconfig.Locate(opts.Root, settings)
	if err != nil {
		if errors.Is(err, siteconfig.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, settings.SiteConfigPath(opts.Root))
		}
		return nil, err
	}

	p := parser.NewParser()
	files, err := scanner.ScanProject(ctx, opts.Root, p)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	tally := &Tally{ConfigPath: configPath, Files: files, DryRun: opts.Validate}
	tally.Dirty = dirtyFiles(opts.Root, files)
	report.Report(Event{Kind: EventScanned, Files: files, Dirty: tally.Dirty})

	r := &run{
		opts:    opts,
		mutator: mutator.New(mutator.MarkersFrom(settings), p),
		report:  report,
		tally:   tally,
	}

	for _, f := range withoutMetadata(files) {
		if err := ctx.Err(); err != nil {
			return tally, err
		}
		r.apply(f, false)
	}

	for _, f := range withMetadata(files) {
		if err := ctx.Err(); err != nil {
			return tally, err
		}
		if !opts.Force {
			ok, err := r.confirm(f)
			if err != nil {
				tally.Cancelled = true
				return tally, err
			}
			if !ok {
				tally.Skipped = append(tally.Skipped, f.Path)
				report.Report(Event{Kind: EventSkipped, Path: f.Path})
				continue
			}
		}
		r.apply(f, true)
	}
	return tally, nil
}

type run struct {
	opts    Options
	mutator *mutator.Mutator
	report  Reporter
	tally   *Tally
}

func (r *run) confirm(f scanner.File) (bool, error) {
	if r.opts.Confirm == nil {
		slog.Debug("configure: no prompt available, keeping existing metadata", "path", f.Path)
		return false, nil
	}
	ok, err := r.opts.Confirm(f)
	if err != nil {
		if errors.Is(err, ErrCancelled) {
			return false, err
		}
		return false, fmt.Errorf("%w: %v", ErrCancelled, err)
	}
	return ok, nil
}

// apply rewrites one file and records the outcome. overwrite replaces an
// existing metadata export.
func (r *run) apply(f scanner.File, overwrite bool) {
	changed, err := r.mutate(f, overwrite)
	switch {
	case err != nil:
		fe := FileError{Path: f.Path, Err: err}
		r.tally.Errors = append(r.tally.Errors, fe)
		r.report.Report(Event{Kind: EventFailed, Path: f.Path, Err: err})
	case !changed:
		r.tally.Skipped = append(r.tally.Skipped, f.Path)
		r.report.Report(Event{Kind: EventSkipped, Path: f.Path})
	case overwrite:
		r.tally.Overwritten = append(r.tally.Overwritten, f.Path)
		r.report.Report(Event{Kind: EventOverwritten, Path: f.Path})
	default:
		r.tally.Added = append(r.tally.Added, f.Path)
		r.report.Report(Event{Kind: EventAdded, Path: f.Path})
	}
}

func (r *run) mutate(f scanner.File, overwrite bool) (bool, error) {
	if !r.opts.Validate {
		return r.mutator.Mutate(f, overwrite)
	}
	content, err := os.ReadFile(f.Path)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", f.Path, err)
	}
	_, changed, err := r.mutator.Apply(f.Path, content, overwrite)
	return changed, err
}

func dirtyFiles(root string, files []scanner.File) []string {
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	dirty, err := gitstate.DirtyFiles(root, paths)
	if err != nil {
		slog.Debug("configure: git state unavailable", "root", root, "error", err)
		return nil
	}
	return dirty
}

func withoutMetadata(files []scanner.File) []scanner.File {
	var out []scanner.File
	for _, f := range files {
		if !f.HasMetadataExport {
			out = append(out, f)
		}
	}
	return out
}

func withMetadata(files []scanner.File) []scanner.File {
	var out []scanner.File
	for _, f := range files {
		if f.HasMetadataExport {
			out = append(out, f)
		}
	}
	return out
}
