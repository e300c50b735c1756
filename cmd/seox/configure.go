package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/julianshen/seox/internal/config"
	"github.com/julianshen/seox/internal/configure"
	"github.com/julianshen/seox/internal/mutator"
	"github.com/julianshen/seox/internal/output"
	"github.com/julianshen/seox/internal/runner"
	"github.com/julianshen/seox/internal/scanner"
	"github.com/julianshen/seox/internal/ui"
)

func configureCmd(g *globalOptions) *cobra.Command {
	var (
		forceFlag    bool
		validateFlag bool
		outputFlag   string
	)

	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Inject metadata and JSON-LD into layouts and pages",
		Long: `Scan app/ and pages/ (under src/ when present) for layout and page files
and wire the site configuration into each one. Files that already export
metadata are only rewritten after confirmation or with --force.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			formatter, err := outputFormatter(outputFlag)
			if err != nil {
				return err
			}
			root, err := g.root()
			if err != nil {
				return err
			}
			settings, err := g.loadSettings(root)
			if err != nil {
				return err
			}

			p := ui.NewPrinter(cmd.OutOrStdout())
			opts := configure.Options{
				Root:     root,
				Force:    forceFlag,
				Validate: validateFlag,
				Settings: settings,
			}
			if formatter == nil {
				p.Header("seox - Configuration")
				opts.Reporter = textReporter(p, root, validateFlag)
				if ui.IsInteractive(os.Stdin) {
					opts.Confirm = confirmOverwrite(root)
				}
			}

			tally, err := configure.Run(cmd.Context(), opts)
			if tally == nil {
				return reportConfigureFailure(cmd, p, formatter, settings, root, err)
			}

			if formatter != nil {
				if err := writeResult(cmd, formatter, runner.ConfigureResult(tally)); err != nil {
					return err
				}
			} else {
				printTally(p, tally)
				if tally.Changed() && !tally.Cancelled {
					printNextSteps(p, settings)
				}
			}

			if err != nil && !errors.Is(err, configure.ErrCancelled) {
				return err
			}
			if len(tally.Errors) > 0 {
				return &runner.ExitError{Code: 1}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&forceFlag, "force", "f", false, "overwrite existing metadata without asking")
	cmd.Flags().BoolVar(&validateFlag, "validate", false, "report the changes without writing any file")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "text", "output format: text, json, markdown")

	return cmd
}

// outputFormatter validates the --output value. The text format returns a
// nil Formatter.
func outputFormatter(name string) (output.Formatter, error) {
	switch name {
	case "text", "":
		return nil, nil
	case "json", "markdown":
		return output.NewFormatter(name), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (expected text, json or markdown)", name)
	}
}

func writeResult(cmd *cobra.Command, f output.Formatter, result *output.Result) error {
	out, err := f.Format(result)
	if err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

func reportConfigureFailure(cmd *cobra.Command, p *ui.Printer, f output.Formatter, settings *config.Config, root string, err error) error {
	if f != nil {
		if werr := writeResult(cmd, f, runner.ErrorResult("configure", err)); werr != nil {
			return werr
		}
		return &runner.ExitError{Code: 1}
	}
	switch {
	case errors.Is(err, configure.ErrConfigNotFound):
		p.Error("%s not found", relPath(root, settings.SiteConfigPath(root)))
		p.Muted("Run first: seox init")
	case errors.Is(err, configure.ErrNoFiles):
		p.Warn("No layout or page files found")
		p.Muted("Make sure you are in a Next.js project with an app/ or pages/ directory")
	default:
		return err
	}
	return &runner.ExitError{Code: 1}
}

func textReporter(p *ui.Printer, root string, dryRun bool) configure.Reporter {
	added, overwritten := "Added", "Overwritten"
	if dryRun {
		added, overwritten = "Would add", "Would overwrite"
	}
	return configure.ReporterFunc(func(e configure.Event) {
		switch e.Kind {
		case configure.EventScanned:
			p.Info("Found %d file(s) to process", len(e.Files))
			for _, f := range e.Files {
				state := "no metadata"
				if f.HasMetadataExport {
					state = "has metadata"
				}
				p.Bullet(ui.ToneMuted, "%s (%s)", relPath(root, f.Path), state)
			}
			if len(e.Dirty) > 0 {
				p.Warn("%d file(s) have uncommitted changes", len(e.Dirty))
			}
		case configure.EventAdded:
			p.Success("%s %s", added, relPath(root, e.Path))
		case configure.EventOverwritten:
			p.Success("%s %s", overwritten, relPath(root, e.Path))
		case configure.EventSkipped:
			p.Muted("○ Skipped %s", relPath(root, e.Path))
		case configure.EventFailed:
			p.Error("Error in %s: %v", relPath(root, e.Path), e.Err)
		}
	})
}

func confirmOverwrite(root string) configure.ConfirmFunc {
	return func(f scanner.File) (bool, error) {
		ok, err := ui.Confirm(fmt.Sprintf("%s already exports metadata. Overwrite it?", relPath(root, f.Path)))
		if errors.Is(err, ui.ErrAborted) {
			return false, configure.ErrCancelled
		}
		return ok, err
	}
}

func printTally(p *ui.Printer, t *configure.Tally) {
	if t.Cancelled {
		p.Warn("Operation cancelled")
	}
	p.Section("Summary :")
	prefix := ""
	if t.DryRun {
		prefix = "(dry run) "
	}
	p.Plain("   %s%d added, %d overwritten, %d skipped, %d failed",
		prefix, len(t.Added), len(t.Overwritten), len(t.Skipped), len(t.Errors))
}

func printNextSteps(p *ui.Printer, settings *config.Config) {
	m := mutator.MarkersFrom(settings)
	md := fmt.Sprintf("## Next steps\n\n"+
		"Each route file now imports the site configuration and exports its metadata:\n\n"+
		"```tsx\n%s\n%s\n\n%s\n```\n\n"+
		"The root layout renders the structured data inside `<head>`:\n\n"+
		"```tsx\n<head>\n  %s\n</head>\n```\n\n"+
		"Override values for a single page:\n\n"+
		"```tsx\nexport const metadata = %s.configToMetadata({\n  title: \"About\",\n  description: \"About our team\",\n});\n```\n",
		m.ConfigImportLine(), m.ComponentImportLine(), m.MetadataExportLine(),
		m.ComponentTag(), m.ConfigIdentifier)

	r, err := ui.NewMarkdownRenderer(80, ui.IsInteractive(os.Stdout))
	if err != nil {
		p.Plain("%s", md)
		return
	}
	rendered, err := r.Render(md)
	if err != nil {
		rendered = md
	}
	p.Plain("%s", rendered)
}

func relPath(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil {
		return rel
	}
	return path
}
