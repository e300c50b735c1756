package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/julianshen/seox/internal/doctor"
	"github.com/julianshen/seox/internal/runner"
	"github.com/julianshen/seox/internal/siteconfig"
	"github.com/julianshen/seox/internal/ui"
)

func doctorCmd(g *globalOptions) *cobra.Command {
	var (
		outputFlag string
		failOnFlag string
	)

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the SEO configuration for missing or oversized fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			formatter, err := outputFormatter(outputFlag)
			if err != nil {
				return err
			}
			switch failOnFlag {
			case "", "error", "warning", "suggestion":
			default:
				return fmt.Errorf("unknown severity %q for --fail-on (expected error, warning or suggestion)", failOnFlag)
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
			if formatter == nil {
				p.Header("seox - SEO Doctor")
			}

			var loaded *siteconfig.Loaded
			err = ui.Spin(formatter == nil && ui.IsInteractive(os.Stdout), "Analyzing configuration...", func() error {
				var lerr error
				loaded, lerr = siteconfig.Load(root, settings)
				return lerr
			})
			if err != nil {
				if formatter != nil {
					if werr := writeResult(cmd, formatter, runner.ErrorResult("doctor", err)); werr != nil {
						return werr
					}
					return &runner.ExitError{Code: 1}
				}
				if errors.Is(err, siteconfig.ErrNotFound) {
					p.Error("No SEO configuration found")
					p.Muted("Run first: seox init")
					return &runner.ExitError{Code: 1}
				}
				p.Error("Unable to read the configuration")
				return err
			}

			checker := doctor.NewChecker(settings)
			report := checker.Check(loaded.Config)
			report.Merge(checker.CheckSite(loaded.Config))
			project, err := checker.CheckProject(root)
			if err != nil {
				slog.Warn("doctor: skipping project checks", "root", root, "error", err)
			}
			report.Merge(project)

			result := runner.DoctorResult(relPath(root, loaded.Path), report)
			if formatter != nil {
				if err := writeResult(cmd, formatter, result); err != nil {
					return err
				}
			} else {
				for _, w := range loaded.Warnings {
					p.Warn("%s", w)
				}
				printReport(p, report)
			}

			if code := runner.ExitCodeFromFindings(result.Findings, failOnFlag); code != 0 {
				return &runner.ExitError{Code: code}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFlag, "output", "o", "text", "output format: text, json, markdown")
	cmd.Flags().StringVar(&failOnFlag, "fail-on", "", "exit non-zero on findings at or above this severity: error, warning, suggestion")

	return cmd
}

func printReport(p *ui.Printer, r doctor.Report) {
	if r.Empty() {
		p.Success("No issues detected! Your SEO configuration is optimal.")
		return
	}
	sections := []struct {
		title    string
		tone     ui.Tone
		findings []doctor.Finding
	}{
		{"ERRORS", ui.ToneError, r.Errors},
		{"WARNINGS", ui.ToneWarn, r.Warnings},
		{"SUGGESTIONS", ui.ToneInfo, r.Suggestions},
	}
	for _, s := range sections {
		if len(s.findings) == 0 {
			continue
		}
		p.Section(s.title, s.tone)
		for _, f := range s.findings {
			p.Bullet(s.tone, "%s", f.Message)
		}
	}
}
