package main

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/julianshen/seox/internal/config"
	"github.com/julianshen/seox/internal/ui"
	"github.com/julianshen/seox/pkg/seox"
)

//go:embed templates/seo.ts.tmpl
var seoTemplateText string

var seoTemplate = template.Must(template.New("seo.ts").Parse(seoTemplateText))

type templateData struct {
	ui.SiteAnswers
	Class      string
	Package    string
	Identifier string
}

func initCmd(g *globalOptions) *cobra.Command {
	var (
		nameFlag        string
		urlFlag         string
		descriptionFlag string
		yesFlag         bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the SEO configuration file",
		Long: `Create the site configuration (lib/seo.ts by default) from a template.
Values come from the flags, then from an interactive form when stdin is a
terminal. --yes accepts the defaults and overwrites an existing file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			root, err := g.root()
			if err != nil {
				return err
			}
			settings, err := g.loadSettings(root)
			if err != nil {
				return err
			}

			p := ui.NewPrinter(cmd.OutOrStdout())
			p.Header("seox - Initialization")

			interactive := !yesFlag && ui.IsInteractive(os.Stdin)
			path := settings.SiteConfigPath(root)

			if _, err := os.Stat(path); err == nil && !yesFlag {
				if !interactive {
					return fmt.Errorf("%s already exists; pass --yes to overwrite it", path)
				}
				ok, err := ui.Confirm(fmt.Sprintf("The %s file already exists. Do you want to overwrite it?", path))
				if err != nil && !errors.Is(err, ui.ErrAborted) {
					return err
				}
				if !ok {
					p.Warn("Initialization canceled")
					return nil
				}
			}

			answers := ui.DefaultSiteAnswers()
			if nameFlag != "" {
				answers.Name = nameFlag
			}
			if urlFlag != "" {
				answers.URL = urlFlag
			}
			if descriptionFlag != "" {
				answers.Description = descriptionFlag
			}
			if interactive {
				answers, err = ui.AskSite(answers)
				if errors.Is(err, ui.ErrAborted) {
					p.Error("Initialization canceled")
					return nil
				}
				if err != nil {
					return err
				}
			}
			if err := ui.ValidateSiteName(answers.Name); err != nil {
				return err
			}
			if err := ui.ValidateBaseURL(answers.URL); err != nil {
				return err
			}

			content, err := renderSiteConfig(path, settings, answers)
			if err != nil {
				return err
			}
			err = ui.Spin(ui.IsInteractive(os.Stdout), "Creating files...", func() error {
				return writeSiteConfig(path, content)
			})
			if err != nil {
				p.Error("Error creating the configuration")
				return err
			}

			p.Success("Configuration created successfully!")
			p.Muted("File created : %s", path)
			p.Section("Next step :", ui.ToneInfo)
			p.Plain("   seox configure")
			return nil
		},
	}

	cmd.Flags().StringVar(&nameFlag, "name", "", "site name")
	cmd.Flags().StringVar(&urlFlag, "url", "", "base URL, without trailing slash")
	cmd.Flags().StringVar(&descriptionFlag, "description", "", "default description")
	cmd.Flags().BoolVarP(&yesFlag, "yes", "y", false, "accept defaults and overwrite without asking")

	return cmd
}

// renderSiteConfig produces the configuration file content in the format
// implied by path's extension.
func renderSiteConfig(path string, settings *config.Config, a ui.SiteAnswers) ([]byte, error) {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		out, err := yaml.Marshal(starterConfig(a))
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", path, err)
		}
		return out, nil
	case ".json":
		out, err := json.MarshalIndent(starterConfig(a), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", path, err)
		}
		return append(out, '\n'), nil
	}

	var buf bytes.Buffer
	err := seoTemplate.Execute(&buf, templateData{
		SiteAnswers: a,
		Class:       settings.Imports.ConfigClass,
		Package:     settings.Imports.ComponentPackage,
		Identifier:  settings.Imports.ConfigIdentifier,
	})
	if err != nil {
		return nil, fmt.Errorf("rendering %s: %w", path, err)
	}
	return buf.Bytes(), nil
}

func starterConfig(a ui.SiteAnswers) *seox.Config {
	return &seox.Config{
		Name: a.Name,
		URL:  a.URL,
		Title: map[string]any{
			"default":  a.Name,
			"template": "%s | " + a.Name,
		},
		Description: a.Description,
		JSONLD: []seox.Schema{{
			"@context": "https://schema.org",
			"@type":    "Organization",
			"name":     a.Name,
			"url":      a.URL,
		}},
	}
}

func writeSiteConfig(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
