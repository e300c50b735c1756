package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/julianshen/seox/internal/siteconfig"
	"github.com/julianshen/seox/pkg/seox"
)

func previewCmd(g *globalOptions) *cobra.Command {
	var pageFlag string

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Print the merged metadata and JSON-LD scripts",
		Long: `Print the metadata object a route would export, followed by the
JSON-LD script elements the layout renders. --page merges the named entry
of the configuration's pages table on top of the site values.`,
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
			loaded, err := siteconfig.Load(root, settings)
			if err != nil {
				return err
			}

			s := seox.New(loaded.Config)
			md := s.ConfigToMetadata(nil)
			var extra []seox.Schema
			if pageFlag != "" {
				page, ok := loaded.Config.Pages[pageFlag]
				if !ok {
					return fmt.Errorf("page %q is not configured (available: %s)", pageFlag, pageNames(loaded.Config))
				}
				md, _ = s.PageMetadata(pageFlag)
				extra = page.JSONLD
			}

			data, err := json.MarshalIndent(md, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding metadata: %w", err)
			}
			scripts, err := s.ScriptTags(extra...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, string(data))
			if scripts != "" {
				fmt.Fprintln(out)
				fmt.Fprint(out, string(scripts))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&pageFlag, "page", "p", "", "merge the named page override")

	return cmd
}

func pageNames(cfg *seox.Config) string {
	if len(cfg.Pages) == 0 {
		return "none"
	}
	names := make([]string, 0, len(cfg.Pages))
	for name := range cfg.Pages {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
