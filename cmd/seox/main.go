package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/julianshen/seox/internal/config"
	"github.com/julianshen/seox/internal/runner"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func versionString() string {
	return fmt.Sprintf("seox %s (commit: %s, built: %s)", version, commit, date)
}

// globalOptions holds the persistent flags shared by every subcommand.
type globalOptions struct {
	dir      string
	settings string
	verbose  bool
}

// root returns the absolute project root.
func (g *globalOptions) root() (string, error) {
	abs, err := filepath.Abs(g.dir)
	if err != nil {
		return "", fmt.Errorf("resolving project root: %w", err)
	}
	return abs, nil
}

// loadSettings reads the tool settings for the project at root.
func (g *globalOptions) loadSettings(root string) (*config.Config, error) {
	path := g.settings
	if path == "" {
		path = filepath.Join(root, config.FileName)
	}
	return config.Load(path)
}

func newRootCmd() *cobra.Command {
	g := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "seox",
		Short: "Inject SEO metadata and JSON-LD into Next.js projects",
		Long: `seox wires a single SEO configuration into every layout and page of a
Next.js project: it exports the merged metadata from each route file and
renders JSON-LD structured data inside the root layout's <head>.`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			setupLogging(cmd.ErrOrStderr(), g.verbose)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&g.dir, "dir", "C", ".", "Next.js project root")
	rootCmd.PersistentFlags().StringVar(&g.settings, "settings", "", "path to settings file (default <root>/"+config.FileName+")")
	rootCmd.PersistentFlags().BoolVar(&g.verbose, "verbose", false, "enable debug logging")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), versionString())
		},
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd(g))
	rootCmd.AddCommand(configureCmd(g))
	rootCmd.AddCommand(doctorCmd(g))
	rootCmd.AddCommand(previewCmd(g))
	return rootCmd
}

func setupLogging(w io.Writer, verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

func main() {
	os.Exit(run(newRootCmd(), os.Stderr))
}

// run executes cmd and maps its error to a process exit code.
func run(cmd *cobra.Command, stderr io.Writer) int {
	err := cmd.Execute()
	if err == nil {
		return 0
	}
	var exitErr *runner.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return 1
}
