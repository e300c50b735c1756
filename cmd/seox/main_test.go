package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianshen/seox/internal/config"
	"github.com/julianshen/seox/internal/runner"
	"github.com/julianshen/seox/internal/siteconfig"
	"github.com/julianshen/seox/internal/ui"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

const layoutSource = `export default function RootLayout({ children }) {
  return (
    <html lang="en">
      <head>
      </head>
      <body>{children}</body>
    </html>
  );
}
`

const pageSource = `export default function Home() {
  return <main>Home</main>;
}
`

// newProject lays out a minimal app-router project and initializes it.
func newProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "app", "layout.tsx"), layoutSource)
	writeFile(t, filepath.Join(dir, "app", "page.tsx"), pageSource)
	_, err := execute(t, "init", "--yes", "-C", dir, "--name", "Acme", "--url", "https://acme.test")
	require.NoError(t, err)
	return dir
}

func TestVersionString(t *testing.T) {
	s := versionString()
	assert.Contains(t, s, "seox")
	assert.Contains(t, s, version)
	assert.Contains(t, s, commit)
	assert.Contains(t, s, date)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, versionString()+"\n", out)
}

func TestInitWritesLoadableConfig(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "init", "--yes", "-C", dir,
		"--name", "Acme", "--url", "https://acme.test", "--description", `Tools & "gadgets"`)
	require.NoError(t, err)
	assert.Contains(t, out, "File created")
	assert.Contains(t, out, "seox configure")

	path := filepath.Join(dir, "lib", "seo.ts")
	require.FileExists(t, path)

	loaded, err := siteconfig.Load(dir, config.DefaultConfig())
	require.NoError(t, err)
	assert.Empty(t, loaded.Warnings)
	assert.Equal(t, "Acme", loaded.Config.Name)
	assert.Equal(t, "https://acme.test", loaded.Config.URL)
	assert.Equal(t, `Tools & "gadgets"`, loaded.Config.Description)
	assert.Equal(t, "Acme", loaded.Config.TitleText())
	require.Len(t, loaded.Config.JSONLD, 1)
	assert.Equal(t, "Organization", loaded.Config.JSONLD[0].Type())
}

func TestInitUsesSrcDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "src"), 0o755))

	_, err := execute(t, "init", "--yes", "-C", dir)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "src", "lib", "seo.ts"))
}

func TestInitRejectsInvalidURL(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "init", "--yes", "-C", dir, "--url", "acme.test")
	require.Error(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "lib", "seo.ts"))
}

func TestInitWritesYAMLWhenConfigured(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, config.FileName), "[project]\nconfig_file = \"seo.yaml\"\n")

	_, err := execute(t, "init", "--yes", "-C", dir, "--name", "Acme", "--url", "https://acme.test")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "lib", "seo.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "name: Acme")

	loaded, err := siteconfig.Load(dir, mustSettings(t, dir))
	require.NoError(t, err)
	assert.Equal(t, "https://acme.test", loaded.Config.URL)
}

func mustSettings(t *testing.T, dir string) *config.Config {
	t.Helper()
	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	return cfg
}

func TestConfigureJSONOutput(t *testing.T) {
	dir := newProject(t)

	out, err := execute(t, "configure", "-C", dir, "--output", "json")
	require.NoError(t, err)

	var result struct {
		Command   string `json:"command"`
		Configure struct {
			DryRun  bool     `json:"dry_run"`
			Added   []string `json:"added"`
			Skipped []string `json:"skipped"`
		} `json:"configure"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "configure", result.Command)
	assert.False(t, result.Configure.DryRun)
	assert.Len(t, result.Configure.Added, 2)
	assert.Empty(t, result.Configure.Skipped)

	layout, err := os.ReadFile(filepath.Join(dir, "app", "layout.tsx"))
	require.NoError(t, err)
	assert.Contains(t, string(layout), "export const metadata = seoConfig.configToMetadata();")
	assert.Contains(t, string(layout), "<JsonLd seo={seoConfig} />")

	page, err := os.ReadFile(filepath.Join(dir, "app", "page.tsx"))
	require.NoError(t, err)
	assert.Contains(t, string(page), "import { seoConfig } from '@/lib/seo';")
	assert.NotContains(t, string(page), "JsonLd")
}

func TestConfigureValidateWritesNothing(t *testing.T) {
	dir := newProject(t)

	out, err := execute(t, "configure", "-C", dir, "--validate")
	require.NoError(t, err)
	assert.Contains(t, out, "Would add")
	assert.Contains(t, out, "(dry run)")

	page, err := os.ReadFile(filepath.Join(dir, "app", "page.tsx"))
	require.NoError(t, err)
	assert.Equal(t, pageSource, string(page))
}

func TestConfigureTextOutputSkipsExistingWithoutPrompt(t *testing.T) {
	if ui.IsInteractive(os.Stdin) {
		t.Skip("stdin is a terminal; configure would prompt")
	}
	dir := newProject(t)
	_, err := execute(t, "configure", "-C", dir)
	require.NoError(t, err)

	out, err := execute(t, "configure", "-C", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "has metadata")
	assert.Contains(t, out, "Skipped")
	assert.Contains(t, out, "0 added, 0 overwritten, 2 skipped, 0 failed")
}

func TestConfigureMissingConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "app", "page.tsx"), pageSource)

	out, err := execute(t, "configure", "-C", dir)
	var exitErr *runner.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 1, exitErr.Code)
	assert.Contains(t, out, "seox init")
}

func TestConfigureNoFilesJSON(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "init", "--yes", "-C", dir)
	require.NoError(t, err)

	out, err := execute(t, "configure", "-C", dir, "-o", "json")
	var exitErr *runner.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Contains(t, out, `"error": "no Next.js layout or page files found"`)
}

func TestConfigureRejectsUnknownOutput(t *testing.T) {
	_, err := execute(t, "configure", "-C", t.TempDir(), "--output", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}

func TestDoctorReportsProjectWarning(t *testing.T) {
	dir := newProject(t)

	out, err := execute(t, "doctor", "-C", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "WARNINGS")
	assert.Contains(t, out, "package.json not found")
}

func TestDoctorFailOn(t *testing.T) {
	dir := newProject(t)

	_, err := execute(t, "doctor", "-C", dir, "--fail-on", "error")
	require.NoError(t, err)

	_, err = execute(t, "doctor", "-C", dir, "--fail-on", "warning")
	var exitErr *runner.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 1, exitErr.Code)
}

func TestDoctorJSONOutput(t *testing.T) {
	dir := newProject(t)
	writeFile(t, filepath.Join(dir, "package.json"),
		`{"dependencies": {"next": "^14.1.0", "seox": "^1.0.0"}}`)

	out, err := execute(t, "doctor", "-C", dir, "--output", "json")
	require.NoError(t, err)

	var result struct {
		ConfigPath string `json:"config_path"`
		Summary    struct {
			Errors   int `json:"errors"`
			Warnings int `json:"warnings"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, filepath.Join("lib", "seo.ts"), result.ConfigPath)
	assert.Zero(t, result.Summary.Errors)
	assert.Zero(t, result.Summary.Warnings)
}

func TestDoctorMissingConfig(t *testing.T) {
	out, err := execute(t, "doctor", "-C", t.TempDir())
	var exitErr *runner.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Contains(t, out, "No SEO configuration found")
}

func TestDoctorRejectsUnknownSeverity(t *testing.T) {
	_, err := execute(t, "doctor", "-C", t.TempDir(), "--fail-on", "fatal")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--fail-on")
}

const yamlSiteConfig = `name: Acme
url: https://acme.test
title:
  default: Acme
  template: "%s | Acme"
description: Tools for everyone
openGraph:
  type: website
jsonld:
  - "@context": https://schema.org
    "@type": Organization
    name: Acme
pages:
  about:
    title: About
    jsonld:
      - "@context": https://schema.org
        "@type": AboutPage
`

func TestPreviewPage(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "lib", "seo.yaml"), yamlSiteConfig)

	out, err := execute(t, "preview", "-C", dir, "--page", "about")
	require.NoError(t, err)
	assert.Contains(t, out, `"title": "About"`)
	assert.Contains(t, out, `"description": "Tools for everyone"`)
	assert.Contains(t, out, `"siteName": "Acme"`)
	assert.Contains(t, out, `"url": "https://acme.test"`)
	assert.Equal(t, 2, strings.Count(out, `<script type="application/ld+json">`))
	assert.Contains(t, out, `"@type":"AboutPage"`)
}

func TestPreviewSite(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "lib", "seo.yaml"), yamlSiteConfig)

	out, err := execute(t, "preview", "-C", dir)
	require.NoError(t, err)
	assert.Contains(t, out, `"template": "%s | Acme"`)
	assert.NotContains(t, out, `"name": "Acme"`)
	assert.Equal(t, 1, strings.Count(out, "<script"))
}

func TestPreviewUnknownPage(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "lib", "seo.yaml"), yamlSiteConfig)

	_, err := execute(t, "preview", "-C", dir, "--page", "contact")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "available: about")
}

func TestRunMapsExitCodes(t *testing.T) {
	var stderr bytes.Buffer

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"version"})
	assert.Equal(t, 0, run(cmd, &stderr))

	cmd = newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"preview", "-C", t.TempDir()})
	assert.Equal(t, 1, run(cmd, &stderr))
	assert.Contains(t, stderr.String(), "Error: site configuration not found")

	stderr.Reset()
	cmd = newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"doctor", "-C", t.TempDir()})
	assert.Equal(t, 1, run(cmd, &stderr))
	assert.Empty(t, stderr.String())
}
