package ui

import (
	"errors"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"golang.org/x/term"
)

// ErrAborted is returned when the user aborts a prompt.
var ErrAborted = huh.ErrUserAborted

// IsInteractive reports whether f is a terminal.
func IsInteractive(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// Confirm asks a yes/no question, defaulting to no.
func Confirm(title string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	return ok, err
}

// SiteAnswers are the values collected by the init form.
type SiteAnswers struct {
	Name        string
	URL         string
	Description string
}

// DefaultSiteAnswers returns the values offered when the user accepts
// every default.
func DefaultSiteAnswers() SiteAnswers {
	return SiteAnswers{
		Name:        "My Site",
		URL:         "https://mysite.com",
		Description: "A modern site built with Next.js",
	}
}

// ValidateSiteName rejects blank names.
func ValidateSiteName(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("site name is required")
	}
	return nil
}

// ValidateBaseURL requires an http(s) URL.
func ValidateBaseURL(s string) error {
	if !strings.HasPrefix(s, "http") {
		return errors.New("invalid URL: must start with http")
	}
	return nil
}

// NewSiteForm builds the init form. Answers are written into a, whose
// current values are the defaults.
func NewSiteForm(a *SiteAnswers) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name of your site").
				Value(&a.Name).
				Validate(ValidateSiteName),
			huh.NewInput().
				Title("Base URL (without trailing slash)").
				Placeholder("https://mysite.com").
				Value(&a.URL).
				Validate(ValidateBaseURL),
			huh.NewInput().
				Title("Default description").
				Value(&a.Description),
		).Title("Site"),
	)
}

// AskSite runs the init form on the terminal.
func AskSite(defaults SiteAnswers) (SiteAnswers, error) {
	a := defaults
	if err := NewSiteForm(&a).Run(); err != nil {
		return SiteAnswers{}, err
	}
	a.URL = strings.TrimRight(a.URL, "/")
	return a, nil
}

// Spin runs fn behind a spinner when interactive is true and plainly
// otherwise. fn's error is returned.
func Spin(interactive bool, title string, fn func() error) error {
	if !interactive {
		return fn()
	}
	var fnErr error
	if err := spinner.New().
		Title(title).
		Action(func() { fnErr = fn() }).
		Run(); err != nil {
		return err
	}
	return fnErr
}
