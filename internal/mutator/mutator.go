// Package mutator rewrites Next.js route files so that they export metadata
// derived from the site configuration and, for layouts, render the JSON-LD
// component inside <head>.
//
// Edits are located on a tree-sitter parse of the file and spliced in at
// exact byte offsets. Every step re-parses the intermediate source.
package mutator

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/julianshen/seox/internal/parser"
	"github.com/julianshen/seox/internal/scanner"
)

// legacyMetadataPattern strips a metadata export when the parse cannot
// locate it. It is greedy up to the first semicolon.
var legacyMetadataPattern = regexp.MustCompile(`export const metadata[^;]+;?\s*`)

// headPattern finds a <head> opening tag in sources the grammar could not
// parse as JSX.
var headPattern = regexp.MustCompile(`<head(?:\s[^>]*)?>`)

// Mutator applies the metadata edits to route files.
type Mutator struct {
	markers Markers
	parser  *parser.Parser
}

// New creates a Mutator. A nil parser gets a fresh one.
func New(markers Markers, p *parser.Parser) *Mutator {
	if p == nil {
		p = parser.NewParser()
	}
	return &Mutator{markers: markers, parser: p}
}

// Mutate rewrites f in place. It returns false without touching the file
// when the file already exports metadata and force is false.
func (m *Mutator) Mutate(f scanner.File, force bool) (bool, error) {
	content, err := os.ReadFile(f.Path)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", f.Path, err)
	}
	updated, changed, err := m.Apply(f.Path, content, force)
	if err != nil || !changed {
		return false, err
	}
	if err := writeAtomic(f.Path, updated); err != nil {
		return false, err
	}
	return true, nil
}

// Apply computes the rewritten content of the file at path without writing
// it. changed is false when the file already exports metadata and force is
// false. Files using CRLF line endings keep them.
func (m *Mutator) Apply(path string, content []byte, force bool) ([]byte, bool, error) {
	src := string(content)
	hasMetadata := strings.Contains(src, scanner.MetadataToken)
	if hasMetadata && !force {
		return content, false, nil
	}

	crlf := strings.Contains(src, "\r\n")
	if crlf {
		src = strings.ReplaceAll(src, "\r\n", "\n")
	}

	var err error
	if hasMetadata {
		if src, err = m.stripMetadata(path, src); err != nil {
			return nil, false, err
		}
	}
	if src, err = m.ensureConfigImport(path, src); err != nil {
		return nil, false, err
	}
	if src, err = m.insertMetadataExport(path, src); err != nil {
		return nil, false, err
	}
	if scanner.IsLayout(path) {
		if src, err = m.addComponent(path, src); err != nil {
			return nil, false, err
		}
	}
	if crlf {
		src = strings.ReplaceAll(src, "\n", "\r\n")
	}
	return []byte(src), true, nil
}

func (m *Mutator) parse(path, src string) (*parser.Tree, error) {
	return m.parser.Parse(path, []byte(src))
}

// stripMetadata removes the existing metadata export and the whitespace
// following it.
func (m *Mutator) stripMetadata(path, src string) (string, error) {
	tree, err := m.parse(path, src)
	if err != nil {
		return "", err
	}
	defer tree.Close()

	span, ok := tree.ExportedConst("metadata")
	if !ok {
		slog.Debug("mutator: metadata export not found structurally, using pattern", "path", path)
		return legacyMetadataPattern.ReplaceAllString(src, ""), nil
	}
	end := span.End
	for end < len(src) && isSpace(src[end]) {
		end++
	}
	return src[:span.Start] + src[end:], nil
}

func (m *Mutator) configImport(tree *parser.Tree) (parser.Import, bool) {
	return tree.FindImport(m.markers.ConfigImport, m.markers.ConfigIdentifier)
}

// ensureConfigImport adds the config import after the leading import run,
// after the directive prologue when there are no imports, or at the top.
func (m *Mutator) ensureConfigImport(path, src string) (string, error) {
	if strings.Contains(src, strings.TrimSuffix(m.markers.ConfigImportLine(), ";")) {
		return src, nil
	}
	tree, err := m.parse(path, src)
	if err != nil {
		return "", err
	}
	defer tree.Close()

	if _, ok := m.configImport(tree); ok {
		return src, nil
	}

	line := m.markers.ConfigImportLine()
	if span, ok := tree.LeadingImportsEnd(); ok {
		return insertLineAfter(src, span.End, line), nil
	}
	if span, ok := tree.PrologueEnd(); ok {
		at := lineEnd(src, span.End)
		return insertAt(src, at, separatorBefore(src, at)+"\n"+line+"\n"), nil
	}
	if strings.HasPrefix(src, "\n") || src == "" {
		return line + "\n" + src, nil
	}
	return line + "\n\n" + src, nil
}

// insertMetadataExport places the metadata export before the first export
// that starts the module body, or at the end of the file.
func (m *Mutator) insertMetadataExport(path, src string) (string, error) {
	tree, err := m.parse(path, src)
	if err != nil {
		return "", err
	}
	defer tree.Close()

	line := m.markers.MetadataExportLine()
	span, ok := tree.DeclarationAnchor("metadata")
	if !ok {
		if src == "" {
			return line + "\n", nil
		}
		if !strings.HasSuffix(src, "\n") {
			src += "\n"
		}
		return src + "\n" + line + "\n", nil
	}

	at := span.Start
	prefix := ""
	if at > 0 && !strings.HasSuffix(src[:at], "\n\n") {
		prefix = "\n"
		if !strings.HasSuffix(src[:at], "\n") {
			prefix = "\n\n"
		}
	}
	return insertAt(src, at, prefix+line+"\n\n"), nil
}

// addComponent imports the structured-data component and renders it inside
// the first <head> tag. Files without a head tag are left alone.
func (m *Mutator) addComponent(path, src string) (string, error) {
	if strings.Contains(src, m.markers.ComponentName) {
		return src, nil
	}
	tree, err := m.parse(path, src)
	if err != nil {
		return "", err
	}
	defer tree.Close()

	headEnd, ok := m.headEnd(tree, src)
	if !ok {
		slog.Debug("mutator: no <head> tag in layout", "path", path)
		return src, nil
	}

	ws := headEnd
	for ws < len(src) && isSpace(src[ws]) {
		ws++
	}
	tag := m.markers.ComponentTag() + src[headEnd:ws]

	imp, hasImport := m.configImport(tree)
	if !hasImport {
		return insertAt(src, ws, tag), nil
	}
	// Splice at the later offset first so the earlier one stays valid.
	importAt := lineEnd(src, imp.Span.End)
	if ws >= importAt {
		src = insertAt(src, ws, tag)
		return insertLineAfter(src, imp.Span.End, m.markers.ComponentImportLine()), nil
	}
	src = insertLineAfter(src, imp.Span.End, m.markers.ComponentImportLine())
	return insertAt(src, ws, tag), nil
}

func (m *Mutator) headEnd(tree *parser.Tree, src string) (int, bool) {
	if span, ok := tree.JSXOpeningTag("head"); ok {
		return span.End, true
	}
	if !tree.HasErrors() {
		return 0, false
	}
	loc := headPattern.FindStringIndex(src)
	if loc == nil {
		return 0, false
	}
	return loc[1], true
}

// insertLineAfter inserts line on its own line after the line holding
// offset.
func insertLineAfter(src string, offset int, line string) string {
	at := lineEnd(src, offset)
	if at == len(src) && !strings.HasSuffix(src, "\n") {
		return src + "\n" + line + "\n"
	}
	return insertAt(src, at, line+"\n")
}

// lineEnd returns the offset just past the newline ending the line that
// contains offset, or len(src).
func lineEnd(src string, offset int) int {
	if i := strings.IndexByte(src[offset:], '\n'); i >= 0 {
		return offset + i + 1
	}
	return len(src)
}

// separatorBefore returns a newline when at is the end of a source that does
// not end with one.
func separatorBefore(src string, at int) string {
	if at == len(src) && !strings.HasSuffix(src, "\n") {
		return "\n"
	}
	return ""
}

func insertAt(src string, at int, text string) string {
	return src[:at] + text + src[at:]
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// writeAtomic replaces path with data through a temporary file in the same
// directory, keeping the original permissions.
func writeAtomic(path string, data []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".seox-*")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Chmod(info.Mode().Perm()); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file for %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
