// Package scanner discovers Next.js route files (layouts and pages) under the
// app-router and pages-router roots of a project.
package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianshen/seox/internal/config"
	"github.com/julianshen/seox/internal/parser"
)

// MetadataToken marks a file as already exporting metadata.
const MetadataToken = "export const metadata"

// Router names the routing convention a root follows.
type Router string

const (
	AppRouter   Router = "app"
	PagesRouter Router = "pages"
)

// routeFiles contains the basenames the scanner picks up.
var routeFiles = map[string]bool{
	"layout.tsx": true,
	"page.tsx":   true,
	"layout.ts":  true,
	"page.ts":    true,
}

// File describes one route file found by Scan.
type File struct {
	Path              string
	Router            Router
	HasMetadataExport bool
	// ExistingMetadata is the source text of the metadata export, set only
	// when HasMetadataExport is true.
	ExistingMetadata string
}

// IsLayout reports whether the file is a layout.
func (f File) IsLayout() bool {
	return IsLayout(f.Path)
}

// Root is a directory scanned with a given routing convention.
type Root struct {
	Dir    string
	Router Router
}

// IsRouteFile reports whether name is one of the recognized basenames.
func IsRouteFile(name string) bool {
	return routeFiles[filepath.Base(name)]
}

// IsLayout reports whether path names a layout file.
func IsLayout(path string) bool {
	base := filepath.Base(path)
	return base == "layout.tsx" || base == "layout.ts"
}

// Roots returns the app and pages roots of a project, nested under src/
// when the project has one.
func Roots(projectRoot string) []Root {
	base := config.SourceDir(projectRoot)
	return []Root{
		{Dir: filepath.Join(base, "app"), Router: AppRouter},
		{Dir: filepath.Join(base, "pages"), Router: PagesRouter},
	}
}

// ScanProject scans the default roots of projectRoot.
func ScanProject(ctx context.Context, projectRoot string, p *parser.Parser) ([]File, error) {
	return Scan(ctx, Roots(projectRoot), p)
}

// Scan walks every existing root depth-first in lexical order and returns
// the route files found. Missing roots are skipped; any read error aborts
// the scan.
func Scan(ctx context.Context, roots []Root, p *parser.Parser) ([]File, error) {
	var files []File
	for _, root := range roots {
		info, err := os.Stat(root.Dir)
		if err != nil || !info.IsDir() {
			slog.Debug("scanner: root not present", "dir", root.Dir)
			continue
		}

		err = filepath.WalkDir(root.Dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if d.IsDir() || !d.Type().IsRegular() || !routeFiles[d.Name()] {
				return nil
			}

			content, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			files = append(files, describe(p, path, root.Router, string(content)))
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", root.Dir, err)
		}
	}
	return files, nil
}

func describe(p *parser.Parser, path string, router Router, content string) File {
	f := File{
		Path:              path,
		Router:            router,
		HasMetadataExport: strings.Contains(content, MetadataToken),
	}
	if f.HasMetadataExport {
		f.ExistingMetadata = existingMetadata(p, path, content)
	}
	return f
}

// existingMetadata returns the metadata export statement as parsed by
// tree-sitter, falling back to brace counting when the parse does not
// expose a structural export.
func existingMetadata(p *parser.Parser, path, content string) string {
	if p != nil {
		tree, err := p.Parse(path, []byte(content))
		if err == nil {
			defer tree.Close()
			if span, ok := tree.ExportedConst("metadata"); ok {
				return tree.Text(span)
			}
		}
	}
	slog.Debug("scanner: falling back to brace counting", "path", path)
	return ExtractMetadataSource(content)
}

// ExtractMetadataSource returns the lines of the metadata export, starting at
// the first line containing MetadataToken and ending at the line where the
// running count of braces returns to zero. A first line with balanced braces
// is returned alone.
func ExtractMetadataSource(content string) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if !strings.Contains(line, MetadataToken) {
			continue
		}
		depth := braceDelta(line)
		end := i
		for depth != 0 && end+1 < len(lines) {
			end++
			depth += braceDelta(lines[end])
		}
		return strings.Join(lines[i:end+1], "\n")
	}
	return ""
}

func braceDelta(line string) int {
	return strings.Count(line, "{") - strings.Count(line, "}")
}
