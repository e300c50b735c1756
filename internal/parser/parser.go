// Package parser provides tree-sitter-based parsing for TypeScript and
// JavaScript route files with automatic grammar detection from file
// extensions. It locates imports, exports and JSX tags structurally so that
// callers can splice source text at exact byte offsets.
package parser

import (
	"context"
	"fmt"
	"path/filepath"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// registry maps file extensions to the grammar used to parse them.
var registry = map[string]*sitter.Language{
	".ts":  typescript.GetLanguage(),
	".mts": typescript.GetLanguage(),
	".tsx": tsx.GetLanguage(),
	".js":  javascript.GetLanguage(),
	".jsx": javascript.GetLanguage(),
	".mjs": javascript.GetLanguage(),
	".cjs": javascript.GetLanguage(),
}

// Supported reports whether filename has an extension the parser handles.
func Supported(filename string) bool {
	_, ok := registry[filepath.Ext(filename)]
	return ok
}

// Parser wraps tree-sitter to parse source files with automatic grammar
// detection. A Parser is not safe for concurrent use.
type Parser struct {
	inner *sitter.Parser
}

// NewParser creates a new Parser instance.
func NewParser() *Parser {
	return &Parser{
		inner: sitter.NewParser(),
	}
}

// Parse parses source code from the given filename, picking the grammar from
// the file extension. Returns an error for unsupported extensions.
func (p *Parser) Parse(filename string, source []byte) (*Tree, error) {
	ext := filepath.Ext(filename)
	lang, ok := registry[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported file extension %q: language not in registry", ext)
	}

	p.inner.SetLanguage(lang)
	sitterTree, err := p.inner.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}

	return &Tree{
		tree:   sitterTree,
		source: source,
	}, nil
}

// Span is a byte range of the parsed source with 1-indexed line numbers.
type Span struct {
	Start     int
	End       int
	StartLine int
	EndLine   int
}

func spanOf(n *sitter.Node) Span {
	return Span{
		Start:     int(n.StartByte()),
		End:       int(n.EndByte()),
		StartLine: int(n.StartPoint().Row) + 1,
		EndLine:   int(n.EndPoint().Row) + 1,
	}
}

// Import is a top-level import statement.
type Import struct {
	Source string
	// Names lists the local bindings: default, named (alias when present)
	// and namespace imports.
	Names []string
	Span  Span
}

// HasName reports whether the import binds name.
func (i Import) HasName(name string) bool {
	for _, n := range i.Names {
		if n == name {
			return true
		}
	}
	return false
}

// Tree wraps a parsed tree-sitter syntax tree with convenience methods for
// the structural queries route-file editing needs.
type Tree struct {
	tree   *sitter.Tree
	source []byte
}

// Close releases the underlying tree-sitter tree.
func (t *Tree) Close() {
	t.tree.Close()
}

// RootNode returns the root node of the parsed syntax tree.
func (t *Tree) RootNode() *sitter.Node {
	return t.tree.RootNode()
}

// Source returns the parsed source.
func (t *Tree) Source() []byte {
	return t.source
}

// HasErrors reports whether tree-sitter had to recover from syntax errors.
func (t *Tree) HasErrors() bool {
	return t.RootNode().HasError()
}

// Text returns the source text covered by span.
func (t *Tree) Text(s Span) string {
	return string(t.source[s.Start:s.End])
}

// topLevel returns the named children of the program node.
func (t *Tree) topLevel() []*sitter.Node {
	root := t.RootNode()
	var nodes []*sitter.Node
	for i := 0; i < int(root.NamedChildCount()); i++ {
		if child := root.NamedChild(i); child != nil {
			nodes = append(nodes, child)
		}
	}
	return nodes
}

// Imports extracts the top-level import statements in source order.
func (t *Tree) Imports() []Import {
	var imports []Import
	for _, node := range t.topLevel() {
		if node.Type() != "import_statement" {
			continue
		}
		imports = append(imports, t.importOf(node))
	}
	return imports
}

func (t *Tree) importOf(node *sitter.Node) Import {
	imp := Import{Span: spanOf(node)}
	if src := node.ChildByFieldName("source"); src != nil {
		imp.Source = unquoteJS(src.Content(t.source))
	}
	walk(node, func(n *sitter.Node) {
		switch n.Type() {
		case "import_specifier":
			name := n.ChildByFieldName("alias")
			if name == nil {
				name = n.ChildByFieldName("name")
			}
			if name != nil {
				imp.Names = append(imp.Names, name.Content(t.source))
			}
		case "import_clause":
			// Default import: a bare identifier directly under the clause.
			for i := 0; i < int(n.NamedChildCount()); i++ {
				if c := n.NamedChild(i); c != nil && c.Type() == "identifier" {
					imp.Names = append(imp.Names, c.Content(t.source))
				}
			}
		case "namespace_import":
			for i := 0; i < int(n.NamedChildCount()); i++ {
				if c := n.NamedChild(i); c != nil && c.Type() == "identifier" {
					imp.Names = append(imp.Names, c.Content(t.source))
				}
			}
		}
	})
	return imp
}

// FindImport returns the first top-level import of name from source.
func (t *Tree) FindImport(source, name string) (Import, bool) {
	for _, imp := range t.Imports() {
		if imp.Source == source && imp.HasName(name) {
			return imp, true
		}
	}
	return Import{}, false
}

// LeadingImportsEnd returns the end of the last import statement in the
// leading run of imports. Comments and directive prologue strings may appear
// before or between imports; any other statement ends the run.
func (t *Tree) LeadingImportsEnd() (Span, bool) {
	var last *sitter.Node
	for _, node := range t.topLevel() {
		if node.Type() == "comment" {
			continue
		}
		if node.Type() == "import_statement" {
			last = node
			continue
		}
		if last == nil && isDirective(node) {
			continue
		}
		break
	}
	if last == nil {
		return Span{}, false
	}
	return spanOf(last), true
}

// PrologueEnd returns the end of the last directive ("use client",
// "use server") at the top of the file, or false when there is none.
func (t *Tree) PrologueEnd() (Span, bool) {
	var last *sitter.Node
	for _, node := range t.topLevel() {
		if node.Type() == "comment" {
			continue
		}
		if !isDirective(node) {
			break
		}
		last = node
	}
	if last == nil {
		return Span{}, false
	}
	return spanOf(last), true
}

func isDirective(node *sitter.Node) bool {
	if node.Type() != "expression_statement" {
		return false
	}
	child := node.NamedChild(0)
	return child != nil && child.Type() == "string"
}

// ExportedConst returns the span of the top-level `export const <name>`
// statement, including its terminating semicolon when present.
func (t *Tree) ExportedConst(name string) (Span, bool) {
	for _, node := range t.topLevel() {
		if node.Type() != "export_statement" {
			continue
		}
		decl := node.ChildByFieldName("declaration")
		if !isConstDeclaration(decl) {
			continue
		}
		for _, n := range t.declaratorNames(decl) {
			if n == name {
				return spanOf(node), true
			}
		}
	}
	return Span{}, false
}

// DeclarationAnchor returns the first top-level export that starts the
// module body: a default export, a function export, or a const export that
// does not declare skipConst. The span is widened to cover comments attached
// directly above the export.
func (t *Tree) DeclarationAnchor(skipConst string) (Span, bool) {
	for _, node := range t.topLevel() {
		if node.Type() != "export_statement" || !t.isAnchor(node, skipConst) {
			continue
		}
		s := spanOf(node)
		for prev := node.PrevNamedSibling(); prev != nil && prev.Type() == "comment"; prev = prev.PrevNamedSibling() {
			if int(prev.EndPoint().Row)+1 < s.StartLine-1 || !startsLine(t.source, int(prev.StartByte())) {
				break
			}
			s.Start = int(prev.StartByte())
			s.StartLine = int(prev.StartPoint().Row) + 1
		}
		return s, true
	}
	return Span{}, false
}

func (t *Tree) isAnchor(node *sitter.Node, skipConst string) bool {
	for i := 0; i < int(node.ChildCount()); i++ {
		if c := node.Child(i); c != nil && c.Type() == "default" {
			return true
		}
	}
	decl := node.ChildByFieldName("declaration")
	if decl == nil {
		return false
	}
	switch decl.Type() {
	case "function_declaration", "generator_function_declaration":
		return true
	}
	if !isConstDeclaration(decl) {
		return false
	}
	for _, n := range t.declaratorNames(decl) {
		if n == skipConst {
			return false
		}
	}
	return true
}

func isConstDeclaration(decl *sitter.Node) bool {
	if decl == nil || decl.Type() != "lexical_declaration" {
		return false
	}
	kind := decl.Child(0)
	return kind != nil && kind.Type() == "const"
}

func (t *Tree) declaratorNames(decl *sitter.Node) []string {
	var names []string
	for i := 0; i < int(decl.NamedChildCount()); i++ {
		d := decl.NamedChild(i)
		if d == nil || d.Type() != "variable_declarator" {
			continue
		}
		if name := d.ChildByFieldName("name"); name != nil {
			names = append(names, name.Content(t.source))
		}
	}
	return names
}

// JSXOpeningTag returns the first JSX opening element named tag, in
// document order.
func (t *Tree) JSXOpeningTag(tag string) (Span, bool) {
	var found *sitter.Node
	walk(t.RootNode(), func(n *sitter.Node) {
		if found != nil || n.Type() != "jsx_opening_element" {
			return
		}
		if name := n.ChildByFieldName("name"); name != nil && name.Content(t.source) == tag {
			found = n
		}
	})
	if found == nil {
		return Span{}, false
	}
	return spanOf(found), true
}

// startsLine reports whether only indentation precedes offset on its line.
func startsLine(source []byte, offset int) bool {
	for i := offset - 1; i >= 0; i-- {
		switch source[i] {
		case '\n':
			return true
		case ' ', '\t':
			continue
		default:
			return false
		}
	}
	return true
}

// walk performs a depth-first traversal of the syntax tree, calling fn for each node.
func walk(node *sitter.Node, fn func(*sitter.Node)) {
	if node == nil {
		return
	}
	fn(node)
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child != nil {
			walk(child, fn)
		}
	}
}
