package parser

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
)

// Literal evaluation covers the subset of JavaScript expressions a static
// configuration file is written in: objects, arrays, strings, template
// strings, numbers, booleans, null, references to top-level constants and
// spreads of those. Anything else is reported and skipped.

// NewArgument returns the first argument of the first `new <class>(...)`
// expression in the tree.
func (t *Tree) NewArgument(class string) (*sitter.Node, bool) {
	var found *sitter.Node
	walk(t.RootNode(), func(n *sitter.Node) {
		if found != nil || n.Type() != "new_expression" {
			return
		}
		ctor := n.ChildByFieldName("constructor")
		if ctor == nil || ctor.Content(t.source) != class {
			return
		}
		args := n.ChildByFieldName("arguments")
		if args == nil {
			return
		}
		for i := 0; i < int(args.NamedChildCount()); i++ {
			if a := args.NamedChild(i); a != nil && a.Type() != "comment" {
				found = a
				return
			}
		}
	})
	return found, found != nil
}

// DefaultExport returns the expression exported with `export default`.
func (t *Tree) DefaultExport() (*sitter.Node, bool) {
	for _, node := range t.topLevel() {
		if node.Type() != "export_statement" {
			continue
		}
		isDefault := false
		for i := 0; i < int(node.ChildCount()); i++ {
			if c := node.Child(i); c != nil && c.Type() == "default" {
				isDefault = true
			}
		}
		if !isDefault {
			continue
		}
		if v := node.ChildByFieldName("value"); v != nil {
			return v, true
		}
		for i := 0; i < int(node.NamedChildCount()); i++ {
			if c := node.NamedChild(i); c != nil && c.Type() != "comment" {
				return c, true
			}
		}
	}
	return nil, false
}

// Evaluator computes literal values from expression nodes of one tree.
type Evaluator struct {
	tree     *Tree
	bindings map[string]*sitter.Node
	visiting map[string]bool
	warnings []string
}

// NewEvaluator indexes the tree's top-level const bindings.
func (t *Tree) NewEvaluator() *Evaluator {
	e := &Evaluator{
		tree:     t,
		bindings: make(map[string]*sitter.Node),
		visiting: make(map[string]bool),
	}
	for _, node := range t.topLevel() {
		decl := node
		if node.Type() == "export_statement" {
			decl = node.ChildByFieldName("declaration")
		}
		if !isConstDeclaration(decl) {
			continue
		}
		for i := 0; i < int(decl.NamedChildCount()); i++ {
			d := decl.NamedChild(i)
			if d == nil || d.Type() != "variable_declarator" {
				continue
			}
			name, value := d.ChildByFieldName("name"), d.ChildByFieldName("value")
			if name != nil && value != nil && name.Type() == "identifier" {
				e.bindings[name.Content(t.source)] = value
			}
		}
	}
	return e
}

// Warnings returns the expressions that could not be evaluated.
func (e *Evaluator) Warnings() []string {
	return e.warnings
}

func (e *Evaluator) warnf(n *sitter.Node, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	e.warnings = append(e.warnings, fmt.Sprintf("line %d: %s", int(n.StartPoint().Row)+1, msg))
}

// Eval returns the literal value of n. ok is false when the expression is
// not statically known.
func (e *Evaluator) Eval(n *sitter.Node) (v any, ok bool) {
	src := e.tree.source
	switch n.Type() {
	case "object":
		return e.evalObject(n), true
	case "array":
		return e.evalArray(n), true
	case "string":
		return unquoteJS(n.Content(src)), true
	case "template_string":
		return e.evalTemplate(n)
	case "number":
		return parseNumber(n.Content(src))
	case "true":
		return true, true
	case "false":
		return false, true
	case "null", "undefined":
		return nil, true
	case "unary_expression":
		op := n.ChildByFieldName("operator")
		arg := n.ChildByFieldName("argument")
		if op == nil || arg == nil {
			break
		}
		val, ok := e.Eval(arg)
		if !ok {
			return nil, false
		}
		switch op.Type() {
		case "-":
			switch x := val.(type) {
			case int:
				return -x, true
			case float64:
				return -x, true
			}
		case "!":
			if b, isBool := val.(bool); isBool {
				return !b, true
			}
		}
	case "parenthesized_expression", "as_expression", "satisfies_expression", "non_null_expression":
		if inner := n.NamedChild(0); inner != nil {
			return e.Eval(inner)
		}
	case "identifier":
		return e.resolve(n)
	}
	e.warnf(n, "unsupported expression %s: %s", n.Type(), truncate(n.Content(src), 40))
	return nil, false
}

func (e *Evaluator) resolve(n *sitter.Node) (any, bool) {
	name := n.Content(e.tree.source)
	if name == "undefined" {
		return nil, true
	}
	value, ok := e.bindings[name]
	if !ok {
		e.warnf(n, "unresolved identifier %s", name)
		return nil, false
	}
	if e.visiting[name] {
		e.warnf(n, "circular reference to %s", name)
		return nil, false
	}
	e.visiting[name] = true
	defer delete(e.visiting, name)
	return e.Eval(value)
}

func (e *Evaluator) evalObject(n *sitter.Node) map[string]any {
	src := e.tree.source
	out := make(map[string]any)
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "comment":
		case "pair":
			keyNode, valNode := child.ChildByFieldName("key"), child.ChildByFieldName("value")
			if keyNode == nil || valNode == nil {
				continue
			}
			key, ok := e.propertyKey(keyNode)
			if !ok {
				continue
			}
			if val, ok := e.Eval(valNode); ok {
				out[key] = val
			}
		case "shorthand_property_identifier":
			name := child.Content(src)
			if val, ok := e.resolve(child); ok {
				out[name] = val
			}
		case "spread_element":
			inner := child.NamedChild(0)
			if inner == nil {
				continue
			}
			val, ok := e.Eval(inner)
			if !ok {
				continue
			}
			if m, isMap := val.(map[string]any); isMap {
				for k, v := range m {
					out[k] = v
				}
			} else {
				e.warnf(child, "spread of non-object value")
			}
		default:
			e.warnf(child, "unsupported object member %s", child.Type())
		}
	}
	return out
}

func (e *Evaluator) propertyKey(n *sitter.Node) (string, bool) {
	src := e.tree.source
	switch n.Type() {
	case "property_identifier", "number":
		return n.Content(src), true
	case "string":
		return unquoteJS(n.Content(src)), true
	case "computed_property_name":
		if inner := n.NamedChild(0); inner != nil {
			if v, ok := e.Eval(inner); ok {
				if s, isString := v.(string); isString {
					return s, true
				}
			}
		}
	}
	e.warnf(n, "unsupported property key %s", truncate(n.Content(src), 40))
	return "", false
}

func (e *Evaluator) evalArray(n *sitter.Node) []any {
	out := make([]any, 0, n.NamedChildCount())
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child == nil || child.Type() == "comment" {
			continue
		}
		if child.Type() == "spread_element" {
			inner := child.NamedChild(0)
			if inner == nil {
				continue
			}
			if val, ok := e.Eval(inner); ok {
				if arr, isArr := val.([]any); isArr {
					out = append(out, arr...)
				}
			}
			continue
		}
		if val, ok := e.Eval(child); ok {
			out = append(out, val)
		}
	}
	return out
}

func (e *Evaluator) evalTemplate(n *sitter.Node) (any, bool) {
	src := e.tree.source
	var b strings.Builder
	pos := int(n.StartByte()) + 1
	end := int(n.EndByte()) - 1
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child == nil || child.Type() != "template_substitution" {
			continue
		}
		b.WriteString(unescapeJS(string(src[pos:child.StartByte()])))
		inner := child.NamedChild(0)
		if inner == nil {
			return nil, false
		}
		val, ok := e.Eval(inner)
		if !ok {
			return nil, false
		}
		if val != nil {
			fmt.Fprint(&b, val)
		}
		pos = int(child.EndByte())
	}
	if pos < end {
		b.WriteString(unescapeJS(string(src[pos:end])))
	}
	return b.String(), true
}

func parseNumber(raw string) (any, bool) {
	raw = strings.ReplaceAll(raw, "_", "")
	if i, err := strconv.ParseInt(raw, 0, 64); err == nil {
		return int(i), true
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f, true
	}
	return nil, false
}

// unquoteJS strips the quotes of a JavaScript string literal and decodes its
// escape sequences.
func unquoteJS(raw string) string {
	if len(raw) >= 2 {
		q := raw[0]
		if (q == '"' || q == '\'' || q == '`') && raw[len(raw)-1] == q {
			raw = raw[1 : len(raw)-1]
		}
	}
	return unescapeJS(raw)
}

func unescapeJS(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '0':
			b.WriteByte(0)
		case '\n':
			// line continuation
		case 'x':
			if i+2 < len(s) {
				if v, err := strconv.ParseUint(s[i+1:i+3], 16, 8); err == nil {
					b.WriteRune(rune(v))
					i += 2
					continue
				}
			}
			b.WriteByte('x')
		case 'u':
			r, width := decodeUnicodeEscape(s[i+1:])
			if width == 0 {
				b.WriteByte('u')
				continue
			}
			b.WriteRune(r)
			i += width
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// decodeUnicodeEscape decodes the XXXX or {X...} part of a \u escape and
// returns the number of bytes consumed.
func decodeUnicodeEscape(s string) (rune, int) {
	if strings.HasPrefix(s, "{") {
		end := strings.IndexByte(s, '}')
		if end < 0 {
			return 0, 0
		}
		v, err := strconv.ParseUint(s[1:end], 16, 32)
		if err != nil || !utf8.ValidRune(rune(v)) {
			return 0, 0
		}
		return rune(v), end + 1
	}
	if len(s) < 4 {
		return 0, 0
	}
	v, err := strconv.ParseUint(s[:4], 16, 16)
	if err != nil {
		return 0, 0
	}
	return rune(v), 4
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
