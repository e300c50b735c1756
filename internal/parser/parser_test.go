package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const layoutSource = `import type { Metadata } from 'next';
import { Inter } from 'next/font/google';
import './globals.css';

const inter = Inter({ subsets: ['latin'] });

// RootLayout wraps every page.
export default function RootLayout({ children }: { children: React.ReactNode }) {
  return (
    <html lang="en">
      <head>
      </head>
      <body className={inter.className}>{children}</body>
    </html>
  );
}
`

func parse(t *testing.T, filename, source string) *Tree {
	t.Helper()
	tree, err := NewParser().Parse(filename, []byte(source))
	require.NoError(t, err)
	t.Cleanup(tree.Close)
	return tree
}

func TestParseTSXFile(t *testing.T) {
	tree := parse(t, "layout.tsx", layoutSource)
	assert.NotNil(t, tree.RootNode())
	assert.False(t, tree.HasErrors())
}

func TestParseUnknownExtension(t *testing.T) {
	p := NewParser()
	_, err := p.Parse("file.xyz", []byte(`some content`))
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "unsupported"),
		"error should contain 'unsupported', got: %s", err.Error())
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported("app/page.tsx"))
	assert.True(t, Supported("lib/seo.ts"))
	assert.True(t, Supported("seo.mjs"))
	assert.False(t, Supported("seo.yaml"))
}

func TestImportsExtraction(t *testing.T) {
	tree := parse(t, "page.tsx", `import React, { useState as useS } from 'react';
import * as path from "node:path";
import { seoConfig } from '@/lib/seo';
import './side-effect.css';

export default function Page() { return null; }
`)
	imports := tree.Imports()
	require.Len(t, imports, 4)

	assert.Equal(t, "react", imports[0].Source)
	assert.ElementsMatch(t, []string{"React", "useS"}, imports[0].Names)
	assert.Equal(t, "node:path", imports[1].Source)
	assert.Equal(t, []string{"path"}, imports[1].Names)
	assert.Equal(t, "@/lib/seo", imports[2].Source)
	assert.True(t, imports[2].HasName("seoConfig"))
	assert.Empty(t, imports[3].Names)
	assert.Equal(t, 3, imports[2].Span.StartLine)
}

func TestFindImport(t *testing.T) {
	tree := parse(t, "page.tsx", `import { other } from '@/lib/seo';
import { seoConfig } from "@/lib/seo";
`)
	imp, ok := tree.FindImport("@/lib/seo", "seoConfig")
	require.True(t, ok)
	assert.Equal(t, 2, imp.Span.StartLine)

	_, ok = tree.FindImport("@/lib/seo", "missing")
	assert.False(t, ok)
}

func TestLeadingImportsEnd(t *testing.T) {
	tree := parse(t, "layout.tsx", layoutSource)
	span, ok := tree.LeadingImportsEnd()
	require.True(t, ok)
	assert.Equal(t, 3, span.EndLine)
	assert.Equal(t, "import './globals.css';", tree.Text(span))
}

func TestLeadingImportsEndStopsAtFirstStatement(t *testing.T) {
	tree := parse(t, "page.ts", `"use client";
// header comment
import a from 'a';
const x = 1;
import b from 'b';
`)
	span, ok := tree.LeadingImportsEnd()
	require.True(t, ok)
	assert.Equal(t, 3, span.EndLine)
}

func TestLeadingImportsEndNone(t *testing.T) {
	tree := parse(t, "page.ts", "export default function Page() {}\n")
	_, ok := tree.LeadingImportsEnd()
	assert.False(t, ok)
}

func TestPrologueEnd(t *testing.T) {
	tree := parse(t, "page.tsx", `'use client';

export default function Page() { return null; }
`)
	span, ok := tree.PrologueEnd()
	require.True(t, ok)
	assert.Equal(t, 1, span.EndLine)

	tree = parse(t, "page.tsx", "export default function Page() { return null; }\n")
	_, ok = tree.PrologueEnd()
	assert.False(t, ok)
}

func TestExportedConst(t *testing.T) {
	src := `import type { Metadata } from 'next';

export const metadata: Metadata = {
  title: "x",
};

export const revalidate = 60;
`
	tree := parse(t, "page.tsx", src)
	span, ok := tree.ExportedConst("metadata")
	require.True(t, ok)
	assert.Equal(t, 3, span.StartLine)
	assert.Equal(t, 5, span.EndLine)
	assert.Equal(t, "export const metadata: Metadata = {\n  title: \"x\",\n};", tree.Text(span))

	_, ok = tree.ExportedConst("missing")
	assert.False(t, ok)
}

func TestExportedConstIgnoresLet(t *testing.T) {
	tree := parse(t, "page.ts", "export let metadata = {};\n")
	_, ok := tree.ExportedConst("metadata")
	assert.False(t, ok)
}

func TestDeclarationAnchorDefaultExportWithComment(t *testing.T) {
	tree := parse(t, "layout.tsx", layoutSource)
	span, ok := tree.DeclarationAnchor("metadata")
	require.True(t, ok)
	assert.Equal(t, 7, span.StartLine)
	assert.True(t, strings.HasPrefix(tree.Text(span), "// RootLayout wraps every page."))
}

func TestDeclarationAnchorSkipsMetadataConst(t *testing.T) {
	tree := parse(t, "page.tsx", `export const metadata = { title: "a" };
export const dynamic = "force-static";
export default function Page() { return null; }
`)
	span, ok := tree.DeclarationAnchor("metadata")
	require.True(t, ok)
	assert.Equal(t, 2, span.StartLine)
}

func TestDeclarationAnchorFunctionExport(t *testing.T) {
	tree := parse(t, "page.ts", `import x from 'x';

export async function generateStaticParams() { return []; }
`)
	span, ok := tree.DeclarationAnchor("metadata")
	require.True(t, ok)
	assert.Equal(t, 3, span.StartLine)
}

func TestDeclarationAnchorIgnoresTrailingComment(t *testing.T) {
	tree := parse(t, "page.ts", `import x from 'x'; // trailing
export default function Page() {}
`)
	span, ok := tree.DeclarationAnchor("metadata")
	require.True(t, ok)
	assert.Equal(t, 2, span.StartLine)
	assert.True(t, strings.HasPrefix(tree.Text(span), "export default"))
}

func TestDeclarationAnchorNone(t *testing.T) {
	tree := parse(t, "page.ts", `import x from 'x';
const y = 1;
`)
	_, ok := tree.DeclarationAnchor("metadata")
	assert.False(t, ok)
}

func TestJSXOpeningTag(t *testing.T) {
	tree := parse(t, "layout.tsx", layoutSource)
	span, ok := tree.JSXOpeningTag("head")
	require.True(t, ok)
	assert.Equal(t, "<head>", tree.Text(span))
	assert.Equal(t, 11, span.StartLine)
}

func TestJSXOpeningTagWithAttributes(t *testing.T) {
	tree := parse(t, "layout.tsx", `export default function L() {
  return <html><header /><head lang="en"><title>x</title></head></html>;
}
`)
	span, ok := tree.JSXOpeningTag("head")
	require.True(t, ok)
	assert.Equal(t, `<head lang="en">`, tree.Text(span))
}

func TestJSXOpeningTagMissing(t *testing.T) {
	tree := parse(t, "page.tsx", "export default function P() { return <main />; }\n")
	_, ok := tree.JSXOpeningTag("head")
	assert.False(t, ok)
}
