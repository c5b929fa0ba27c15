package service

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

const defaultSnippetMaxChars = 220

// FormatContent turns a markdown fragment into plain text for display.
// Code blocks and raw HTML are dropped, inline code, links and image alt
// text are kept, and whitespace is collapsed.
func FormatContent(md string) string {
	src := []byte(md)
	root := goldmark.DefaultParser().Parse(text.NewReader(src))

	var buf bytes.Buffer
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock:
			return ast.WalkSkipChildren, nil
		case *ast.RawHTML:
			if entering {
				buf.WriteByte(' ')
			}
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			if entering {
				buf.Write(node.Segment.Value(src))
				if node.SoftLineBreak() || node.HardLineBreak() {
					buf.WriteByte(' ')
				}
			}
		case *ast.String:
			if entering {
				buf.Write(node.Value)
			}
		case *ast.AutoLink:
			if entering {
				buf.Write(node.Label(src))
			}
			return ast.WalkSkipChildren, nil
		}
		if !entering && n.Type() == ast.TypeBlock {
			buf.WriteByte(' ')
		}
		return ast.WalkContinue, nil
	})

	return strings.Join(strings.Fields(buf.String()), " ")
}

// MakeSnippet formats content and truncates it to a display-sized snippet.
func MakeSnippet(content string) string {
	clean := FormatContent(content)
	runes := []rune(clean)
	if len(runes) <= defaultSnippetMaxChars {
		return clean
	}
	return string(runes[:defaultSnippetMaxChars-3]) + "..."
}
