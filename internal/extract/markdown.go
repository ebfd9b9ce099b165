package extract

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/araraj1997/Agentic-Form-Analyser/internal/forms"
)

// MarkdownExtractor flattens a Markdown document to plain text through the
// goldmark AST, so formatting characters never leak into field parsing.
// Pipe tables survive as text lines and are picked up by the downstream
// label patterns.
type MarkdownExtractor struct{}

func (e *MarkdownExtractor) Extract(path string) (*Result, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read markdown file: %w", err)
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	var out strings.Builder
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if t := blockText(n, src); t != "" {
			out.WriteString(t)
			out.WriteString("\n")
		}
	}

	return &Result{
		Text: out.String(),
		Kind: forms.FileKindMarkdown,
	}, nil
}

// blockText gets the text content of a goldmark AST node. Nodes with
// children render through their inlines, so emphasis and link markers
// never leak; leaf blocks fall back to their raw source lines. Sibling
// blocks (list items, nested paragraphs) come out newline-separated.
func blockText(n ast.Node, src []byte) string {
	if !n.HasChildren() {
		if n.Type() == ast.TypeBlock {
			var buf bytes.Buffer
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				buf.Write(seg.Value(src))
			}
			return strings.TrimSpace(buf.String())
		}
		return ""
	}

	var parts []string
	var inline bytes.Buffer
	flush := func() {
		if s := strings.TrimSpace(inline.String()); s != "" {
			parts = append(parts, s)
		}
		inline.Reset()
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			inline.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				inline.WriteByte('\n')
			}
			continue
		}
		if c.Type() == ast.TypeBlock {
			flush()
			if s := blockText(c, src); s != "" {
				parts = append(parts, s)
			}
			continue
		}
		inline.WriteString(blockText(c, src))
	}
	flush()
	return strings.Join(parts, "\n")
}
