package parser

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/blauwers/receiptd/internal/document"
)

// MarkdownDecoder maps Markdown onto receipt actions: headings become
// centered emphasis blocks, paragraphs become text lines, thematic breaks
// become blank lines. Inline structure beyond a fully-emphasized paragraph
// flattens to plain text.
type MarkdownDecoder struct{}

func (d *MarkdownDecoder) Parse(r io.Reader) (*document.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read markdown: %w", err)
	}

	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(src))

	var nodes []document.Node
	var title string
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			txt := nodeText(node, src)
			if txt == "" {
				continue
			}
			if title == "" {
				title = txt
			}
			nodes = append(nodes, heading(node.Level, txt))
		case *ast.ThematicBreak:
			nodes = append(nodes, document.Leaf{Name: "newline"})
		case *ast.List:
			nodes = append(nodes, listItems(node, src)...)
		case *ast.FencedCodeBlock:
			nodes = append(nodes, codeLines(node, src)...)
		case *ast.CodeBlock:
			nodes = append(nodes, codeLines(node, src)...)
		case *ast.Paragraph:
			nodes = append(nodes, paragraph(node, src)...)
		default:
			if txt := nodeText(n, src); txt != "" {
				nodes = append(nodes, textLines(txt)...)
			}
		}
	}

	var meta map[string]any
	if title != "" {
		meta = map[string]any{"title": title}
	}
	return &document.Document{Meta: meta, Contents: nodes}, nil
}

// heading maps heading levels onto receipt emphasis: top levels get the
// big centered treatment, the rest just bold.
func heading(level int, txt string) document.Node {
	line := document.Leaf{Name: "println", Payload: txt}
	switch level {
	case 1:
		return document.Block{Name: "center", Children: []document.Node{
			document.Block{Name: "double_size", Children: []document.Node{line}},
		}}
	case 2:
		return document.Block{Name: "center", Children: []document.Node{
			document.Block{Name: "double_height", Children: []document.Node{line}},
		}}
	default:
		return document.Block{Name: "bold", Children: []document.Node{line}}
	}
}

func paragraph(p *ast.Paragraph, src []byte) []document.Node {
	txt := nodeText(p, src)
	if txt == "" {
		return nil
	}
	lines := textLines(txt)
	// A paragraph that is one emphasis span end to end prints bold.
	if p.ChildCount() == 1 {
		if _, ok := p.FirstChild().(*ast.Emphasis); ok {
			return []document.Node{document.Block{Name: "bold", Children: lines}}
		}
	}
	return lines
}

func listItems(l *ast.List, src []byte) []document.Node {
	var nodes []document.Node
	for item := l.FirstChild(); item != nil; item = item.NextSibling() {
		txt := strings.Join(strings.Fields(nodeText(item, src)), " ")
		if txt == "" {
			continue
		}
		nodes = append(nodes, document.Leaf{Name: "println", Payload: "- " + txt})
	}
	return nodes
}

// codeLines keeps code blocks line for line, leading whitespace intact, so
// preformatted receipt layouts survive.
func codeLines(n ast.Node, src []byte) []document.Node {
	var nodes []document.Node
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		line := strings.TrimRight(string(seg.Value(src)), "\n")
		nodes = append(nodes, document.Leaf{Name: "println", Payload: line})
	}
	return nodes
}

// textLines splits extracted text on line breaks, one println per line.
func textLines(txt string) []document.Node {
	var nodes []document.Node
	for _, line := range strings.Split(txt, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		nodes = append(nodes, document.Leaf{Name: "println", Payload: line})
	}
	return nodes
}

// nodeText collects the inline text under a node, preserving soft and hard
// line breaks.
func nodeText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if t, ok := c.(*ast.Text); ok {
				buf.Write(t.Value(src))
				if t.SoftLineBreak() || t.HardLineBreak() {
					buf.WriteByte('\n')
				}
				continue
			}
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(buf.String())
}
