package parser

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/blauwers/receiptd/internal/document"
)

// HTMLDecoder handles simple receipt markup: <b>/<strong>, <u>, <center>,
// <br>, and <img> with a data URI source. Unknown elements pass through to
// their children; script and style subtrees are dropped.
type HTMLDecoder struct{}

func (d *HTMLDecoder) Parse(r io.Reader) (*document.Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	scope := root
	if body := findBody(root); body != nil {
		scope = body
	}
	nodes, err := htmlNodes(scope)
	if err != nil {
		return nil, err
	}

	var meta map[string]any
	if title := findTitle(root); title != "" {
		meta = map[string]any{"title": title}
	}
	return &document.Document{Meta: meta, Contents: nodes}, nil
}

func htmlNodes(n *html.Node) ([]document.Node, error) {
	var nodes []document.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			if txt := collapseSpace(c.Data); txt != "" {
				nodes = append(nodes, document.Leaf{Name: "println", Payload: txt})
			}
		case html.ElementNode:
			switch c.Data {
			case "script", "style":
				continue
			case "br":
				nodes = append(nodes, document.Leaf{Name: "newline"})
			case "img":
				src := attr(c, "src")
				if !strings.HasPrefix(src, "data:") {
					return nil, fmt.Errorf("img: only data URI sources are printable, got %q", src)
				}
				nodes = append(nodes, document.Leaf{Name: "image", Payload: src})
			case "b", "strong":
				block, err := htmlBlock("bold", c)
				if err != nil {
					return nil, err
				}
				nodes = append(nodes, block)
			case "u":
				block, err := htmlBlock("underline", c)
				if err != nil {
					return nil, err
				}
				nodes = append(nodes, block)
			case "center":
				block, err := htmlBlock("center", c)
				if err != nil {
					return nil, err
				}
				nodes = append(nodes, block)
			default:
				children, err := htmlNodes(c)
				if err != nil {
					return nil, err
				}
				nodes = append(nodes, children...)
			}
		}
	}
	return nodes, nil
}

func htmlBlock(action string, n *html.Node) (document.Node, error) {
	children, err := htmlNodes(n)
	if err != nil {
		return nil, err
	}
	return document.Block{Name: action, Children: children}, nil
}

// collapseSpace trims and squeezes whitespace runs, the way HTML rendering
// would.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		var buf strings.Builder
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				buf.WriteString(c.Data)
			}
		}
		return strings.TrimSpace(buf.String())
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
