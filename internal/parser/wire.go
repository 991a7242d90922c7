package parser

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/blauwers/receiptd/internal/document"
)

// wireRoot is the native document envelope shared by the JSON and YAML
// decoders: optional metadata plus the ordered content list.
type wireRoot struct {
	Meta     map[string]any `json:"meta" yaml:"meta"`
	Contents []any          `json:"contents" yaml:"contents"`
}

func (w wireRoot) toDocument() (*document.Document, error) {
	if w.Contents == nil {
		return nil, fmt.Errorf("missing contents")
	}
	nodes, err := buildNodes(w.Contents)
	if err != nil {
		return nil, err
	}
	return &document.Document{Meta: w.Meta, Contents: nodes}, nil
}

func buildNodes(raw []any) ([]document.Node, error) {
	nodes := make([]document.Node, 0, len(raw))
	for i, entry := range raw {
		n, err := buildNode(entry)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", i+1, err)
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

// buildNode converts one wire entry: a single-entry mapping from action
// name to either a scalar payload (leaf) or a child list (block).
func buildNode(entry any) (document.Node, error) {
	m, ok := entry.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected a mapping, got %T", entry)
	}
	if len(m) != 1 {
		return nil, fmt.Errorf("expected one action per node, got %d keys", len(m))
	}
	for action, payload := range m {
		switch v := payload.(type) {
		case nil:
			return document.Leaf{Name: action}, nil
		case string:
			return document.Leaf{Name: action, Payload: v}, nil
		case bool:
			return document.Leaf{Name: action, Payload: strconv.FormatBool(v)}, nil
		case json.Number:
			return document.Leaf{Name: action, Payload: v.String()}, nil
		case int:
			return document.Leaf{Name: action, Payload: strconv.Itoa(v)}, nil
		case int64:
			return document.Leaf{Name: action, Payload: strconv.FormatInt(v, 10)}, nil
		case uint64:
			return document.Leaf{Name: action, Payload: strconv.FormatUint(v, 10)}, nil
		case float64:
			return document.Leaf{Name: action, Payload: strconv.FormatFloat(v, 'f', -1, 64)}, nil
		case []any:
			children, err := buildNodes(v)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", action, err)
			}
			return document.Block{Name: action, Children: children}, nil
		default:
			return nil, fmt.Errorf("%s: unsupported payload type %T", action, payload)
		}
	}
	return nil, fmt.Errorf("empty node mapping")
}
