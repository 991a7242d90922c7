// Package document defines the decoded form of a printable document: a tree
// of action nodes the interpreter walks depth-first.
package document

// Document is the root of a decoded document.
type Document struct {
	Meta     map[string]any // Optional free-form metadata (title, source, ...)
	Contents []Node         // Top-level nodes, printed in order
}

// Node is a single entry in the content tree. It is a closed union: the only
// implementations are Leaf and Block.
type Node interface {
	// Action names the registered action this node invokes.
	Action() string

	node()
}

// Leaf invokes a leaf action with a scalar payload, producing one emit.
type Leaf struct {
	Name    string // Action name, e.g. "println"
	Payload string // Scalar argument; empty for payload-less actions
}

// Block invokes a block action: a formatting scope around child nodes.
type Block struct {
	Name     string // Action name, e.g. "bold"
	Children []Node // Interpreted in order inside the scope
}

func (l Leaf) Action() string  { return l.Name }
func (b Block) Action() string { return b.Name }

func (Leaf) node()  {}
func (Block) node() {}

// Title returns the document's title from metadata, or the fallback.
func (d *Document) Title(fallback string) string {
	if d == nil || d.Meta == nil {
		return fallback
	}
	if t, ok := d.Meta["title"].(string); ok && t != "" {
		return t
	}
	return fallback
}
