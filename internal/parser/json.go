package parser

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/blauwers/receiptd/internal/document"
)

// JSONDecoder decodes the native wire form from JSON.
type JSONDecoder struct{}

func (d *JSONDecoder) Parse(r io.Reader) (*document.Document, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var root wireRoot
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	doc, err := root.toDocument()
	if err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return doc, nil
}
