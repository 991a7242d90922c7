package parser

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/blauwers/receiptd/internal/document"
)

// YAMLDecoder decodes the native wire form from YAML.
type YAMLDecoder struct{}

func (d *YAMLDecoder) Parse(r io.Reader) (*document.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read yaml: %w", err)
	}
	var root wireRoot
	if err := yaml.Unmarshal(src, &root); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	doc, err := root.toDocument()
	if err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return doc, nil
}
