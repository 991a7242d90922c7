// Package parser decodes incoming documents into the content tree the
// interpreter executes. One decoder per supported encoding; JSON and YAML
// carry the native wire form, the rest are convenience inputs.
package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/blauwers/receiptd/internal/document"
)

// Parser converts raw document bytes into a content tree.
type Parser interface {
	Parse(r io.Reader) (*document.Document, error)
}

// ForContentType returns the decoder for a MIME content type. Parameters
// ("; charset=...") are ignored.
func ForContentType(contentType string) (Parser, error) {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	switch ct {
	case "application/json", "text/json":
		return &JSONDecoder{}, nil
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
		return &YAMLDecoder{}, nil
	case "text/markdown":
		return &MarkdownDecoder{}, nil
	case "text/html":
		return &HTMLDecoder{}, nil
	case "text/csv":
		return &CSVDecoder{}, nil
	default:
		return nil, fmt.Errorf("unsupported content type: %q", contentType)
	}
}

// ForFile returns the decoder matching a filename's extension.
func ForFile(filename string) (Parser, error) {
	ct, err := ContentTypeForFile(filename)
	if err != nil {
		return nil, err
	}
	return ForContentType(ct)
}

// ContentTypeForFile maps a filename's extension to the content type the
// service accepts for it.
func ContentTypeForFile(filename string) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return "application/json", nil
	case ".yaml", ".yml":
		return "application/yaml", nil
	case ".md", ".markdown":
		return "text/markdown", nil
	case ".html", ".htm":
		return "text/html", nil
	case ".csv":
		return "text/csv", nil
	default:
		return "", fmt.Errorf("unsupported file extension: %q", filepath.Ext(filename))
	}
}
