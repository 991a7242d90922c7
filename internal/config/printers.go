package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Printer modes accepted by the inventory file.
const (
	ModeRemote  = "remote"
	ModePreview = "preview"
)

// Printer is one entry in the inventory file. Width 0 means the
// driver's default column count.
type Printer struct {
	Name   string `yaml:"name"`
	Mode   string `yaml:"mode"`
	URL    string `yaml:"url"`
	APIKey string `yaml:"api_key"`
	Width  int    `yaml:"width"`
}

type printersFile struct {
	Printers []Printer `yaml:"printers"`
}

// LoadPrinters reads and validates the printer inventory at path.
// Mode defaults to remote when omitted.
func LoadPrinters(path string) ([]Printer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read printers file: %w", err)
	}

	var f printersFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse printers file: %w", err)
	}
	if len(f.Printers) == 0 {
		return nil, fmt.Errorf("printers file %s lists no printers", path)
	}

	seen := make(map[string]bool, len(f.Printers))
	for i := range f.Printers {
		p := &f.Printers[i]
		if p.Name == "" {
			return nil, fmt.Errorf("printer %d: name is required", i+1)
		}
		if seen[p.Name] {
			return nil, fmt.Errorf("printer %q listed twice", p.Name)
		}
		seen[p.Name] = true

		switch p.Mode {
		case "", ModeRemote:
			p.Mode = ModeRemote
			if p.URL == "" {
				return nil, fmt.Errorf("printer %q: url is required for remote mode", p.Name)
			}
		case ModePreview:
		default:
			return nil, fmt.Errorf("printer %q: unknown mode %q", p.Name, p.Mode)
		}

		if p.Width != 0 && (p.Width < 8 || p.Width > 120) {
			return nil, fmt.Errorf("printer %q: width %d columns is not printable", p.Name, p.Width)
		}
	}

	return f.Printers, nil
}
