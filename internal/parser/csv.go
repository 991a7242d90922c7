package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/blauwers/receiptd/internal/document"
)

// CSVDecoder turns each record into one line item: leading columns joined
// on the left, the final column pushed to the right edge of the paper.
type CSVDecoder struct {
	Width int // Paper width in characters; zero selects the default
}

const defaultCSVWidth = 42

func (d *CSVDecoder) Parse(r io.Reader) (*document.Document, error) {
	width := d.Width
	if width <= 0 {
		width = defaultCSVWidth
	}

	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	nodes := make([]document.Node, 0, len(records))
	for _, record := range records {
		nodes = append(nodes, document.Leaf{
			Name:    "println",
			Payload: formatRecord(record, width),
		})
	}
	return &document.Document{Contents: nodes}, nil
}

// formatRecord lays out one record across the paper width. Two or more
// columns split left/right; overlong rows keep a single separating space.
func formatRecord(cols []string, width int) string {
	switch len(cols) {
	case 0:
		return ""
	case 1:
		return cols[0]
	}
	left := strings.Join(cols[:len(cols)-1], "  ")
	right := cols[len(cols)-1]
	pad := width - utf8.RuneCountInString(left) - utf8.RuneCountInString(right)
	if pad < 1 {
		pad = 1
	}
	return left + strings.Repeat(" ", pad) + right
}
