package driver

import (
	"context"
	"fmt"
	"image"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/blauwers/receiptd/internal/raster"
	"github.com/blauwers/receiptd/internal/style"
)

// dotsPerColumn is the dot width of one font-a character cell. Printer
// widths are configured in columns; rasters are sized in dots.
const dotsPerColumn = 12

// Preview renders the command stream as a monospaced textual receipt. It
// honors alignment and paper width and stands in for a device in dry runs.
type Preview struct {
	width int
	out   io.Writer
	state style.State
}

// NewPreview returns a preview renderer writing to out. width is the paper
// width in characters; zero or negative selects DefaultWidth.
func NewPreview(width int, out io.Writer) *Preview {
	if width <= 0 {
		width = DefaultWidth
	}
	return &Preview{width: width, out: out, state: style.Default()}
}

// Width returns the configured character width.
func (p *Preview) Width() int {
	return p.width
}

func (p *Preview) SetStyle(_ context.Context, s style.State) error {
	p.state = s
	return nil
}

func (p *Preview) TextLine(_ context.Context, text string) error {
	return p.writeLine(p.align(text))
}

func (p *Preview) Newline(_ context.Context) error {
	return p.writeLine("")
}

func (p *Preview) Image(_ context.Context, img image.Image) error {
	b := img.Bounds()
	w, h := raster.FitSize(b.Dx(), b.Dy(), p.width*dotsPerColumn)
	return p.writeLine(p.align(fmt.Sprintf("[image %dx%d]", w, h)))
}

func (p *Preview) Cut(_ context.Context) error {
	n := p.width - 2
	if n < 0 {
		n = 0
	}
	return p.writeLine("8<" + strings.Repeat("-", n))
}

// align pads text to the current alignment within the paper width. Unset
// alignment renders as the device default, left.
func (p *Preview) align(text string) string {
	n := utf8.RuneCountInString(text)
	if n >= p.width {
		return text
	}
	switch p.state.Align {
	case style.AlignCenter:
		return strings.Repeat(" ", (p.width-n)/2) + text
	case style.AlignRight:
		return strings.Repeat(" ", p.width-n) + text
	default:
		return text
	}
}

func (p *Preview) writeLine(line string) error {
	if _, err := io.WriteString(p.out, line+"\n"); err != nil {
		return fmt.Errorf("preview write: %w", err)
	}
	return nil
}
