package driver

import (
	"context"
	"image"

	"github.com/blauwers/receiptd/internal/style"
)

// OpKind identifies one recorded driver primitive.
type OpKind string

const (
	OpStyle   OpKind = "style"
	OpText    OpKind = "text"
	OpNewline OpKind = "newline"
	OpImage   OpKind = "image"
	OpCut     OpKind = "cut"
)

// Op is one recorded driver call with its arguments.
type Op struct {
	Kind  OpKind
	Style style.State // Set for OpStyle
	Text  string      // Set for OpText
	Image image.Image // Set for OpImage
}

// Recorder captures the ordered primitive sequence instead of printing.
// It backs contract tests and dry runs; it never fails.
type Recorder struct {
	ops []Op
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) SetStyle(_ context.Context, s style.State) error {
	r.ops = append(r.ops, Op{Kind: OpStyle, Style: s})
	return nil
}

func (r *Recorder) TextLine(_ context.Context, text string) error {
	r.ops = append(r.ops, Op{Kind: OpText, Text: text})
	return nil
}

func (r *Recorder) Newline(_ context.Context) error {
	r.ops = append(r.ops, Op{Kind: OpNewline})
	return nil
}

func (r *Recorder) Image(_ context.Context, img image.Image) error {
	r.ops = append(r.ops, Op{Kind: OpImage, Image: img})
	return nil
}

func (r *Recorder) Cut(_ context.Context) error {
	r.ops = append(r.ops, Op{Kind: OpCut})
	return nil
}

// Ops returns the recorded sequence in call order.
func (r *Recorder) Ops() []Op {
	out := make([]Op, len(r.ops))
	copy(out, r.ops)
	return out
}

// Count returns how many ops of the given kind were recorded.
func (r *Recorder) Count(kind OpKind) int {
	n := 0
	for _, op := range r.ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}
