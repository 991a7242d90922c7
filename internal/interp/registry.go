package interp

import (
	"context"
	"fmt"
	"sort"

	"github.com/blauwers/receiptd/internal/driver"
	"github.com/blauwers/receiptd/internal/raster"
	"github.com/blauwers/receiptd/internal/style"
)

type kind int

const (
	kindLeaf kind = iota
	kindBlock
)

func (k kind) String() string {
	if k == kindLeaf {
		return "leaf"
	}
	return "block"
}

// emitFunc performs a leaf action's single emit against the driver.
type emitFunc func(ctx context.Context, drv driver.Driver, payload string) error

// handler is one registry entry: either a leaf emit or a block override.
type handler struct {
	kind     kind
	emit     emitFunc       // kindLeaf only
	override style.Override // kindBlock only
	aliasOf  string         // Non-empty for alias entries
}

func leaf(emit emitFunc) handler {
	return handler{kind: kindLeaf, emit: emit}
}

func block(set style.Attr, values style.State) handler {
	return handler{kind: kindBlock, override: style.Override{Set: set, Values: values}}
}

// newRegistry builds the closed action table. The set is fixed at
// construction: the grammar's vocabulary is part of the interpreter's
// contract, not a runtime extension point.
func newRegistry() map[string]handler {
	reg := map[string]handler{
		"println": leaf(emitText),
		"image":   leaf(emitImage),
		"newline": leaf(emitNewline),

		"bold":          block(style.AttrBold, style.State{Bold: true}),
		"underline":     block(style.AttrUnderline, style.State{Underline: 1}),
		"underline2":    block(style.AttrUnderline, style.State{Underline: 2}),
		"center":        block(style.AttrAlign, style.State{Align: style.AlignCenter}),
		"right":         block(style.AttrAlign, style.State{Align: style.AlignRight}),
		"left":          block(style.AttrAlign, style.State{Align: style.AlignLeft}),
		"inverted":      block(style.AttrInvert, style.State{Invert: true}),
		"double_height": block(style.AttrDoubleHeight, style.State{DoubleHeight: true}),
		"double_width":  block(style.AttrDoubleWidth, style.State{DoubleWidth: true}),
		"double_size": block(style.AttrDoubleHeight|style.AttrDoubleWidth,
			style.State{DoubleHeight: true, DoubleWidth: true}),
		"font_b": block(style.AttrFont, style.State{Font: style.FontB}),
		"smooth": block(style.AttrSmooth, style.State{Smooth: true}),
		"flip":   block(style.AttrFlip, style.State{Flip: true}),
	}

	aliases := map[string]string{
		"printline": "println",
		"textline":  "println",
		"b64img":    "image",
		"ln":        "newline",
	}
	for alias, canonical := range aliases {
		h := reg[canonical]
		h.aliasOf = canonical
		reg[alias] = h
	}
	return reg
}

func emitText(ctx context.Context, drv driver.Driver, payload string) error {
	if err := drv.TextLine(ctx, payload); err != nil {
		return fmt.Errorf("%w: %w", ErrDriver, err)
	}
	return nil
}

func emitNewline(ctx context.Context, drv driver.Driver, _ string) error {
	if err := drv.Newline(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrDriver, err)
	}
	return nil
}

func emitImage(ctx context.Context, drv driver.Driver, payload string) error {
	img, err := raster.Decode(payload)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if err := drv.Image(ctx, img); err != nil {
		return fmt.Errorf("%w: %w", ErrDriver, err)
	}
	return nil
}

// ActionInfo describes one registered action for API discovery.
type ActionInfo struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	AliasOf string `json:"alias_of,omitempty"`
}

// Actions lists every registered action name, aliases included, sorted.
func Actions() []ActionInfo {
	reg := newRegistry()
	out := make([]ActionInfo, 0, len(reg))
	for name, h := range reg {
		out = append(out, ActionInfo{Name: name, Kind: h.kind.String(), AliasOf: h.aliasOf})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
