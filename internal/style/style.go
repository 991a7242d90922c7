// Package style models the formatting state of a receipt printer.
//
// Printers of this class take absolute "set style" commands: every attribute
// not named in the command falls back to its device default. To change a
// single attribute while others stay non-default, the caller must track the
// full state and resend all of it. State is that record; Override describes
// the subset of attributes a scoped change touches.
package style

// Font selects one of the device's built-in fonts.
type Font string

const (
	FontA Font = "a"
	FontB Font = "b"
)

// Alignment positions emitted content on the line. The zero value means
// "unset"; drivers treat it as the device default (left).
type Alignment string

const (
	AlignNone   Alignment = ""
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

// Attr is a bit set naming formatting attributes. An Override carries one
// bit per attribute it intends to change.
type Attr uint16

const (
	AttrFont Attr = 1 << iota
	AttrBold
	AttrUnderline
	AttrDoubleHeight
	AttrDoubleWidth
	AttrCustomSize
	AttrWidth
	AttrHeight
	AttrDensity
	AttrInvert
	AttrSmooth
	AttrFlip
	AttrAlign
)

// State holds the complete set of formatting attributes.
type State struct {
	Font         Font      `json:"font"`
	Bold         bool      `json:"bold"`
	Underline    int       `json:"underline"`
	DoubleHeight bool      `json:"double_height"`
	DoubleWidth  bool      `json:"double_width"`
	CustomSize   bool      `json:"custom_size"`
	Width        int       `json:"width"`
	Height       int       `json:"height"`
	Density      int       `json:"density"`
	Invert       bool      `json:"invert"`
	Smooth       bool      `json:"smooth"`
	Flip         bool      `json:"flip"`
	Align        Alignment `json:"align,omitempty"`
}

// Default returns the documented baseline state: font a, everything else
// off, alignment unset.
func Default() State {
	return State{Font: FontA}
}

// Override is a partial state: only the attributes named in Set take
// effect, with their values read from Values.
type Override struct {
	Set    Attr
	Values State
}

// Apply merges an override into the state and returns the result.
// Attributes absent from the override keep their current value; nothing is
// ever reset to its default by omission.
func (s State) Apply(o Override) State {
	out := s
	if o.Set&AttrFont != 0 {
		out.Font = o.Values.Font
	}
	if o.Set&AttrBold != 0 {
		out.Bold = o.Values.Bold
	}
	if o.Set&AttrUnderline != 0 {
		out.Underline = o.Values.Underline
	}
	if o.Set&AttrDoubleHeight != 0 {
		out.DoubleHeight = o.Values.DoubleHeight
	}
	if o.Set&AttrDoubleWidth != 0 {
		out.DoubleWidth = o.Values.DoubleWidth
	}
	if o.Set&AttrCustomSize != 0 {
		out.CustomSize = o.Values.CustomSize
	}
	if o.Set&AttrWidth != 0 {
		out.Width = o.Values.Width
	}
	if o.Set&AttrHeight != 0 {
		out.Height = o.Values.Height
	}
	if o.Set&AttrDensity != 0 {
		out.Density = o.Values.Density
	}
	if o.Set&AttrInvert != 0 {
		out.Invert = o.Values.Invert
	}
	if o.Set&AttrSmooth != 0 {
		out.Smooth = o.Values.Smooth
	}
	if o.Set&AttrFlip != 0 {
		out.Flip = o.Values.Flip
	}
	if o.Set&AttrAlign != 0 {
		out.Align = o.Values.Align
	}
	return out
}

// Extract captures the current values of the given attributes as an
// override, suitable for restoring them later with Apply.
func (s State) Extract(attrs Attr) Override {
	return Override{Set: attrs, Values: s}
}
