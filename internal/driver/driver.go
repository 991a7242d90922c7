// Package driver defines the printer capability surface the interpreter
// drives, plus the shipped implementations: a remote HTTP agent client, a
// textual preview renderer, and a recording test double.
//
// Drivers receive absolute style states, never deltas. Byte-level wire
// encoding for the physical device lives in the printer agent, not here.
package driver

import (
	"context"
	"image"

	"github.com/blauwers/receiptd/internal/style"
)

// Driver is the ordered command stream a printed document reduces to.
// Implementations must apply calls in the order received.
type Driver interface {
	// SetStyle pushes the complete formatting state to the device.
	SetStyle(ctx context.Context, s style.State) error
	// TextLine emits one line of text, terminated by a line feed.
	TextLine(ctx context.Context, text string) error
	// Newline emits a blank line feed.
	Newline(ctx context.Context) error
	// Image emits a decoded bitmap.
	Image(ctx context.Context, img image.Image) error
	// Cut feeds and cuts the paper.
	Cut(ctx context.Context) error
}

// DefaultWidth is the character width assumed when a printer's width is not
// configured (80mm paper, font a).
const DefaultWidth = 42
