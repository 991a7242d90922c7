// Package interp walks a decoded document tree and drives a printer through
// the driver interface: depth-first, strictly ordered, no buffering.
//
// Formatting blocks are scoped. Entering a block saves the attributes the
// block's override touches, applies the override, and pushes the absolute
// state to the driver; exiting restores exactly those attributes and pushes
// again. The restore runs on every exit path, error included, so a failed
// branch never leaks formatting into whatever prints next.
package interp

import (
	"context"
	"fmt"

	"github.com/blauwers/receiptd/internal/document"
	"github.com/blauwers/receiptd/internal/driver"
	"github.com/blauwers/receiptd/internal/style"
)

// Interpreter executes documents against a single driver. It is not safe
// for concurrent use; the spooler gives each printer lane its own.
type Interpreter struct {
	drv   driver.Driver
	reg   map[string]handler
	state style.State
}

func New(drv driver.Driver) *Interpreter {
	return &Interpreter{
		drv:   drv,
		reg:   newRegistry(),
		state: style.Default(),
	}
}

// Print interprets the whole document: baseline style, contents in order,
// then exactly one cut. The first failing node aborts the run; scopes open
// at that point each restore on the way out.
func (in *Interpreter) Print(ctx context.Context, doc *document.Document) error {
	in.state = style.Default()
	if err := in.drv.SetStyle(ctx, in.state); err != nil {
		return fmt.Errorf("baseline style: %w: %w", ErrDriver, err)
	}
	for _, n := range doc.Contents {
		if err := in.exec(ctx, n); err != nil {
			return err
		}
	}
	if err := in.drv.Cut(ctx); err != nil {
		return fmt.Errorf("cut: %w: %w", ErrDriver, err)
	}
	return nil
}

func (in *Interpreter) exec(ctx context.Context, n document.Node) error {
	switch node := n.(type) {
	case document.Leaf:
		h, ok := in.reg[node.Name]
		if !ok {
			return fmt.Errorf("%q: %w", node.Name, ErrUnknownAction)
		}
		if h.kind != kindLeaf {
			return fmt.Errorf("%q opens a scope and takes children: %w", node.Name, ErrShapeMismatch)
		}
		if err := h.emit(ctx, in.drv, node.Payload); err != nil {
			return fmt.Errorf("%s: %w", node.Name, err)
		}
		return nil
	case document.Block:
		h, ok := in.reg[node.Name]
		if !ok {
			return fmt.Errorf("%q: %w", node.Name, ErrUnknownAction)
		}
		if h.kind != kindBlock {
			return fmt.Errorf("%q takes a payload, not children: %w", node.Name, ErrShapeMismatch)
		}
		return in.withScope(ctx, h.override, func() error {
			for _, child := range node.Children {
				if err := in.exec(ctx, child); err != nil {
					return err
				}
			}
			return nil
		})
	default:
		return fmt.Errorf("unsupported node type %T", n)
	}
}

// withScope runs body inside a formatting scope. The override's attributes
// are saved, applied, and pushed on entry; restored and pushed again on
// exit. In-memory restoration is unconditional. A failed entry push reverts
// memory and skips the body; a failed exit push surfaces only when the body
// itself succeeded, so the body's error always wins.
func (in *Interpreter) withScope(ctx context.Context, ov style.Override, body func() error) (err error) {
	saved := in.state.Extract(ov.Set)
	in.state = in.state.Apply(ov)
	if aerr := in.drv.SetStyle(ctx, in.state); aerr != nil {
		in.state = in.state.Apply(saved)
		return fmt.Errorf("apply style: %w: %w", ErrDriver, aerr)
	}
	defer func() {
		in.state = in.state.Apply(saved)
		if rerr := in.drv.SetStyle(ctx, in.state); rerr != nil && err == nil {
			err = fmt.Errorf("restore style: %w: %w", ErrDriver, rerr)
		}
	}()
	return body()
}
