package interp

import "errors"

// Error kinds surfaced by interpretation. Callers match with errors.Is;
// wrapped errors carry the failing action's name and the cause.
var (
	// ErrUnknownAction reports a node naming no registered action.
	ErrUnknownAction = errors.New("unknown action")
	// ErrShapeMismatch reports a leaf action given children, or a block
	// action given a scalar payload.
	ErrShapeMismatch = errors.New("action shape mismatch")
	// ErrDecode reports an undecodable payload (bad base64, bad bitmap).
	ErrDecode = errors.New("payload decode failed")
	// ErrDriver reports a failed printer driver call.
	ErrDriver = errors.New("driver failure")
)
