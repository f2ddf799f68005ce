package traderesult

import (
	"errors"
	"fmt"
)

// ErrTradeNotFound is returned by Run when Frame 1 resolves nothing.
// Frame1 itself tolerates a missing trade and reports Found == 0.
var ErrTradeNotFound = errors.New("trade not found")

// FrameError identifies which frame failed and which statement it was
// executing. Frames report the first failure and stop; they never retry.
type FrameError struct {
	Frame int
	Stmt  string
	Err   error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("trade result frame %d: %s: %v", e.Frame, e.Stmt, e.Err)
}

func (e *FrameError) Unwrap() error {
	return e.Err
}

func frameErr(frame int, stmt string, err error) error {
	return &FrameError{Frame: frame, Stmt: stmt, Err: err}
}
