package buffer

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfBounds reports a position, range or index outside the document.
	ErrOutOfBounds = errors.New("out of bounds")
	// ErrReentrant reports a mutation attempted while another one is being
	// applied, typically from inside a change subscriber.
	ErrReentrant = errors.New("mutation while applying")
)

// PreconditionError is the panic value raised when a caller passes arguments
// that violate an operation's contract. It is a caller bug, not a runtime
// condition, so operations never return it.
type PreconditionError struct {
	Op     string
	Err    error
	Detail string
}

func (e *PreconditionError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("buffer: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("buffer: %s: %v: %s", e.Op, e.Err, e.Detail)
}

func (e *PreconditionError) Unwrap() error { return e.Err }

func precondition(op string, err error, format string, args ...any) {
	panic(&PreconditionError{Op: op, Err: err, Detail: fmt.Sprintf(format, args...)})
}
