package dmm

import "fmt"

// TransportError reports a failure opening or reading the underlying serial
// stream. It is propagated to the caller and never retried automatically.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
