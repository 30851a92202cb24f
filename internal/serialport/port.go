// Package serialport abstracts the asynchronous serial link to the meter.
package serialport

import (
	"io"
	"time"
)

// Porter defines the minimal interface needed for the instrument link.
// This abstraction enables unit testing without real serial hardware.
type Porter interface {
	io.ReadWriter
	io.Closer
}

// TimeoutPorter extends Porter with a read timeout, which real serial ports
// implement. A zero timeout makes Read return immediately with whatever is
// buffered, which is how the acquisition loop polls without blocking.
type TimeoutPorter interface {
	Porter
	SetReadTimeout(timeout time.Duration) error
}
