package serialport

import (
	"fmt"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

// Open opens a real serial port at the given path using the provided
// options. The read timeout is set to zero so reads return immediately with
// whatever the OS has buffered, matching the poll-driven acquisition model.
func Open(path string, opts PortOptions) (serial.Port, error) {
	mode, err := opts.SerialMode()
	if err != nil {
		return nil, err
	}

	port, err := serial.Open(path, mode)
	if err != nil {
		return nil, err
	}

	if err := port.SetReadTimeout(0); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to set read timeout: %w", err)
	}

	return port, nil
}

// List enumerates the serial ports visible to the OS, with USB metadata
// where available.
func List() ([]*enumerator.PortDetails, error) {
	return enumerator.GetDetailedPortsList()
}
