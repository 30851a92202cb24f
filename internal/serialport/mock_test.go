package serialport

import (
	"errors"
	"testing"
)

func TestTestablePortNonBlockingRead(t *testing.T) {
	p := NewTestablePort()
	buf := make([]byte, 16)

	// An open port with no data behaves like a zero-timeout serial read.
	n, err := p.Read(buf)
	if n != 0 || err != nil {
		t.Fatalf("Read on empty port = (%d, %v), want (0, nil)", n, err)
	}

	p.AddReadData([]byte{0xAA, 0x55, 0x01})
	n, err = p.Read(buf)
	if err != nil {
		t.Fatalf("Read error = %v", err)
	}
	if n != 3 {
		t.Errorf("Read = %d bytes, want 3", n)
	}
}

func TestTestablePortClosedRead(t *testing.T) {
	p := NewTestablePort()
	if err := p.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, err := p.Read(make([]byte, 4)); !errors.Is(err, ErrClosed) {
		t.Errorf("Read after Close = %v, want ErrClosed", err)
	}
}

func TestTestablePortInjectedReadError(t *testing.T) {
	p := NewTestablePort()
	boom := errors.New("boom")
	p.ReadError = boom

	if _, err := p.Read(make([]byte, 4)); !errors.Is(err, boom) {
		t.Errorf("Read = %v, want injected error", err)
	}
	// The injected error fires once.
	if _, err := p.Read(make([]byte, 4)); err != nil {
		t.Errorf("second Read = %v, want nil", err)
	}
}

func TestTestablePortCapturesWrites(t *testing.T) {
	p := NewTestablePort()
	if _, err := p.Write([]byte("hello")); err != nil {
		t.Fatalf("Write error = %v", err)
	}
	if got := string(p.WrittenData()); got != "hello" {
		t.Errorf("WrittenData = %q, want %q", got, "hello")
	}
}
