// Package dmm implements the acquisition session for the TP8236 multimeter:
// one serial transport, one background acquisition loop, and a bounded
// history of captured frames, exposed through open/close/read.
package dmm

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rolfnbl/tp8236/internal/frame"
	"github.com/rolfnbl/tp8236/internal/history"
	"github.com/rolfnbl/tp8236/internal/serialport"
)

// DefaultName tags measurements from sessions that were not given a name.
const DefaultName = "TP8236"

// Option configures a Session at construction.
type Option func(*Session)

// WithName sets the device display name attached to every measurement.
func WithName(name string) Option {
	return func(s *Session) { s.name = name }
}

// WithDepth sets the history buffer capacity.
func WithDepth(depth int) Option {
	return func(s *Session) { s.depth = depth }
}

// WithPollInterval sets the acquisition loop's poll interval.
func WithPollInterval(d time.Duration) Option {
	return func(s *Session) { s.poll = d }
}

// WithLogf injects the session's diagnostic logger. The default discards
// everything; logging is per-session configuration, not global state.
func WithLogf(logf func(format string, v ...any)) Option {
	return func(s *Session) {
		if logf != nil {
			s.logf = logf
		}
	}
}

// Session owns a transport handle, the acquisition loop feeding from it, and
// the history buffer the loop fills. Multiple sessions run concurrently,
// one per meter. All methods are safe for concurrent use.
type Session struct {
	name    string
	logf    func(format string, v ...any)
	decoder *frame.Decoder
	depth   int
	poll    time.Duration

	mu      sync.Mutex
	port    serialport.Porter
	history *history.Buffer
	done    chan struct{}
	id      string
}

// NewSession creates an unopened session.
func NewSession(opts ...Option) *Session {
	s := &Session{
		name:    DefaultName,
		logf:    func(string, ...any) {},
		decoder: frame.NewDecoder(),
		depth:   history.DefaultDepth,
		poll:    DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the device display name.
func (s *Session) Name() string {
	return s.name
}

// Open binds the session to an already-open transport and starts the
// acquisition loop. If a transport is open, it is closed first and the prior
// loop is waited on before the new one starts, so two loops never touch the
// same state.
func (s *Session) Open(port serialport.Porter) {
	s.mu.Lock()
	if s.port != nil {
		if err := s.port.Close(); err != nil {
			s.logf("session %s: closing previous transport: %v", s.id, err)
		}
		s.port = nil
	}
	prev := s.done
	s.mu.Unlock()

	if prev != nil {
		<-prev
	}

	s.mu.Lock()
	s.port = port
	s.history = history.New(s.depth)
	s.done = make(chan struct{})
	s.id = uuid.NewString()
	go s.acquire(port, s.history, s.done)
	s.mu.Unlock()

	s.logf("session %s: acquisition started for %s", s.id, s.name)
}

// OpenPath opens the serial port at path with the given options and starts
// the session on it. Open failures come back as a TransportError.
func (s *Session) OpenPath(path string, opts serialport.PortOptions) error {
	port, err := serialport.Open(path, opts)
	if err != nil {
		return &TransportError{Op: "open", Err: err}
	}
	s.Open(port)
	s.logf("session %s: opened %s", s.id, path)
	return nil
}

// Close closes the transport. It does not wait for the acquisition loop,
// which observes the closure on its next poll and exits within one poll
// interval.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.port == nil {
		return nil
	}
	err := s.port.Close()
	s.port = nil
	if err != nil {
		return &TransportError{Op: "close", Err: err}
	}
	return nil
}

// Done returns a channel closed when the current acquisition loop has
// terminated, or nil if the session was never opened.
func (s *Session) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// Read drains the history buffer and returns the most recent buffered
// measurement. It never waits for new data: an empty buffer yields a nil
// measurement and no error. Frames queued behind the newest one are
// discarded undecoded.
func (s *Session) Read() (*frame.Measurement, error) {
	s.mu.Lock()
	hist := s.history
	s.mu.Unlock()
	if hist == nil {
		return nil, nil
	}
	raw, ok := hist.DrainLatest()
	if !ok {
		return nil, nil
	}
	return s.decode(raw)
}

// ReadFrame decodes a caller-supplied frame directly, bypassing the history
// buffer. It needs no live transport, which makes decoding deterministic to
// test.
func (s *Session) ReadFrame(raw frame.RawFrame) (*frame.Measurement, error) {
	return s.decode(raw)
}

func (s *Session) decode(raw frame.RawFrame) (*frame.Measurement, error) {
	m, err := s.decoder.Decode(raw)
	if err != nil {
		return nil, err
	}
	m.Device = s.name
	return m, nil
}
