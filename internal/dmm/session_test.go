package dmm

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rolfnbl/tp8236/internal/frame"
	"github.com/rolfnbl/tp8236/internal/serialport"
)

func frameBytes(mutate func(d *[frame.Size]byte)) []byte {
	d := frame.Reference()
	if mutate != nil {
		mutate(&d)
	}
	return d[:]
}

func newTestSession(opts ...Option) *Session {
	base := []Option{
		WithName("bench meter"),
		WithPollInterval(time.Millisecond),
	}
	return NewSession(append(base, opts...)...)
}

func TestReadUnopenedSession(t *testing.T) {
	s := newTestSession()
	m, err := s.Read()
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestReadExplicitFrame(t *testing.T) {
	s := newTestSession()

	m, err := s.ReadFrame(frame.RawFrame{Data: frame.Reference()})
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "    ", m.Display)
	assert.Nil(t, m.Value)
	assert.Equal(t, "bench meter", m.Device)
}

func TestReadExplicitFrameDecodeError(t *testing.T) {
	s := newTestSession()

	raw := frame.RawFrame{Data: frame.Reference()}
	raw.Data[19] |= 0x04

	_, err := s.ReadFrame(raw)
	require.Error(t, err)
	var derr *frame.DecodeError
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, 19, derr.Byte)

	// The failure is confined to that frame.
	m, err := s.ReadFrame(frame.RawFrame{Data: frame.Reference()})
	require.NoError(t, err)
	assert.NotNil(t, m)
}

func TestAcquisitionDeliversLatest(t *testing.T) {
	port := serialport.NewTestablePort()
	// Two frames behind line garbage; drain-to-latest must surface the
	// second one.
	stream := append([]byte{0x13, 0x37}, frameBytes(nil)...)
	stream = append(stream, frameBytes(func(d *[frame.Size]byte) {
		d[9] = 0x06 // digit '1'
	})...)
	port.AddReadData(stream)

	s := newTestSession()
	s.Open(port)
	defer s.Close()

	var got *frame.Measurement
	require.Eventually(t, func() bool {
		m, err := s.Read()
		require.NoError(t, err)
		if m != nil && m.Display == "1   " {
			got = m
			return true
		}
		return false
	}, time.Second, 2*time.Millisecond)

	assert.Equal(t, "bench meter", got.Device)
	assert.False(t, got.Timestamp.IsZero())

	// The drain dropped the older frame as well.
	m, err := s.Read()
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestCloseStopsAcquisition(t *testing.T) {
	port := serialport.NewTestablePort()
	s := newTestSession()
	s.Open(port)

	require.NoError(t, s.Close())

	// The loop observes the closed transport on its next poll.
	select {
	case <-s.Done():
	case <-time.After(time.Second):
		t.Fatal("acquisition loop did not stop after Close")
	}
	assert.True(t, port.Closed)
}

func TestOpenReplacesTransport(t *testing.T) {
	first := serialport.NewTestablePort()
	second := serialport.NewTestablePort()
	second.AddReadData(frameBytes(nil))

	s := newTestSession()
	s.Open(first)
	firstDone := s.Done()

	s.Open(second)

	// Open closed the first transport and waited out its loop before
	// starting the new one.
	assert.True(t, first.Closed)
	select {
	case <-firstDone:
	default:
		t.Fatal("previous acquisition loop still running after reopen")
	}

	var got *frame.Measurement
	require.Eventually(t, func() bool {
		m, err := s.Read()
		require.NoError(t, err)
		if m != nil {
			got = m
			return true
		}
		return false
	}, time.Second, 2*time.Millisecond)
	assert.Equal(t, "    ", got.Display)

	require.NoError(t, s.Close())
}

func TestCloseWithoutOpen(t *testing.T) {
	s := newTestSession()
	require.NoError(t, s.Close())
}

func TestOpenPathFailure(t *testing.T) {
	s := newTestSession()
	err := s.OpenPath("/dev/nonexistent-tp8236-test", serialport.PortOptions{})
	require.Error(t, err)
	var terr *TransportError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, "open", terr.Op)
}

func TestSessionLogfReceivesLifecycle(t *testing.T) {
	var mu sync.Mutex
	var lines []string
	s := newTestSession(WithLogf(func(format string, v ...any) {
		mu.Lock()
		defer mu.Unlock()
		lines = append(lines, format)
	}))

	port := serialport.NewTestablePort()
	s.Open(port)
	require.NoError(t, s.Close())
	<-s.Done()

	mu.Lock()
	defer mu.Unlock()
	assert.NotEmpty(t, lines)
}
