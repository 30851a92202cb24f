package dmm

import (
	"time"

	"github.com/rolfnbl/tp8236/internal/frame"
	"github.com/rolfnbl/tp8236/internal/history"
	"github.com/rolfnbl/tp8236/internal/serialport"
)

// DefaultPollInterval is how often the acquisition loop polls the transport.
// At 2400 baud a frame takes ~90ms on the wire, so 50ms keeps the backlog
// short without spinning.
const DefaultPollInterval = 50 * time.Millisecond

// readBufSize comfortably covers a poll interval's worth of traffic plus
// any burst the OS buffered while we slept.
const readBufSize = 512

// acquire is the session's producer goroutine: poll the transport, feed the
// synchronizer, stamp and push every emitted frame. It performs no decoding
// and raises no protocol errors; mis-synced data is invisible here and
// surfaces at decode time. The loop exits once the transport reports closed,
// which is the session's only shutdown mechanism.
func (s *Session) acquire(port serialport.Porter, hist *history.Buffer, done chan struct{}) {
	defer close(done)

	var syn frame.Synchronizer
	buf := make([]byte, readBufSize)
	for {
		n, err := port.Read(buf)
		if err != nil {
			// A closed transport surfaces as a read error; either
			// way there is nothing left to poll.
			s.logf("session %s: transport read ended: %v", s.id, err)
			return
		}
		if n > 0 {
			now := time.Now()
			for _, f := range syn.Feed(buf[:n]) {
				f.Timestamp = now
				hist.Push(f)
			}
		}
		time.Sleep(s.poll)
	}
}
