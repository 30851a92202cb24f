package frame

// Synchronizer locates frame boundaries within an unaligned byte stream. It
// keeps a backlog of bytes across feeds, drops leading bytes until the head
// holds the sync marker, and slices out full frames. Resynchronisation is a
// linear rescan, which is fine at this protocol's data rate of tens of
// frames per second.
//
// A Synchronizer is not safe for concurrent use; the acquisition loop owns
// one exclusively.
type Synchronizer struct {
	backlog []byte
}

// Feed appends bytes to the backlog and returns every full frame now
// available, oldest first. Each returned frame starts with the sync marker
// at the moment of extraction; the remaining 20 bytes are unvalidated, so a
// resynchronisation mistake surfaces only later, at decode time. Frame
// timestamps are left zero for the caller to stamp.
func (s *Synchronizer) Feed(p []byte) []RawFrame {
	s.backlog = append(s.backlog, p...)

	var frames []RawFrame
	for {
		// Resynchronise: discard until the marker leads. A single
		// trailing byte is kept since it may be the marker's first half.
		for len(s.backlog) >= 2 && !(s.backlog[0] == SyncByte0 && s.backlog[1] == SyncByte1) {
			s.backlog = s.backlog[1:]
		}
		if len(s.backlog) < Size {
			if len(s.backlog) == 0 {
				s.backlog = nil
			}
			return frames
		}
		var f RawFrame
		copy(f.Data[:], s.backlog[:Size])
		s.backlog = s.backlog[Size:]
		frames = append(frames, f)
	}
}

// Pending reports how many bytes are buffered awaiting a full frame.
func (s *Synchronizer) Pending() int {
	return len(s.backlog)
}
