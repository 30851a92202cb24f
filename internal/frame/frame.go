// Package frame implements the TP8236 wire format: a continuous stream of
// fixed 22-byte frames, each opening with a 2-byte sync marker, carrying the
// meter's LCD state as a seven-segment-plus-icon bitmap. The package covers
// both halves of the protocol: resynchronising to frame boundaries within an
// unaligned byte stream (Synchronizer) and turning an aligned frame into a
// structured measurement (Decoder).
package frame

import "time"

const (
	// Size is the fixed frame length in bytes, sync marker included.
	Size = 22

	// SyncByte0 and SyncByte1 form the marker at the start of every frame.
	SyncByte0 = 0xAA
	SyncByte1 = 0x55
)

// referenceMask is the expected frame content once every recognised field has
// cleared its bits during decoding. Indices 0-1 hold the sync marker and
// indices 2-5 the meter's fixed header; everything else must decode to zero.
// The protocol carries no checksum, so this byte-for-byte comparison is its
// only error detection.
var referenceMask = [Size]byte{0xAA, 0x55, 0x52, 0x24, 0x01, 0x10}

// segments maps a seven-segment bit pattern (EGFDCBA ordering) to the glyph
// it lights up. 'L' is the only alphabetic glyph, used for the "O.L"
// overflow indication.
var segments = map[byte]byte{
	0x5F: '0',
	0x06: '1',
	0x6B: '2',
	0x2F: '3',
	0x36: '4',
	0x3D: '5',
	0x7D: '6',
	0x07: '7',
	0x7F: '8',
	0x3F: '9',
	0x00: ' ',
	0x58: 'L',
}

// RawFrame is a single frame sliced out of the byte stream. The first two
// bytes of Data equal the sync marker at the moment of extraction; the rest
// is unvalidated until decode.
type RawFrame struct {
	Data      [Size]byte
	Timestamp time.Time
}

// Reference returns the all-clear frame: sync marker and fixed header
// present, no digit or icon bits set. It decodes to a blank display with no
// value, unit or flags, and is the base to build test and simulator frames
// from.
func Reference() [Size]byte {
	return referenceMask
}
