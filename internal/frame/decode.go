package frame

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rolfnbl/tp8236/internal/units"
)

// Flags holds the meter's auxiliary LCD indicators, independent of the
// numeric display.
type Flags struct {
	// Diode reports diode test mode.
	Diode bool
	// Beep reports the audible continuity indicator. Detection requires
	// both bits of the 0x60 pair on byte 10 and is unconfirmed in the
	// protocol notes.
	Beep bool
	// Unidentified reports a single-bit indicator at byte 10 bit 0x20
	// whose meaning is unconfirmed. Kept distinct from Beep rather than
	// folded into it.
	Unidentified bool
	// Min, Max and MinMax report the hold modes. MinMax is the combined
	// hold and excludes the other two.
	Min    bool
	Max    bool
	MinMax bool
	// USB reports the logging/USB indicator.
	USB bool
	// AutoRange reports automatic range selection.
	AutoRange bool
	// LowBattery reports the battery warning icon.
	LowBattery bool
	// Bar is the analog bar-graph fill level, 0 to 60 segments.
	Bar int
}

// Measurement is a fully decoded frame.
type Measurement struct {
	// Display is the sign-aware digit string as shown on the LCD: an
	// optional leading '-', four glyphs, and any decimal points. Units and
	// icons are not part of it.
	Display string
	// Value is the parsed, scale-adjusted reading. It is nil when the
	// display is non-numeric, such as the 'L' overflow glyph or a blank
	// display.
	Value *float64
	// Unit is the measured unit ("V", "A", "Ohm", "Hz", "F", "°C", "°F",
	// "%", "hFE"), with an "AC" or "DC" suffix where shown.
	Unit string
	// Scale is the metric prefix multiplier already applied to Value,
	// 1 when no prefix icon was lit.
	Scale float64
	// Flags holds the auxiliary indicators.
	Flags Flags
	// Device is the display name of the meter that produced the frame.
	Device string
	// Timestamp is the frame capture time.
	Timestamp time.Time
	// Raw is the frame the measurement was decoded from.
	Raw [Size]byte
}

// DecodeError reports a frame byte that either matched no known bit pattern
// or retained residual bits after every recognised field was extracted.
type DecodeError struct {
	// Byte is the 0-based index of the offending byte within the frame.
	Byte int
	// Value is the byte's unrecognised content at the point of failure.
	Value byte
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("unrecognized bits in frame at byte %d (0x%02X)", e.Byte, e.Value)
}

// Decoder turns raw frames into measurements. Scales is the metric prefix
// factor table; it is injected rather than hard-coded so the decoder carries
// no lookup policy of its own.
type Decoder struct {
	Scales map[units.Prefix]float64
}

// NewDecoder returns a Decoder backed by the standard prefix factors.
func NewDecoder() *Decoder {
	return &Decoder{Scales: units.Factors}
}

func (d *Decoder) factor(p units.Prefix) float64 {
	if f, ok := d.Scales[p]; ok {
		return f
	}
	return 1
}

// Decode interprets a raw frame. Every recognised field clears the bits it
// consumed from a working copy of the frame; once all fields are extracted
// the copy must match the reference mask byte-for-byte, which is how
// corruption and undocumented indicator bits surface. A failed decode never
// affects later frames.
func (d *Decoder) Decode(raw RawFrame) (*Measurement, error) {
	buf := raw.Data

	var display strings.Builder

	// Sign, shown only when negative.
	if buf[10]&0x08 != 0 {
		display.WriteByte('-')
		buf[10] &^= 0x08
	}

	// Most significant digit, byte 9. It carries no decimal point, so the
	// whole byte must map to a glyph.
	glyph, ok := segments[buf[9]]
	if !ok {
		return nil, &DecodeError{Byte: 9, Value: buf[9]}
	}
	display.WriteByte(glyph)
	buf[9] = 0

	// Remaining digits, bytes 8, 7, 6, each with its own decimal point in
	// bit 0x80, placed ahead of the digit it belongs to.
	for _, idx := range []int{8, 7, 6} {
		if buf[idx]&0x80 != 0 {
			display.WriteByte('.')
			buf[idx] &^= 0x80
		}
		glyph, ok := segments[buf[idx]]
		if !ok {
			return nil, &DecodeError{Byte: idx, Value: buf[idx]}
		}
		display.WriteByte(glyph)
		buf[idx] = 0
	}

	digits := display.String()

	// A non-numeric display (overflow glyph, blanks) is a valid reading
	// with no value, not an error.
	var value *float64
	if v, err := strconv.ParseFloat(strings.TrimSpace(digits), 64); err == nil {
		value = &v
	}

	var unit string
	prefix := units.None

	// Byte 20: temperature units, the n/u/m prefix block, and farad.
	if buf[20]&0x01 != 0 {
		unit = "°C"
		buf[20] &^= 0x01
	}
	if buf[20]&0x02 != 0 {
		unit = "°F"
		buf[20] &^= 0x02
	}
	if buf[20]&0x10 != 0 {
		prefix = units.Milli
		buf[20] &^= 0x10
	}
	if buf[20]&0x20 != 0 {
		prefix = units.Micro
		buf[20] &^= 0x20
	}
	if buf[20]&0x40 != 0 {
		prefix = units.Nano
		buf[20] &^= 0x40
	}
	if buf[20]&0x80 != 0 {
		unit = "F"
		buf[20] &^= 0x80
	}

	// Byte 21: the u/m/A/V and M/k/Ohm/Hz icon blocks.
	if buf[21]&0x01 != 0 {
		prefix = units.Micro
		buf[21] &^= 0x01
	}
	if buf[21]&0x02 != 0 {
		prefix = units.Milli
		buf[21] &^= 0x02
	}
	if buf[21]&0x04 != 0 {
		unit = "A"
		buf[21] &^= 0x04
	}
	if buf[21]&0x08 != 0 {
		unit = "V"
		buf[21] &^= 0x08
	}
	if buf[21]&0x10 != 0 {
		prefix = units.Mega
		buf[21] &^= 0x10
	}
	if buf[21]&0x20 != 0 {
		prefix = units.Kilo
		buf[21] &^= 0x20
	}
	if buf[21]&0x40 != 0 {
		unit = "Ohm"
		buf[21] &^= 0x40
	}
	if buf[21]&0x80 != 0 {
		unit = "Hz"
		buf[21] &^= 0x80
	}

	// AC/DC suffix on byte 10.
	if buf[10]&0x02 != 0 {
		unit += "AC"
		buf[10] &^= 0x02
	}
	if buf[10]&0x04 != 0 {
		unit += "DC"
		buf[10] &^= 0x04
	}

	// Percent and transistor-gain readouts replace whatever unit the icon
	// blocks accumulated.
	if buf[19]&0x40 != 0 {
		unit = "%"
		buf[19] &^= 0x40
	}
	if buf[19]&0x80 != 0 {
		unit = "hFE"
		buf[19] &^= 0x80
	}

	var flags Flags
	if buf[10]&0x01 != 0 {
		flags.Diode = true
		buf[10] &^= 0x01
	}
	// Continuity beeper lights both bits of the pair; a lone 0x20 is the
	// unconfirmed indicator, and a lone 0x40 is left as residue.
	if buf[10]&0x60 == 0x60 {
		flags.Beep = true
		buf[10] &^= 0x60
	} else if buf[10]&0x20 != 0 {
		flags.Unidentified = true
		buf[10] &^= 0x20
	}
	// Hold modes: the combined min-max hold lights all three bits.
	if buf[19]&0x0E == 0x0E {
		flags.MinMax = true
		buf[19] &^= 0x0E
	} else if buf[19]&0x02 != 0 {
		flags.Min = true
		buf[19] &^= 0x02
	} else if buf[19]&0x08 != 0 {
		flags.Max = true
		buf[19] &^= 0x08
	}
	if buf[19]&0x01 != 0 {
		flags.USB = true
		buf[19] &^= 0x01
	}
	if buf[18]&0x20 != 0 {
		flags.AutoRange = true
		buf[18] &^= 0x20
	}
	if buf[10]&0x80 != 0 {
		flags.LowBattery = true
		buf[10] &^= 0x80
	}

	// Bar graph: one bit per segment, eight bits each in bytes 11-17 and
	// the low four bits of byte 18, 60 segments total.
	for idx := 11; idx <= 18; idx++ {
		bits := 8
		if idx == 18 {
			bits = 4
		}
		for b := 0; b < bits; b++ {
			mask := byte(1) << b
			if buf[idx]&mask != 0 {
				flags.Bar++
				buf[idx] &^= mask
			}
		}
	}

	// Completeness check: every bit must be accounted for.
	for idx, b := range buf {
		if b != referenceMask[idx] {
			return nil, &DecodeError{Byte: idx, Value: b}
		}
	}

	scale := d.factor(prefix)
	if value != nil {
		v := *value * scale
		value = &v
	}

	return &Measurement{
		Display:   digits,
		Value:     value,
		Unit:      unit,
		Scale:     scale,
		Flags:     flags,
		Timestamp: raw.Timestamp,
		Raw:       raw.Data,
	}, nil
}
