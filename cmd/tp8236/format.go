package main

import (
	"fmt"
	"strings"

	"github.com/rolfnbl/tp8236/internal/frame"
)

// formatMeasurement renders a measurement as a single human-readable line:
// the scaled value (or the raw display when non-numeric), the unit, and any
// lit indicators.
func formatMeasurement(m *frame.Measurement) string {
	var b strings.Builder

	if m.Device != "" {
		fmt.Fprintf(&b, "[%s] ", m.Device)
	}

	if m.Value != nil {
		fmt.Fprintf(&b, "%g", *m.Value)
	} else {
		// Overflow or blank display: show the LCD text as-is.
		fmt.Fprintf(&b, "%q", m.Display)
	}
	if m.Unit != "" {
		fmt.Fprintf(&b, " %s", m.Unit)
	}

	if flags := flagNames(m.Flags); len(flags) > 0 {
		fmt.Fprintf(&b, "  {%s}", strings.Join(flags, " "))
	}
	return b.String()
}

func flagNames(f frame.Flags) []string {
	var names []string
	if f.Diode {
		names = append(names, "diode")
	}
	if f.Beep {
		names = append(names, "beep")
	}
	if f.Unidentified {
		names = append(names, "indicator?")
	}
	if f.MinMax {
		names = append(names, "min-max")
	}
	if f.Min {
		names = append(names, "min")
	}
	if f.Max {
		names = append(names, "max")
	}
	if f.USB {
		names = append(names, "usb")
	}
	if f.AutoRange {
		names = append(names, "auto")
	}
	if f.LowBattery {
		names = append(names, "low-battery")
	}
	if f.Bar > 0 {
		names = append(names, fmt.Sprintf("bar=%d", f.Bar))
	}
	return names
}
