package main

// This file defines the hardware abstraction layer shared by every
// build.  The display and the digital signal lines are consumed through
// two narrow interfaces so that the controller and its background tasks
// never talk to periph (or to a stub) directly.  The real drivers live
// in hal_rpi.go behind a build tag; hal_stub.go provides in-memory
// replacements for desktop builds and tests.

import "fmt"

// PinMode selects the direction of a digital signal line.
type PinMode int

const (
	ModeInput PinMode = iota
	ModeOutput
)

// DisplayDriver writes fixed-width text to a two-row character display.
// PrintString must be given at most displayCols bytes and a valid
// column/row address; implementations are not required to be safe for
// concurrent use, the controller serializes access.
type DisplayDriver interface {
	Clear() error
	PrintString(text string, col, row int) error
}

// SignalDriver drives digital I/O lines: one output for the indicator
// light and one input for the acknowledgment button.  Implementations
// must be safe for concurrent use, the blink and watch tasks run on
// independent schedules.
type SignalDriver interface {
	SetPinMode(pin int, mode PinMode) error
	DigitalWrite(pin int, high bool) error
	DigitalRead(pin int) (bool, error)
}

// validateCell rejects writes outside the display's two fixed rows.
func validateCell(text string, col, row int) error {
	if row < 0 || row >= displayRows {
		return fmt.Errorf("display row %d out of range", row)
	}
	if col < 0 || col >= displayCols {
		return fmt.Errorf("display column %d out of range", col)
	}
	if len(text) > displayCols {
		return fmt.Errorf("display text %q exceeds %d characters", text, displayCols)
	}
	return nil
}
