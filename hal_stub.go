//go:build !(linux && arm) || disablegpio
// +build !linux !arm disablegpio

package main

// Stub drivers used when the binary is built without GPIO support.
// They let you run and exercise the whole server on a desktop machine:
// the display renders into the process log and the signal lines are
// plain in-memory levels.

import (
	"log"
	"sync"
)

// stubDisplay keeps the two rendered rows in memory and echoes every
// write to the process log.
type stubDisplay struct {
	mu   sync.Mutex
	rows [displayRows]string
}

func newStubDisplay() *stubDisplay {
	return &stubDisplay{}
}

func (d *stubDisplay) Clear() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range d.rows {
		d.rows[i] = ""
	}
	return nil
}

func (d *stubDisplay) PrintString(text string, col, row int) error {
	if err := validateCell(text, col, row); err != nil {
		return err
	}
	d.mu.Lock()
	d.rows[row] = text
	log.Printf("display row %d: %q", row, text)
	d.mu.Unlock()
	return nil
}

// stubSignal holds pin modes and levels in memory.  Inputs read back
// whatever was last stored for the pin, low by default.
type stubSignal struct {
	mu     sync.Mutex
	modes  map[int]PinMode
	levels map[int]bool
}

func newStubSignal() *stubSignal {
	return &stubSignal{
		modes:  make(map[int]PinMode),
		levels: make(map[int]bool),
	}
}

func (s *stubSignal) SetPinMode(pin int, mode PinMode) error {
	s.mu.Lock()
	s.modes[pin] = mode
	s.mu.Unlock()
	return nil
}

func (s *stubSignal) DigitalWrite(pin int, high bool) error {
	s.mu.Lock()
	s.levels[pin] = high
	s.mu.Unlock()
	return nil
}

func (s *stubSignal) DigitalRead(pin int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.levels[pin], nil
}

// set forces an input level, simulating a button press or release.
func (s *stubSignal) set(pin int, high bool) {
	s.mu.Lock()
	s.levels[pin] = high
	s.mu.Unlock()
}

// openHardware returns the stub drivers.  The configured device path is
// only meaningful for hardware builds and is recorded for visibility.
func openHardware(cfg Config) (DisplayDriver, SignalDriver, error) {
	log.Printf("gpio disabled in this build; using stub drivers (device %s ignored)", cfg.Device)
	return newStubDisplay(), newStubSignal(), nil
}
