package main

import (
	"sync"
	"time"
)

// Recording fakes for the two hardware interfaces.  They stand in for
// the real drivers so the state machine and the tasks can be observed
// without hardware.

type pinWrite struct {
	pin  int
	high bool
	at   time.Time
}

// fakeSignal records every write and serves configurable read levels.
// Errors can be injected to simulate a dead line.
type fakeSignal struct {
	mu       sync.Mutex
	modes    map[int]PinMode
	levels   map[int]bool
	writes   []pinWrite
	readErr  error
	writeErr error
}

func newFakeSignal() *fakeSignal {
	return &fakeSignal{
		modes:  make(map[int]PinMode),
		levels: make(map[int]bool),
	}
}

func (f *fakeSignal) SetPinMode(pin int, mode PinMode) error {
	f.mu.Lock()
	f.modes[pin] = mode
	f.mu.Unlock()
	return nil
}

func (f *fakeSignal) DigitalWrite(pin int, high bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.levels[pin] = high
	f.writes = append(f.writes, pinWrite{pin: pin, high: high, at: time.Now()})
	return nil
}

func (f *fakeSignal) DigitalRead(pin int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return false, f.readErr
	}
	return f.levels[pin], nil
}

func (f *fakeSignal) setLevel(pin int, high bool) {
	f.mu.Lock()
	f.levels[pin] = high
	f.mu.Unlock()
}

func (f *fakeSignal) level(pin int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.levels[pin]
}

func (f *fakeSignal) lastWrite(pin int) (pinWrite, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.writes) - 1; i >= 0; i-- {
		if f.writes[i].pin == pin {
			return f.writes[i], true
		}
	}
	return pinWrite{}, false
}

func (f *fakeSignal) failWrites(err error) {
	f.mu.Lock()
	f.writeErr = err
	f.mu.Unlock()
}

func (f *fakeSignal) failReads(err error) {
	f.mu.Lock()
	f.readErr = err
	f.mu.Unlock()
}

// fakeDisplay records the history of row 0 writes, which is enough to
// follow the message → confirmation → message sequence.
type fakeDisplay struct {
	mu       sync.Mutex
	rows     [displayRows]string
	row0Log  []string
	clearErr error
}

func newFakeDisplay() *fakeDisplay {
	return &fakeDisplay{}
}

func (f *fakeDisplay) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.clearErr != nil {
		return f.clearErr
	}
	for i := range f.rows {
		f.rows[i] = ""
	}
	return nil
}

func (f *fakeDisplay) PrintString(text string, col, row int) error {
	if err := validateCell(text, col, row); err != nil {
		return err
	}
	f.mu.Lock()
	f.rows[row] = text
	if row == 0 {
		f.row0Log = append(f.row0Log, text)
	}
	f.mu.Unlock()
	return nil
}

func (f *fakeDisplay) row(i int) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rows[i]
}

func (f *fakeDisplay) row0History() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.row0Log))
	copy(out, f.row0Log)
	return out
}

func (f *fakeDisplay) failClears(err error) {
	f.mu.Lock()
	f.clearErr = err
	f.mu.Unlock()
}
