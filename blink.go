package main

import (
	"fmt"
	"sync"
	"time"
)

// BlinkTask toggles the indicator line on a fixed period until stopped.
// Whatever phase the toggle is in when the stop signal lands, the line
// is driven low before the task terminates.  A failed line access is
// fatal to the task and reported on the fault channel.
type BlinkTask struct {
	sig    SignalDriver
	pin    int
	period time.Duration
	faults chan<- error

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// startBlinkTask configures the line as an output and launches the
// toggle loop.
func startBlinkTask(sig SignalDriver, pin int, period time.Duration, faults chan<- error) *BlinkTask {
	t := &BlinkTask{
		sig:    sig,
		pin:    pin,
		period: period,
		faults: faults,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go t.run()
	return t
}

// Stop signals the task to terminate.  It returns immediately; the loop
// observes the signal within one toggle period.  Safe to call more than
// once and from the task's own callback path.
func (t *BlinkTask) Stop() {
	t.stopOnce.Do(func() { close(t.stop) })
}

// Done is closed once the loop has exited and the line is low.
func (t *BlinkTask) Done() <-chan struct{} {
	return t.done
}

func (t *BlinkTask) run() {
	defer close(t.done)
	defer t.forceLow()
	if err := t.sig.SetPinMode(t.pin, ModeOutput); err != nil {
		t.fault(fmt.Errorf("indicator pin %d mode: %w", t.pin, err))
		return
	}
	for {
		select {
		case <-t.stop:
			return
		default:
		}
		if err := t.sig.DigitalWrite(t.pin, true); err != nil {
			t.fault(fmt.Errorf("indicator pin %d write: %w", t.pin, err))
			return
		}
		if t.sleep() {
			return
		}
		if err := t.sig.DigitalWrite(t.pin, false); err != nil {
			t.fault(fmt.Errorf("indicator pin %d write: %w", t.pin, err))
			return
		}
		if t.sleep() {
			return
		}
	}
}

// sleep waits one period, returning early (true) when stopped.
func (t *BlinkTask) sleep() bool {
	select {
	case <-t.stop:
		return true
	case <-time.After(t.period):
		return false
	}
}

// forceLow is the exit postcondition: the indicator must not be left
// lit by a dead task.
func (t *BlinkTask) forceLow() {
	if err := t.sig.DigitalWrite(t.pin, false); err != nil {
		t.fault(fmt.Errorf("indicator pin %d final low: %w", t.pin, err))
	}
}

// fault reports a hardware error without ever blocking the loop.  If
// the channel is full the error is dropped here; the controller's drain
// keeps up under normal operation.
func (t *BlinkTask) fault(err error) {
	select {
	case t.faults <- err:
	default:
	}
}
