package main

import (
	"fmt"
	"sync"
	"time"
)

// WatchTask polls the button line on a fixed period and invokes the
// acknowledgment callback whenever the line reads active.  The read is
// level-triggered, not edge-latched: a button held across several poll
// cycles invokes the callback on every one of them, so the callback
// must be idempotent.  The callback is also the thing that stops this
// task, which is fine: the stop signal is observed at the top of the
// next cycle, after the current callback invocation has returned.
type WatchTask struct {
	sig      SignalDriver
	pin      int
	period   time.Duration
	callback func()
	faults   chan<- error

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// startWatchTask configures the line as an input and launches the poll
// loop.
func startWatchTask(sig SignalDriver, pin int, period time.Duration, callback func(), faults chan<- error) *WatchTask {
	t := &WatchTask{
		sig:      sig,
		pin:      pin,
		period:   period,
		callback: callback,
		faults:   faults,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go t.run()
	return t
}

// Stop signals the task to terminate.  It returns immediately; the loop
// observes the signal within one poll period.  Safe to call more than
// once, including from inside the callback.
func (t *WatchTask) Stop() {
	t.stopOnce.Do(func() { close(t.stop) })
}

// Done is closed once the poll loop has exited.
func (t *WatchTask) Done() <-chan struct{} {
	return t.done
}

func (t *WatchTask) run() {
	defer close(t.done)
	if err := t.sig.SetPinMode(t.pin, ModeInput); err != nil {
		t.fault(fmt.Errorf("button pin %d mode: %w", t.pin, err))
		return
	}
	for {
		select {
		case <-t.stop:
			return
		default:
		}
		pressed, err := t.sig.DigitalRead(t.pin)
		if err != nil {
			t.fault(fmt.Errorf("button pin %d read: %w", t.pin, err))
			return
		}
		if pressed {
			t.callback()
		}
		select {
		case <-t.stop:
			return
		case <-time.After(t.period):
		}
	}
}

func (t *WatchTask) fault(err error) {
	select {
	case t.faults <- err:
	default:
	}
}
