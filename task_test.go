package main

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPin = 9

func waitDone(t *testing.T, done <-chan struct{}, within time.Duration) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(within):
		t.Fatalf("task did not terminate within %v", within)
	}
}

func TestBlinkTogglesLine(t *testing.T) {
	sig := newFakeSignal()
	faults := make(chan error, 1)
	task := startBlinkTask(sig, testPin, 5*time.Millisecond, faults)
	defer task.Stop()

	require.Eventually(t, func() bool {
		high, low := 0, 0
		sig.mu.Lock()
		for _, w := range sig.writes {
			if w.high {
				high++
			} else {
				low++
			}
		}
		sig.mu.Unlock()
		return high >= 2 && low >= 2
	}, time.Second, time.Millisecond, "line should toggle repeatedly")
}

func TestBlinkStopLeavesLineLowWithinOnePeriod(t *testing.T) {
	sig := newFakeSignal()
	faults := make(chan error, 1)
	period := 20 * time.Millisecond
	task := startBlinkTask(sig, testPin, period, faults)

	// Let it reach a high phase so the postcondition actually has work
	// to do.
	require.Eventually(t, func() bool {
		w, ok := sig.lastWrite(testPin)
		return ok && w.high
	}, time.Second, time.Millisecond)

	stopped := time.Now()
	task.Stop()
	waitDone(t, task.Done(), period+50*time.Millisecond)

	w, ok := sig.lastWrite(testPin)
	require.True(t, ok)
	assert.False(t, w.high, "final write must drive the line low")
	assert.False(t, sig.level(testPin), "line must be low after stop")
	assert.Less(t, w.at.Sub(stopped), period+50*time.Millisecond)
}

func TestBlinkStopIsIdempotent(t *testing.T) {
	sig := newFakeSignal()
	task := startBlinkTask(sig, testPin, 5*time.Millisecond, make(chan error, 1))
	task.Stop()
	task.Stop()
	waitDone(t, task.Done(), time.Second)
}

func TestBlinkWriteFaultIsFatalAndReported(t *testing.T) {
	sig := newFakeSignal()
	sig.failWrites(errors.New("wire off"))
	faults := make(chan error, 2)
	task := startBlinkTask(sig, testPin, 5*time.Millisecond, faults)

	waitDone(t, task.Done(), time.Second)
	select {
	case err := <-faults:
		assert.ErrorContains(t, err, "wire off")
	default:
		t.Fatal("expected a fault to be reported")
	}
}

func TestWatchInvokesCallbackOnEveryActivePoll(t *testing.T) {
	sig := newFakeSignal()
	sig.setLevel(testPin, true)
	var calls atomic.Int32
	task := startWatchTask(sig, testPin, 5*time.Millisecond, func() { calls.Add(1) }, make(chan error, 1))
	defer task.Stop()

	// Level-triggered: a held button keeps firing the callback.
	require.Eventually(t, func() bool {
		return calls.Load() >= 3
	}, time.Second, time.Millisecond)
}

func TestWatchIgnoresInactiveLine(t *testing.T) {
	sig := newFakeSignal()
	var calls atomic.Int32
	task := startWatchTask(sig, testPin, time.Millisecond, func() { calls.Add(1) }, make(chan error, 1))
	time.Sleep(20 * time.Millisecond)
	task.Stop()
	waitDone(t, task.Done(), time.Second)
	assert.Zero(t, calls.Load())
}

func TestWatchCallbackMayStopItsOwnTask(t *testing.T) {
	sig := newFakeSignal()
	sig.setLevel(testPin, true)
	var task *WatchTask
	ready := make(chan struct{})
	task = startWatchTask(sig, testPin, time.Millisecond, func() {
		<-ready
		task.Stop()
	}, make(chan error, 1))
	close(ready)
	waitDone(t, task.Done(), time.Second)
}

func TestWatchReadFaultIsFatalAndReported(t *testing.T) {
	sig := newFakeSignal()
	sig.failReads(errors.New("pin gone"))
	faults := make(chan error, 2)
	task := startWatchTask(sig, testPin, 5*time.Millisecond, func() {}, faults)

	waitDone(t, task.Done(), time.Second)
	select {
	case err := <-faults:
		assert.ErrorContains(t, err, "pin gone")
	default:
		t.Fatal("expected a fault to be reported")
	}
}
