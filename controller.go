package main

import (
	"log"
	"sync"
	"time"
)

// Default timing for the background tasks and the acknowledgment dwell.
const (
	defaultBlinkPeriod = 500 * time.Millisecond
	defaultPollPeriod  = 500 * time.Millisecond
	defaultAckDwell    = time.Second
)

// ControllerOptions carries the deployment details the controller needs
// beyond its injected drivers.  Zero durations fall back to the
// defaults above.
type ControllerOptions struct {
	LedPin      int
	ButtonPin   int
	BlinkPeriod time.Duration
	PollPeriod  time.Duration
	AckDwell    time.Duration
	Debug       bool
}

// DisplayController owns the message/acknowledgment state machine.  It
// is the only component allowed to start or stop the blink and watch
// tasks, and it serializes every state transition.
//
// Locking discipline: opMu serializes SetMessage and acknowledge end to
// end, including the confirmation dwell, so a message posted during the
// dwell queues behind it.  stateMu guards only the state fields and is
// never held across a sleep or a task join, so LastAcknowledged never
// waits on a transition in flight.  The task handles are written only
// while opMu is held.
type DisplayController struct {
	display   DisplayDriver
	signal    SignalDriver
	opts      ControllerOptions
	events    *EventLogger
	reporters []FaultReporter

	opMu sync.Mutex

	stateMu sync.RWMutex
	current string
	acked   string
	pending bool

	blinker *BlinkTask
	watcher *WatchTask

	faults chan error
}

// NewDisplayController wires the drivers to a fresh controller and
// starts the fault drain.  The drain goroutine lives for the life of
// the process.
func NewDisplayController(display DisplayDriver, signal SignalDriver, opts ControllerOptions, events *EventLogger, reporters []FaultReporter) *DisplayController {
	if opts.BlinkPeriod <= 0 {
		opts.BlinkPeriod = defaultBlinkPeriod
	}
	if opts.PollPeriod <= 0 {
		opts.PollPeriod = defaultPollPeriod
	}
	if opts.AckDwell <= 0 {
		opts.AckDwell = defaultAckDwell
	}
	c := &DisplayController{
		display:   display,
		signal:    signal,
		opts:      opts,
		events:    events,
		reporters: reporters,
		faults:    make(chan error, 8),
	}
	go c.drainFaults()
	return c
}

// SetMessage installs text as the pending message: any previous task
// pair is fully stopped first, the text is rendered, and a fresh
// watcher and blinker are started.  The stored text is returned.  On a
// render failure nothing is pending afterwards and no tasks run; the
// next SetMessage is the recovery path.
func (c *DisplayController) SetMessage(text string) (string, error) {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.stopTasks()

	if err := c.render(text); err != nil {
		c.reportFault(err)
		c.stateMu.Lock()
		c.pending = false
		c.stateMu.Unlock()
		return "", err
	}

	c.stateMu.Lock()
	c.current = text
	c.pending = true
	c.stateMu.Unlock()

	c.watcher = startWatchTask(c.signal, c.opts.ButtonPin, c.opts.PollPeriod, c.acknowledge, c.faults)
	c.blinker = startBlinkTask(c.signal, c.opts.LedPin, c.opts.BlinkPeriod, c.faults)
	if c.opts.Debug {
		log.Printf("blink/watch tasks started for new message")
	}
	c.events.Log("a new message has been set: [%s]", text)
	return text, nil
}

// acknowledge is the watch task's callback.  It takes opMu with TryLock
// on purpose: if the lock is already held, either a SetMessage is
// replacing this message (and will stop the watcher itself) or an
// earlier invocation of this very callback is still dwelling.  Both
// make this invocation redundant, and blocking here would deadlock a
// caller that holds opMu while joining the watcher.
func (c *DisplayController) acknowledge() {
	if !c.opMu.TryLock() {
		return
	}
	defer c.opMu.Unlock()

	c.stateMu.Lock()
	if !c.pending {
		c.stateMu.Unlock()
		return
	}
	c.pending = false
	c.acked = c.current
	acked := c.acked
	c.stateMu.Unlock()

	// Signal only, never join: the watcher running this callback must
	// be free to observe its own stop flag after we return.
	if c.blinker != nil {
		c.blinker.Stop()
	}
	if c.watcher != nil {
		c.watcher.Stop()
	}

	c.events.Log("the button was pressed, ack the message: [%s]", acked)
	if err := c.render(confirmText); err != nil {
		c.reportFault(err)
	}
	// Dwell without stateMu so concurrent readers are never blocked.
	time.Sleep(c.opts.AckDwell)
	if err := c.render(acked); err != nil {
		c.reportFault(err)
	}
}

// LastAcknowledged returns the last acknowledged message.  It never
// blocks on a transition or on the confirmation dwell.
func (c *DisplayController) LastAcknowledged() string {
	c.stateMu.RLock()
	acked := c.acked
	c.stateMu.RUnlock()
	c.events.Log("the stored message was retrieved: [%s]", acked)
	return acked
}

// State returns a snapshot of the controller's message state.
func (c *DisplayController) State() DisplayState {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return DisplayState{Current: c.current, Acked: c.acked, Pending: c.pending}
}

// Close stops any running task pair and waits for both to terminate.
func (c *DisplayController) Close() {
	c.opMu.Lock()
	defer c.opMu.Unlock()
	c.stopTasks()
}

// stopTasks signals and joins both tasks.  Idempotent when none are
// running.  Must be called with opMu held; joining the watcher is safe
// even if it is mid-callback, because acknowledge never blocks on opMu.
func (c *DisplayController) stopTasks() {
	if c.watcher != nil {
		c.watcher.Stop()
	}
	if c.blinker != nil {
		c.blinker.Stop()
	}
	if c.watcher != nil {
		<-c.watcher.Done()
		c.watcher = nil
	}
	if c.blinker != nil {
		<-c.blinker.Done()
		c.blinker = nil
	}
	if c.opts.Debug {
		log.Printf("blink/watch tasks stopped")
	}
}

// render writes a message onto the display using the fixed two-row
// split.  Row 1 is written whenever the message overflows row 0, even
// if the overflow reduces to nothing after the break space is skipped.
func (c *DisplayController) render(msg string) error {
	if err := c.display.Clear(); err != nil {
		return err
	}
	row0, row1 := splitRows(msg)
	if err := c.display.PrintString(row0, 0, 0); err != nil {
		return err
	}
	if len(msg) > displayCols {
		return c.display.PrintString(row1, 0, 1)
	}
	return nil
}

// reportFault routes a request-path hardware error through the same
// channel the tasks use, so every fault surfaces in one place.
func (c *DisplayController) reportFault(err error) {
	select {
	case c.faults <- err:
	default:
		log.Printf("fault channel full, dropping: %v", err)
	}
}

// drainFaults logs every reported hardware fault and hands it to the
// configured reporters.  A silently dead blinker would leave the
// indicator in an unknown state and a dead watcher makes
// acknowledgment impossible until the next SetMessage, so these must
// never disappear into a void.
func (c *DisplayController) drainFaults() {
	for err := range c.faults {
		log.Printf("hardware fault: %v", err)
		c.events.Log("hardware fault: %v", err)
		for _, r := range c.reporters {
			if rerr := r.Report(err, c.events); rerr != nil {
				c.events.Log("fault reporter %s error: %v", r.Name(), rerr)
			}
		}
	}
}
