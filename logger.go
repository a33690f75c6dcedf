package main

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// EventLogger writes timestamped events to a file.  It records the
// message lifecycle (set, acknowledged, retrieved) and hardware faults,
// and is safe for concurrent use.  An empty file path disables it,
// which the tests rely on.
type EventLogger struct {
	filePath string
	mu       sync.Mutex
}

// NewEventLogger creates a logger writing to filePath.
func NewEventLogger(filePath string) *EventLogger {
	return &EventLogger{filePath: filePath}
}

// Log writes a single event with timestamp.  Errors are not propagated
// but printed to standard error.
func (el *EventLogger) Log(format string, args ...any) {
	if el.filePath == "" {
		return
	}
	el.mu.Lock()
	defer el.mu.Unlock()
	msg := fmt.Sprintf(format, args...)
	line := fmt.Sprintf("%s - %s\n", time.Now().Format(time.RFC3339), msg)
	// Open file in append mode, create if not exists
	f, err := os.OpenFile(el.filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "log error: %v\n", err)
		return
	}
	defer f.Close()
	if _, err := f.WriteString(line); err != nil {
		fmt.Fprintf(os.Stderr, "log write error: %v\n", err)
	}
}
