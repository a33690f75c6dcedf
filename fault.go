package main

// This file defines pluggable reporters for hardware faults.  A fault
// means a blink or watch task died, or a display write failed; beyond
// the event log, deployments may want the failure pushed somewhere a
// human will see it.

import (
	"fmt"
	"net/smtp"
)

// FaultReporter delivers a hardware fault notification.  The Report
// method receives the fault and a logger to record any diagnostics.
// If an error is returned, the caller logs it and continues operation.
type FaultReporter interface {
	Name() string
	Report(fault error, logger *EventLogger) error
}

// LogFault records the fault in the event log.  This is the default
// reporter when nothing else is configured.
type LogFault struct{}

// Name returns the type name of the reporter.
func (LogFault) Name() string { return "log" }

// Report writes the fault to the event log.
func (LogFault) Report(fault error, logger *EventLogger) error {
	logger.Log("fault reported: %v", fault)
	return nil
}

// EmailFault sends an email via an SMTP server when a fault occurs.
// All values come from the corresponding configuration options.  The
// subject defaults to "LSD hardware fault" if empty.
type EmailFault struct {
	SMTPServer string
	SMTPPort   int
	Username   string
	Password   string
	From       string
	To         string
	Subject    string
}

// Name returns the type name of the reporter.
func (EmailFault) Name() string { return "email" }

// Report dispatches an email.  It composes a minimal plaintext message
// describing the fault.  Errors from smtp.SendMail are returned
// directly so the caller can log them.
func (e EmailFault) Report(fault error, logger *EventLogger) error {
	subject := e.Subject
	if subject == "" {
		subject = "LSD hardware fault"
	}
	body := fmt.Sprintf("The display server reported a hardware fault: %v", fault)
	// Compose headers and body.  RFC 5322 requires CRLF line endings.
	msg := fmt.Sprintf("To: %s\r\nSubject: %s\r\n\r\n%s\r\n", e.To, subject, body)
	addr := fmt.Sprintf("%s:%d", e.SMTPServer, e.SMTPPort)
	auth := smtp.PlainAuth("", e.Username, e.Password, e.SMTPServer)
	return smtp.SendMail(addr, auth, e.From, []string{e.To}, []byte(msg))
}

// initFaultReporters constructs the reporter set from configuration.
// The log reporter is always present so faults are always recorded.
func initFaultReporters(cfg Config) []FaultReporter {
	reporters := []FaultReporter{LogFault{}}
	if cfg.FaultEmail.SMTPServer != "" && cfg.FaultEmail.To != "" {
		reporters = append(reporters, cfg.FaultEmail)
	}
	return reporters
}
