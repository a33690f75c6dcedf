package main

import (
	"flag"
	"fmt"
	"net/netip"
	"strings"
)

// Defaults mirror the deployed unit: the display hangs off a USB-serial
// adapter on older installs, the server listens on 8081, and only
// loopback peers may post messages.
const (
	defaultDevice   = "/dev/cu.usbmodem1421"
	defaultPort     = 8081
	defaultLogLevel = "INFO"
	defaultLogFile  = "events.log"

	defaultLedPin    = 6
	defaultButtonPin = 2
)

var (
	defaultInet  = []string{"127.0.0.1/32", "127.0.0.2/32"}
	defaultInet6 = []string{"::1/128"}
)

// Config carries every runtime option.  It is assembled once at startup
// and treated as immutable afterwards.
type Config struct {
	Device    string
	Port      int
	LogLevel  string
	LogFile   string
	Inet      []netip.Prefix // allowed source IPv4 prefixes
	Inet6     []netip.Prefix // allowed source IPv6 prefixes
	LedPin    int
	ButtonPin int

	FaultEmail EmailFault
}

// Debug reports whether debug-level diagnostics were requested.
func (c Config) Debug() bool {
	return strings.EqualFold(c.LogLevel, "DEBUG")
}

// prefixFlag collects repeatable -inet/-inet6 options.  The first
// explicit value replaces the built-in defaults, matching the usual
// multiple-option semantics.
type prefixFlag struct {
	prefixes *[]netip.Prefix
	touched  bool
}

func (p *prefixFlag) String() string {
	if p.prefixes == nil {
		return ""
	}
	var parts []string
	for _, pr := range *p.prefixes {
		parts = append(parts, pr.String())
	}
	return strings.Join(parts, ",")
}

func (p *prefixFlag) Set(value string) error {
	prefix, err := netip.ParsePrefix(value)
	if err != nil {
		return fmt.Errorf("invalid prefix %q: %w", value, err)
	}
	if !p.touched {
		*p.prefixes = nil
		p.touched = true
	}
	*p.prefixes = append(*p.prefixes, prefix)
	return nil
}

// mustParsePrefixes converts the built-in default strings.  A failure
// is a programmer error.
func mustParsePrefixes(values []string) []netip.Prefix {
	out := make([]netip.Prefix, 0, len(values))
	for _, v := range values {
		out = append(out, netip.MustParsePrefix(v))
	}
	return out
}

// LoadConfig parses command line arguments into a Config.
func LoadConfig(name string, args []string) (Config, error) {
	cfg := Config{
		Inet:  mustParsePrefixes(defaultInet),
		Inet6: mustParsePrefixes(defaultInet6),
	}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&cfg.Device, "device", defaultDevice, "communicate with the display hardware using this device")
	fs.IntVar(&cfg.Port, "port", defaultPort, "bind and listen on this TCP port")
	fs.StringVar(&cfg.LogLevel, "loglevel", defaultLogLevel, "log level (INFO or DEBUG)")
	fs.StringVar(&cfg.LogFile, "logfile", defaultLogFile, "event log file path")
	fs.IntVar(&cfg.LedPin, "led-pin", defaultLedPin, "indicator output pin (BCM)")
	fs.IntVar(&cfg.ButtonPin, "button-pin", defaultButtonPin, "acknowledgment button input pin (BCM)")
	fs.Var(&prefixFlag{prefixes: &cfg.Inet}, "inet", "allowed source IPv4 prefix (repeatable)")
	fs.Var(&prefixFlag{prefixes: &cfg.Inet6}, "inet6", "allowed source IPv6 prefix (repeatable)")

	fs.StringVar(&cfg.FaultEmail.SMTPServer, "fault-smtp", "", "SMTP server for fault emails (empty disables)")
	fs.IntVar(&cfg.FaultEmail.SMTPPort, "fault-smtp-port", 587, "SMTP server port for fault emails")
	fs.StringVar(&cfg.FaultEmail.Username, "fault-smtp-user", "", "SMTP username for fault emails")
	fs.StringVar(&cfg.FaultEmail.Password, "fault-smtp-pass", "", "SMTP password for fault emails")
	fs.StringVar(&cfg.FaultEmail.From, "fault-from", "", "From address for fault emails")
	fs.StringVar(&cfg.FaultEmail.To, "fault-to", "", "To address for fault emails")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("port %d out of range", cfg.Port)
	}
	switch strings.ToUpper(cfg.LogLevel) {
	case "INFO", "DEBUG":
	default:
		return Config{}, fmt.Errorf("unknown log level %q", cfg.LogLevel)
	}
	return cfg, nil
}
