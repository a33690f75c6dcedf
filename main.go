package main

import (
	"log"
	"os"
)

// Entry point for the LSD message display server.
func main() {
	cfg, err := LoadConfig(os.Args[0], os.Args[1:])
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	display, signal, err := openHardware(cfg)
	if err != nil {
		log.Fatalf("hardware initialisation error: %v", err)
	}
	events := NewEventLogger(cfg.LogFile)
	ctrl := NewDisplayController(display, signal, ControllerOptions{
		LedPin:    cfg.LedPin,
		ButtonPin: cfg.ButtonPin,
		Debug:     cfg.Debug(),
	}, events, initFaultReporters(cfg))
	gate := NewAccessGate(cfg.Inet, cfg.Inet6)
	server := NewServer(cfg, ctrl, gate, events)
	log.Printf("starting LSD on port %d ...", cfg.Port)
	if err := server.Start(); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
