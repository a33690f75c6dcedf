package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/netip"
)

// serverVersion is reported in the Server response header.
const serverVersion = "LiquidServerDisplay/0.1"

// Server glues the access gate, the display controller and the HTTP
// listener together.  It holds no message state of its own.
type Server struct {
	cfg    Config
	ctrl   *DisplayController
	gate   *AccessGate
	events *EventLogger
}

func NewServer(cfg Config, ctrl *DisplayController, gate *AccessGate, events *EventLogger) *Server {
	return &Server{cfg: cfg, ctrl: ctrl, gate: gate, events: events}
}

// Start launches the HTTP server.  The listener is dual-stack, so IPv4
// peers arrive as IPv4-mapped IPv6 addresses.  It blocks until the
// server shuts down.
func (s *Server) Start() error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.cfg.Port),
		Handler: s.Handler(),
	}
	log.Printf("listening on %s", srv.Addr)
	return srv.ListenAndServe()
}

// Handler builds the route table.  A single path is served; everything
// hangs off the gate check.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.requirePeer(s.handleRoot))
	return mux
}

// requirePeer wraps a handler with the access gate.  A denied or
// unparseable peer address stops the request right here with 401;
// nothing downstream runs for it.
func (s *Server) requirePeer(handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		addr, err := peerAddr(r.RemoteAddr)
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		allowed := s.gate.Allowed(addr)
		if s.cfg.Debug() {
			log.Printf("peer %s allowed=%v", addr, allowed)
		}
		if !allowed {
			s.events.Log("denied request from [%s]", addr)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		handler(w, r)
	}
}

// peerAddr extracts the IP from an "ip:port" remote address.
func peerAddr(remote string) (netip.Addr, error) {
	ap, err := netip.ParseAddrPort(remote)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("bad peer address %q: %w", remote, err)
	}
	return ap.Addr(), nil
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Server", serverVersion)
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet:
		s.handleGet(w, r)
	case http.MethodPost:
		s.handlePost(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleGet returns the last acknowledged message.
func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, s.ctrl.LastAcknowledged())
}

// handlePost installs a new pending message and echoes it back.  The
// body must be a JSON object with a "message" string field; anything
// else is invalid input and leaves the controller untouched.
func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message *string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == nil {
		http.Error(w, "invalid message", http.StatusBadRequest)
		return
	}
	stored, err := s.ctrl.SetMessage(*req.Message)
	if err != nil {
		http.Error(w, "display unavailable", http.StatusInternalServerError)
		return
	}
	writeMessage(w, stored)
}

func writeMessage(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"message": msg})
}
