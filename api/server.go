// Package api exposes a translator session over HTTP and WebSocket:
// register/cache/trace inspection, breakpoint control, and a live event
// feed for external tooling (a browser UI, a CI harness) that wants to
// watch a guest run without embedding Go.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/arm64x86/dbt/debugger"
)

// Server is the HTTP front end for one debugger.Debugger instance.
type Server struct {
	dbg         *debugger.Debugger
	broadcaster *Broadcaster
	mux         *http.ServeMux
	server      *http.Server
	port        int
}

// NewServer wires routes for dbg and returns a server bound to port.
func NewServer(port int, dbg *debugger.Debugger) *Server {
	s := &Server{dbg: dbg, broadcaster: NewBroadcaster(), mux: http.NewServeMux(), port: port}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/v1/ws", s.handleWebSocket)
	s.mux.HandleFunc("/api/v1/registers", s.handleRegisters)
	s.mux.HandleFunc("/api/v1/cache", s.handleCacheStats)
	s.mux.HandleFunc("/api/v1/trace", s.handleTrace)
	s.mux.HandleFunc("/api/v1/step", s.handleStep)
	s.mux.HandleFunc("/api/v1/continue", s.handleContinue)
	s.mux.HandleFunc("/api/v1/breakpoints", s.handleBreakpoints)
	s.mux.HandleFunc("/api/v1/breakpoints/", s.handleBreakpointByID)
}

// Handler returns the full HTTP handler, CORS middleware applied.
func (s *Server) Handler() http.Handler { return s.corsMiddleware(s.mux) }

// Start runs the HTTP server until it errors or Shutdown is called.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf("127.0.0.1:%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	log.Printf("api server listening on http://127.0.0.1:%d", s.port)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server and disconnects WebSocket
// clients.
func (s *Server) Shutdown(ctx context.Context) error {
	s.broadcaster.Close()
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if isAllowedOrigin(origin) && origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func isAllowedOrigin(origin string) bool {
	if origin == "" {
		return true
	}
	for _, prefix := range []string{"http://localhost", "https://localhost", "http://127.0.0.1", "https://127.0.0.1", "file://"} {
		if strings.HasPrefix(origin, prefix) {
			return true
		}
	}
	return false
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "time": time.Now().Format(time.RFC3339)})
}

func (s *Server) handleRegisters(w http.ResponseWriter, r *http.Request) {
	st := s.dbg.State
	regs := make([]string, 32)
	for i := range regs {
		regs[i] = fmt.Sprintf("%#016x", st.GetX(uint8(i)))
	}
	n, z, c, v := st.NZCV()
	writeJSON(w, http.StatusOK, map[string]any{
		"x":    regs,
		"pc":   fmt.Sprintf("%#016x", st.PC),
		"sp":   fmt.Sprintf("%#016x", st.SP),
		"nzcv": map[string]bool{"n": n, "z": z, "c": c, "v": v},
	})
}

func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	stats := s.dbg.Dispatcher.Cache.Stats()
	writeJSON(w, http.StatusOK, map[string]any{
		"capacity":  s.dbg.Dispatcher.Cache.Capacity(),
		"lookups":   stats.Lookups,
		"hits":      stats.Hits,
		"misses":    stats.Misses,
		"inserts":   stats.Inserts,
		"evictions": stats.Evictions,
	})
}

func (s *Server) handleTrace(w http.ResponseWriter, r *http.Request) {
	if s.dbg.Dispatcher.Trace == nil {
		writeJSON(w, http.StatusOK, []any{})
		return
	}
	n := 50
	if v := r.URL.Query().Get("n"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			n = parsed
		}
	}
	writeJSON(w, http.StatusOK, s.dbg.Dispatcher.Trace.Recent(n))
}

func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}
	if err := s.dbg.Step(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.broadcaster.Publish(BroadcastEvent{Type: EventState, Data: map[string]any{"pc": s.dbg.State.PC}})
	writeJSON(w, http.StatusOK, map[string]any{"pc": fmt.Sprintf("%#x", s.dbg.State.PC)})
}

func (s *Server) handleContinue(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}
	reason, err := s.dbg.Continue(1_000_000)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.broadcaster.Publish(BroadcastEvent{Type: EventState, Data: map[string]any{"pc": s.dbg.State.PC, "reason": reason}})
	writeJSON(w, http.StatusOK, map[string]any{"pc": fmt.Sprintf("%#x", s.dbg.State.PC), "reason": reason})
}

type breakpointRequest struct {
	Address   string `json:"address"`
	Temporary bool   `json:"temporary"`
}

func (s *Server) handleBreakpoints(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.dbg.Breakpoints.All())
	case http.MethodPost:
		var req breakpointRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		addr, err := strconv.ParseUint(strings.TrimPrefix(req.Address, "0x"), 16, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad address")
			return
		}
		bp := s.dbg.Breakpoints.Add(addr, req.Temporary)
		s.broadcaster.Publish(BroadcastEvent{Type: EventBreakpoint, Data: map[string]any{"id": bp.ID, "address": fmt.Sprintf("%#x", bp.Address)}})
		writeJSON(w, http.StatusCreated, bp)
	default:
		writeError(w, http.StatusMethodNotAllowed, "GET or POST only")
	}
}

func (s *Server) handleBreakpointByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "DELETE only")
		return
	}
	idStr := strings.TrimPrefix(r.URL.Path, "/api/v1/breakpoints/")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad id")
		return
	}
	if err := s.dbg.Breakpoints.DeleteByID(id); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("api: encode response: %v", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func readJSON(r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20)).Decode(v)
}
