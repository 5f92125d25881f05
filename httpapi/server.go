package httpapi

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/websocket"
	"pkt.systems/todoagent/core"
	"pkt.systems/todoagent/internal/version"
)

// Server serves the REST todo API and the chat websocket.
type Server struct {
	cfg      Config
	service  core.Service
	orch     *core.Orchestrator
	upgrader websocket.Upgrader
}

// NewServer constructs an HTTP server.
func NewServer(cfg Config, service core.Service, orch *core.Orchestrator) *Server {
	s := &Server{
		cfg:     cfg,
		service: service,
		orch:    orch,
	}
	s.upgrader = newUpgrader(cfg.AllowedOrigins)
	return s
}

// Handler returns an http.Handler for the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/api/todos", s.handleTodos)
	mux.HandleFunc("/api/todos/", s.handleTodoByID)
	mux.HandleFunc("/ws/chat", s.handleChat)
	return withRequestLogging(mux)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"name":      "todoagent",
		"version":   version.Current(),
		"status":    "running",
		"websocket": "/ws/chat",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "healthy"})
}

func decodeJSON(body io.Reader, target any) error {
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	data, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"error": err.Error()})
}
