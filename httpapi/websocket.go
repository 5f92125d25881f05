package httpapi

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"pkt.systems/todoagent/core"
	"pkt.systems/todoagent/internal/logx"
	"pkt.systems/todoagent/schema"
)

const (
	defaultMaxMessageBytes = 64 * 1024
	defaultWriteTimeout    = 10 * time.Second
)

func newUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}
}

func newConnID() string {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "conn-fallback"
	}
	return hex.EncodeToString(buf[:])
}

// wsSession serializes writes on one websocket connection. The gorilla
// package forbids concurrent writers.
type wsSession struct {
	conn         *websocket.Conn
	writeTimeout time.Duration
	mu           sync.Mutex
}

func (s *wsSession) send(env schema.Envelope) error {
	data, err := schema.EncodeEnvelope(env)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout)); err != nil {
		return err
	}
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logx.Ctx(r.Context()).Warn("websocket upgrade failed", "err", err, "remote", clientIP(r))
		return
	}

	connID := newConnID()
	log := logx.WithConn(r.Context(), connID).With("remote", clientIP(r))
	ctx := logx.ContextWithConnLogger(r.Context(), log, connID)
	log.Info("chat connected")

	maxBytes := s.cfg.MaxMessageBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxMessageBytes
	}
	conn.SetReadLimit(maxBytes)

	writeTimeout := time.Duration(s.cfg.WriteTimeoutSeconds) * time.Second
	if writeTimeout <= 0 {
		writeTimeout = defaultWriteTimeout
	}
	session := &wsSession{conn: conn, writeTimeout: writeTimeout}

	defer func() {
		_ = conn.Close()
		log.Info("chat disconnected")
	}()

	s.sendInitialSnapshot(ctx, session)
	s.readLoop(ctx, session)
}

// sendInitialSnapshot pushes the current collection so a fresh client can
// render the list before its first utterance.
func (s *Server) sendInitialSnapshot(ctx context.Context, session *wsSession) {
	resp, err := s.service.ListTodos(ctx, schema.ListTodosRequest{})
	if err != nil {
		logx.Ctx(ctx).Error("initial snapshot failed", "err", err)
		_ = session.send(schema.Envelope{
			Type:    schema.EnvelopeError,
			Content: fmt.Sprintf("Failed to load todos: %v", err),
		})
		return
	}
	if err := session.send(schema.Envelope{
		Type:    schema.EnvelopeTodosUpdate,
		Content: "Connected to Todo Agent",
		Todos:   resp.Todos,
	}); err != nil {
		logx.Ctx(ctx).Warn("initial snapshot send failed", "err", err)
	}
}

// readLoop processes one utterance at a time until the peer goes away.
func (s *Server) readLoop(ctx context.Context, session *wsSession) {
	log := logx.Ctx(ctx)
	history := core.NewHistory(s.cfg.HistoryLimit)
	for {
		_, payload, err := session.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn("chat read failed", "err", err)
			}
			return
		}

		req, err := schema.DecodeChatRequest(payload)
		if errors.Is(err, schema.ErrEmptyMessage) {
			if sendErr := session.send(schema.Envelope{
				Type:    schema.EnvelopeError,
				Content: "Please enter a message",
			}); sendErr != nil {
				return
			}
			continue
		}
		if err != nil {
			log.Warn("dropping unparsable chat payload", "err", err, "bytes", len(payload))
			continue
		}

		turns := history.Turns()
		history.Append(schema.RoleUser, req.Message)

		terminal, err := s.orch.HandleUtterance(ctx, req.Message, turns, session.send)
		if err != nil {
			log.Warn("chat stream aborted", "err", err)
			return
		}
		switch terminal.Type {
		case schema.EnvelopeError:
			history.Append(schema.RoleError, terminal.Content)
		default:
			history.Append(schema.RoleAssistant, terminal.Content)
		}
	}
}
