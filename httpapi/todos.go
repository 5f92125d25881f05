package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"pkt.systems/todoagent/schema"
)

func (s *Server) handleTodos(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		resp, err := s.service.ListTodos(r.Context(), schema.ListTodosRequest{})
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, resp.Todos)
	case http.MethodPost:
		var payload struct {
			Title       string `json:"title"`
			Description string `json:"description"`
		}
		if err := decodeJSON(r.Body, &payload); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		resp, err := s.service.CreateTodo(r.Context(), schema.CreateTodoRequest{
			Title:       payload.Title,
			Description: payload.Description,
		})
		if err != nil {
			writeError(w, statusForError(err), err)
			return
		}
		writeJSON(w, http.StatusOK, resp.Todo)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleTodoByID(w http.ResponseWriter, r *http.Request) {
	id, err := todoIDFromPath(r.URL.Path)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet:
		resp, err := s.service.GetTodo(r.Context(), schema.GetTodoRequest{ID: id})
		if err != nil {
			writeError(w, statusForError(err), err)
			return
		}
		writeJSON(w, http.StatusOK, resp.Todo)
	case http.MethodPut:
		var payload struct {
			Title       *string `json:"title"`
			Description *string `json:"description"`
		}
		if err := decodeJSON(r.Body, &payload); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		resp, err := s.service.UpdateTodo(r.Context(), schema.UpdateTodoRequest{
			ID:          id,
			Title:       payload.Title,
			Description: payload.Description,
		})
		if err != nil {
			writeError(w, statusForError(err), err)
			return
		}
		writeJSON(w, http.StatusOK, resp.Todo)
	case http.MethodDelete:
		resp, err := s.service.DeleteTodo(r.Context(), schema.DeleteTodoRequest{ID: id})
		if err != nil {
			writeError(w, statusForError(err), err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "Todo deleted successfully",
			"id":      resp.ID,
		})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func todoIDFromPath(path string) (schema.TodoID, error) {
	raw := strings.TrimPrefix(path, "/api/todos/")
	if raw == "" || strings.Contains(raw, "/") {
		return 0, errors.New("missing todo id")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid todo id")
	}
	return schema.TodoID(id), nil
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, schema.ErrTodoNotFound):
		return http.StatusNotFound
	case errors.Is(err, schema.ErrEmptyTitle), errors.Is(err, schema.ErrNoFields):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
