package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/chatsieve/chatsieve/internal/filter"
	"github.com/chatsieve/chatsieve/internal/version"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are gone; nothing useful left to do.
		return
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, version.GetInfo("chatsieve"))
}

func (s *Server) handleChats(w http.ResponseWriter, r *http.Request) {
	chats, err := s.store.Chats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"chats": chats})
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatID")
	sessions, err := s.svc.ListSessions(r.Context(), chatID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": sessions})
}

func (s *Server) handleMembers(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatID")
	members, err := s.svc.ListMembers(r.Context(), chatID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"members": members})
}

func (s *Server) handleTimeRange(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatID")
	tr, err := s.svc.GetTimeRange(r.Context(), chatID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if tr == nil {
		writeError(w, http.StatusNotFound, "chat has no messages")
		return
	}
	writeJSON(w, http.StatusOK, tr)
}

func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	var cond filter.Condition
	if err := json.NewDecoder(r.Body).Decode(&cond); err != nil {
		writeError(w, http.StatusBadRequest, "invalid condition: "+err.Error())
		return
	}
	if cond.ChatID == "" {
		writeError(w, http.StatusBadRequest, "chat_id is required")
		return
	}

	res, err := s.svc.FilterByCondition(r.Context(), cond)
	if err != nil {
		if errors.Is(err, filter.ErrEmptyCondition) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	filterResults.Observe(float64(res.Stats.TotalMessages))
	writeJSON(w, http.StatusOK, res)
}

type filterSessionsRequest struct {
	ChatID     string  `json:"chat_id"`
	SessionIDs []int64 `json:"session_ids"`
}

func (s *Server) handleFilterSessions(w http.ResponseWriter, r *http.Request) {
	var req filterSessionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	if req.ChatID == "" {
		writeError(w, http.StatusBadRequest, "chat_id is required")
		return
	}

	res, err := s.svc.FilterBySessions(r.Context(), req.ChatID, req.SessionIDs)
	if err != nil {
		if errors.Is(err, filter.ErrEmptyCondition) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if strings.Contains(err.Error(), "not found") {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	filterResults.Observe(float64(res.Stats.TotalMessages))
	writeJSON(w, http.StatusOK, res)
}
