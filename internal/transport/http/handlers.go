package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sandevgo/twinbot/internal/core"
	"github.com/sandevgo/twinbot/pkg/log"
)

type chatRequest struct {
	Message             string         `json:"message"`
	ConversationHistory []core.Message `json:"conversationHistory"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req chatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Message is required"})
		return
	}

	answer, err := s.asker.Ask(ctx, req.Message, sanitizeHistory(req.ConversationHistory))
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("chat request failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to process message"})
		return
	}

	if answer.Chunks == nil {
		answer.Chunks = []string{}
	}
	if answer.Sources == nil {
		answer.Sources = []core.Source{}
	}
	writeJSON(w, http.StatusOK, answer)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.corpus.Status())
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	count, err := s.corpus.Refresh(ctx)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("corpus refresh failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to refresh embeddings"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "embedded": count})
}

// sanitizeHistory keeps only user and assistant turns from client-supplied history.
func sanitizeHistory(in []core.Message) []core.Message {
	out := make([]core.Message, 0, len(in))
	for _, m := range in {
		if m.Role != core.RoleUser && m.Role != core.RoleAssistant {
			continue
		}
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		out = append(out, m)
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
