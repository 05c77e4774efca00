package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/docyard-ai/docyard/internal/api"
	"github.com/docyard-ai/docyard/internal/domain"
)

type DocumentReader interface {
	GetAll(ctx context.Context) ([]*domain.Document, error)
	Count(ctx context.Context) (int64, error)
}

type ConversationReader interface {
	ListBySession(ctx context.Context, sessionID string) ([]*domain.ConversationTurn, error)
	Count(ctx context.Context) (int64, error)
}

// DocumentsHandler serves the bulk listing and analytics endpoints.
type DocumentsHandler struct {
	docs  DocumentReader
	turns ConversationReader
}

func NewDocumentsHandler(docs DocumentReader, turns ConversationReader) *DocumentsHandler {
	return &DocumentsHandler{docs: docs, turns: turns}
}

type DocumentResponse struct {
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Text        string `json:"text"`
	Characters  int    `json:"characters"`
	CreatedAt   string `json:"created_at"`
}

type StatsResponse struct {
	Documents         int64 `json:"documents"`
	ConversationTurns int64 `json:"conversation_turns"`
}

type TurnResponse struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

// List returns every stored document with its full extracted text.
func (h *DocumentsHandler) List(w http.ResponseWriter, r *http.Request) {
	docs, err := h.docs.GetAll(r.Context())
	if err != nil {
		api.HandleError(w, err)
		return
	}

	resp := make([]DocumentResponse, 0, len(docs))
	for _, d := range docs {
		resp = append(resp, DocumentResponse{
			ID:          d.ID,
			Filename:    d.Filename,
			ContentType: d.ContentType,
			Text:        d.Text,
			Characters:  len([]rune(d.Text)),
			CreatedAt:   d.CreatedAt.Format(time.RFC3339),
		})
	}

	api.Success(w, http.StatusOK, resp)
}

// Stats returns counters for the analytics view.
func (h *DocumentsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	docCount, err := h.docs.Count(r.Context())
	if err != nil {
		api.HandleError(w, err)
		return
	}

	turnCount, err := h.turns.Count(r.Context())
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, StatsResponse{
		Documents:         docCount,
		ConversationTurns: turnCount,
	})
}

// History returns a session's conversation turns in order.
func (h *DocumentsHandler) History(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		api.Error(w, http.StatusBadRequest, "session_id is required")
		return
	}

	turns, err := h.turns.ListBySession(r.Context(), sessionID)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	resp := make([]TurnResponse, 0, len(turns))
	for _, t := range turns {
		resp = append(resp, TurnResponse{
			Role:      string(t.Role),
			Content:   t.Content,
			CreatedAt: t.CreatedAt.Format(time.RFC3339),
		})
	}

	api.Success(w, http.StatusOK, resp)
}
