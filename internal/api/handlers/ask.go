package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/docyard-ai/docyard/internal/api"
	"github.com/docyard-ai/docyard/internal/service"
)

type QueryService interface {
	Answer(ctx context.Context, input service.AskInput) (*service.AnswerResult, error)
}

type AskHandler struct {
	svc QueryService
}

func NewAskHandler(svc QueryService) *AskHandler {
	return &AskHandler{svc: svc}
}

type AskRequest struct {
	Question  string `json:"question"`
	SessionID string `json:"session_id,omitempty"`
}

type AskSource struct {
	DocumentID string  `json:"document_id"`
	Filename   string  `json:"filename,omitempty"`
	Score      float32 `json:"score"`
}

type AskResponse struct {
	Answer  string      `json:"answer"`
	Sources []AskSource `json:"sources"`
}

// Ask answers a free-text question against the document store.
func (h *AskHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.Answer(r.Context(), service.AskInput{
		Question:  req.Question,
		SessionID: req.SessionID,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	sources := make([]AskSource, 0, len(result.Sources))
	for _, src := range result.Sources {
		sources = append(sources, AskSource{
			DocumentID: src.DocumentID,
			Filename:   src.Filename,
			Score:      src.Score,
		})
	}

	api.Success(w, http.StatusOK, AskResponse{
		Answer:  result.Answer,
		Sources: sources,
	})
}
