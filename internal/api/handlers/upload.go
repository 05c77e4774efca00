package handlers

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/docyard-ai/docyard/internal/api"
	"github.com/docyard-ai/docyard/internal/domain"
	"github.com/docyard-ai/docyard/internal/service"
)

// previewChars bounds the content preview returned to the uploader.
// Stored content is never truncated; only the response is.
const previewChars = 1000

type IngestService interface {
	Ingest(ctx context.Context, input service.IngestInput) (*domain.Document, error)
}

type UploadHandler struct {
	svc IngestService
}

func NewUploadHandler(svc IngestService) *UploadHandler {
	return &UploadHandler{svc: svc}
}

type UploadResponse struct {
	ID         string `json:"id"`
	Filename   string `json:"filename"`
	Characters int    `json:"characters"`
	Preview    string `json:"preview"`
	CreatedAt  string `json:"created_at"`
}

// Upload accepts a multipart file upload (field "file") and runs the
// ingestion pipeline on it.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		api.Error(w, http.StatusBadRequest, "missing file upload")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		api.Error(w, http.StatusBadRequest, "failed to read file upload")
		return
	}

	contentType := header.Header.Get("Content-Type")

	doc, err := h.svc.Ingest(r.Context(), service.IngestInput{
		Filename:    header.Filename,
		ContentType: contentType,
		Data:        data,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusCreated, UploadResponse{
		ID:         doc.ID,
		Filename:   doc.Filename,
		Characters: len([]rune(doc.Text)),
		Preview:    previewOf(doc.Text),
		CreatedAt:  doc.CreatedAt.Format(time.RFC3339),
	})
}

func previewOf(text string) string {
	runes := []rune(text)
	if len(runes) <= previewChars {
		return text
	}
	return string(runes[:previewChars])
}
