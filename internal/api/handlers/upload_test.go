package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/docyard-ai/docyard/internal/domain"
	"github.com/docyard-ai/docyard/internal/service"
)

// MockIngestService is a mock implementation of IngestService
type MockIngestService struct {
	mock.Mock
}

func (m *MockIngestService) Ingest(ctx context.Context, input service.IngestInput) (*domain.Document, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func multipartUpload(t *testing.T, filename, contentType, content string) *http.Request {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := writer.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/api/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestUpload_Success(t *testing.T) {
	svc := new(MockIngestService)
	handler := NewUploadHandler(svc)

	doc := &domain.Document{
		ID:          "doc-1",
		Filename:    "facts.txt",
		ContentType: "text/plain",
		Text:        "Paris is the capital of France.",
		Embedding:   []float32{0.1},
		CreatedAt:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	svc.On("Ingest", mock.Anything, mock.MatchedBy(func(in service.IngestInput) bool {
		return in.Filename == "facts.txt" && in.ContentType == "text/plain" && string(in.Data) == "Paris is the capital of France."
	})).Return(doc, nil)

	rec := httptest.NewRecorder()
	handler.Upload(rec, multipartUpload(t, "facts.txt", "text/plain", "Paris is the capital of France."))

	assert.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		Data UploadResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "doc-1", body.Data.ID)
	assert.Equal(t, "facts.txt", body.Data.Filename)
	assert.Equal(t, 31, body.Data.Characters)
	assert.Equal(t, "Paris is the capital of France.", body.Data.Preview)
	assert.Equal(t, "2026-03-01T12:00:00Z", body.Data.CreatedAt)
	svc.AssertExpectations(t)
}

func TestUpload_PreviewTruncated(t *testing.T) {
	svc := new(MockIngestService)
	handler := NewUploadHandler(svc)

	longText := strings.Repeat("x", 5000)
	doc := &domain.Document{
		ID:        "doc-1",
		Filename:  "big.txt",
		Text:      longText,
		Embedding: []float32{0.1},
		CreatedAt: time.Now().UTC(),
	}
	svc.On("Ingest", mock.Anything, mock.Anything).Return(doc, nil)

	rec := httptest.NewRecorder()
	handler.Upload(rec, multipartUpload(t, "big.txt", "text/plain", longText))

	var body struct {
		Data UploadResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 5000, body.Data.Characters)
	assert.Len(t, body.Data.Preview, 1000)
}

func TestUpload_MissingFile(t *testing.T) {
	svc := new(MockIngestService)
	handler := NewUploadHandler(svc)

	req := httptest.NewRequest("POST", "/api/upload", strings.NewReader("not multipart"))
	rec := httptest.NewRecorder()
	handler.Upload(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "Ingest", mock.Anything, mock.Anything)
}

func TestUpload_UnsupportedType(t *testing.T) {
	svc := new(MockIngestService)
	handler := NewUploadHandler(svc)

	svc.On("Ingest", mock.Anything, mock.Anything).Return(nil, domain.ErrUnsupportedType)

	rec := httptest.NewRecorder()
	handler.Upload(rec, multipartUpload(t, "photo.png", "image/png", "binary"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "only PDF or TXT")
}

func TestUpload_DuplicateConflict(t *testing.T) {
	svc := new(MockIngestService)
	handler := NewUploadHandler(svc)

	svc.On("Ingest", mock.Anything, mock.Anything).Return(nil, domain.ErrDuplicateDocument)

	rec := httptest.NewRecorder()
	handler.Upload(rec, multipartUpload(t, "facts.txt", "text/plain", "text"))

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestUpload_EmbeddingUnavailable(t *testing.T) {
	svc := new(MockIngestService)
	handler := NewUploadHandler(svc)

	svc.On("Ingest", mock.Anything, mock.Anything).Return(nil, domain.ErrEmbeddingFailed)

	rec := httptest.NewRecorder()
	handler.Upload(rec, multipartUpload(t, "facts.txt", "text/plain", "text"))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
