package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/docyard-ai/docyard/internal/domain"
	"github.com/docyard-ai/docyard/internal/service"
)

// MockQueryService is a mock implementation of QueryService
type MockQueryService struct {
	mock.Mock
}

func (m *MockQueryService) Answer(ctx context.Context, input service.AskInput) (*service.AnswerResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AnswerResult), args.Error(1)
}

func askRequest(body string) *http.Request {
	req := httptest.NewRequest("POST", "/api/ask", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestAsk_Success(t *testing.T) {
	svc := new(MockQueryService)
	handler := NewAskHandler(svc)

	result := &service.AnswerResult{
		Answer: "Paris.",
		Sources: []*service.RetrievedContext{
			{DocumentID: "d1", Filename: "facts.txt", Text: "Paris is the capital of France.", Score: 0.91},
		},
	}
	svc.On("Answer", mock.Anything, service.AskInput{
		Question:  "What is the capital of France?",
		SessionID: "s1",
	}).Return(result, nil)

	rec := httptest.NewRecorder()
	handler.Ask(rec, askRequest(`{"question":"What is the capital of France?","session_id":"s1"}`))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data AskResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Paris.", body.Data.Answer)
	require.Len(t, body.Data.Sources, 1)
	assert.Equal(t, "d1", body.Data.Sources[0].DocumentID)
	assert.Equal(t, "facts.txt", body.Data.Sources[0].Filename)
	assert.InDelta(t, 0.91, body.Data.Sources[0].Score, 0.0001)
	svc.AssertExpectations(t)
}

func TestAsk_InvalidJSON(t *testing.T) {
	svc := new(MockQueryService)
	handler := NewAskHandler(svc)

	rec := httptest.NewRecorder()
	handler.Ask(rec, askRequest(`{not json`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "Answer", mock.Anything, mock.Anything)
}

func TestAsk_EmptyQuestion(t *testing.T) {
	svc := new(MockQueryService)
	handler := NewAskHandler(svc)

	svc.On("Answer", mock.Anything, mock.Anything).Return(nil, domain.ErrInvalidQuestion)

	rec := httptest.NewRecorder()
	handler.Ask(rec, askRequest(`{"question":""}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "question cannot be empty")
}

func TestAsk_NoContext(t *testing.T) {
	svc := new(MockQueryService)
	handler := NewAskHandler(svc)

	svc.On("Answer", mock.Anything, mock.Anything).Return(nil, domain.ErrNoContext)

	rec := httptest.NewRecorder()
	handler.Ask(rec, askRequest(`{"question":"anything?"}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "no documents available")
}

func TestAsk_GenerationUnavailable(t *testing.T) {
	svc := new(MockQueryService)
	handler := NewAskHandler(svc)

	svc.On("Answer", mock.Anything, mock.Anything).Return(nil, domain.ErrGenerationFailed)

	rec := httptest.NewRecorder()
	handler.Ask(rec, askRequest(`{"question":"anything?"}`))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
