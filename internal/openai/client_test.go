package openai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockEmbeddingAPI is a mock implementation of EmbeddingAPI
type MockEmbeddingAPI struct {
	mock.Mock
}

func (m *MockEmbeddingAPI) CreateEmbeddings(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

// MockChatAPI is a mock implementation of ChatAPI
type MockChatAPI struct {
	mock.Mock
}

func (m *MockChatAPI) CreateChatCompletion(ctx context.Context, system, prompt string) (string, error) {
	args := m.Called(ctx, system, prompt)
	return args.String(0), args.Error(1)
}

func newMockedClient(embeddings EmbeddingAPI, chat ChatAPI, dimensions int) *Client {
	return &Client{embeddings: embeddings, chat: chat, dimensions: dimensions}
}

func TestGenerateEmbedding_Success(t *testing.T) {
	api := new(MockEmbeddingAPI)
	client := newMockedClient(api, nil, 4)

	api.On("CreateEmbeddings", mock.Anything, "some text").Return([]float32{0.1, 0.2, 0.3, 0.4}, nil)

	embedding, err := client.GenerateEmbedding(context.Background(), "some text")

	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3, 0.4}, embedding)
	api.AssertExpectations(t)
}

func TestGenerateEmbedding_EmptyText(t *testing.T) {
	api := new(MockEmbeddingAPI)
	client := newMockedClient(api, nil, 4)

	_, err := client.GenerateEmbedding(context.Background(), "")

	assert.ErrorIs(t, err, ErrEmptyText)
	api.AssertNotCalled(t, "CreateEmbeddings", mock.Anything, mock.Anything)
}

func TestGenerateEmbedding_WrongDimensions(t *testing.T) {
	api := new(MockEmbeddingAPI)
	client := newMockedClient(api, nil, 4)

	api.On("CreateEmbeddings", mock.Anything, mock.Anything).Return([]float32{0.1, 0.2}, nil)

	_, err := client.GenerateEmbedding(context.Background(), "some text")

	assert.ErrorIs(t, err, ErrWrongDimensions)
}

func TestGenerateEmbedding_APIError(t *testing.T) {
	api := new(MockEmbeddingAPI)
	client := newMockedClient(api, nil, 4)

	apiErr := errors.New("rate limited")
	api.On("CreateEmbeddings", mock.Anything, mock.Anything).Return(nil, apiErr)

	_, err := client.GenerateEmbedding(context.Background(), "some text")

	assert.ErrorIs(t, err, apiErr)
}

func TestGenerateAnswer_Success(t *testing.T) {
	chat := new(MockChatAPI)
	client := newMockedClient(nil, chat, 4)

	chat.On("CreateChatCompletion", mock.Anything, "be helpful", "what?").Return("this.", nil)

	answer, err := client.GenerateAnswer(context.Background(), "be helpful", "what?")

	require.NoError(t, err)
	assert.Equal(t, "this.", answer)
	chat.AssertExpectations(t)
}

func TestGenerateAnswer_EmptyPrompt(t *testing.T) {
	chat := new(MockChatAPI)
	client := newMockedClient(nil, chat, 4)

	_, err := client.GenerateAnswer(context.Background(), "system", "")

	assert.ErrorIs(t, err, ErrEmptyText)
	chat.AssertNotCalled(t, "CreateChatCompletion", mock.Anything, mock.Anything, mock.Anything)
}

func TestGenerateAnswer_APIError(t *testing.T) {
	chat := new(MockChatAPI)
	client := newMockedClient(nil, chat, 4)

	apiErr := errors.New("model overloaded")
	chat.On("CreateChatCompletion", mock.Anything, mock.Anything, mock.Anything).Return("", apiErr)

	_, err := client.GenerateAnswer(context.Background(), "system", "prompt")

	assert.ErrorIs(t, err, apiErr)
}

func TestNewClientFromEnv_MissingKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	_, err := NewClientFromEnv()

	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestNewClientWithConfig_Defaults(t *testing.T) {
	client := NewClientWithConfig(Config{APIKey: "sk-test"})

	assert.Equal(t, DefaultEmbeddingDimensions, client.dimensions)
}
