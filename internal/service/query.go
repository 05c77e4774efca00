package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/docyard-ai/docyard/internal/domain"
	"github.com/docyard-ai/docyard/internal/telemetry"
)

// RetrievedContext is one stored document returned by similarity search
type RetrievedContext struct {
	DocumentID string
	Filename   string
	Text       string
	Score      float32
}

// QueryDocumentRepository defines the repository interface for retrieval
type QueryDocumentRepository interface {
	SearchByEmbedding(ctx context.Context, embedding []float32, limit int) ([]*RetrievedContext, error)
}

// AnswerClient defines the interface for LLM answer generation
type AnswerClient interface {
	GenerateAnswer(ctx context.Context, system, prompt string) (string, error)
}

// ConversationRepositoryInterface defines the repository interface for the turn log
type ConversationRepositoryInterface interface {
	Append(ctx context.Context, turns ...*domain.ConversationTurn) error
}

// QueryConfig controls retrieval and generation behavior.
type QueryConfig struct {
	RetrievalK   int
	EmbedTimeout time.Duration
	GenTimeout   time.Duration
}

// DefaultQueryConfig provides sane defaults for querying.
func DefaultQueryConfig() QueryConfig {
	return QueryConfig{
		RetrievalK:   3,
		EmbedTimeout: 30 * time.Second,
		GenTimeout:   60 * time.Second,
	}
}

const answerSystemPrompt = "You answer questions using only the provided context. " +
	"If the context does not contain the answer, say so."

// QueryService runs the query pipeline: embed the question, retrieve
// the top-k most similar documents, and condition a chat completion on
// them. The same embedding client as ingestion must be injected here;
// vectors from different models are not comparable.
type QueryService struct {
	embedder     EmbeddingClient
	repo         QueryDocumentRepository
	llm          AnswerClient
	conversation ConversationRepositoryInterface
	uuidGen      UUIDGenerator
	cfg          QueryConfig
}

// NewQueryService creates a new QueryService instance
func NewQueryService(
	embedder EmbeddingClient,
	repo QueryDocumentRepository,
	llm AnswerClient,
) *QueryService {
	return NewQueryServiceWithConfig(embedder, repo, llm, nil, DefaultQueryConfig())
}

// NewQueryServiceWithConfig creates a new QueryService with explicit configuration.
func NewQueryServiceWithConfig(
	embedder EmbeddingClient,
	repo QueryDocumentRepository,
	llm AnswerClient,
	conversation ConversationRepositoryInterface,
	cfg QueryConfig,
) *QueryService {
	if cfg.RetrievalK <= 0 {
		cfg.RetrievalK = DefaultQueryConfig().RetrievalK
	}
	if cfg.EmbedTimeout <= 0 {
		cfg.EmbedTimeout = DefaultQueryConfig().EmbedTimeout
	}
	if cfg.GenTimeout <= 0 {
		cfg.GenTimeout = DefaultQueryConfig().GenTimeout
	}
	return &QueryService{
		embedder:     embedder,
		repo:         repo,
		llm:          llm,
		conversation: conversation,
		uuidGen:      &DefaultUUIDGenerator{},
		cfg:          cfg,
	}
}

// AskInput represents one user question
type AskInput struct {
	Question  string
	SessionID string
}

// AnswerResult is the generated answer plus the retrieved context it was grounded on
type AnswerResult struct {
	Answer  string
	Sources []*RetrievedContext
}

// Answer runs the full query pipeline for one question. An empty store
// (or zero retrieved matches) is an explicit ErrNoContext failure, not
// an ungrounded completion.
func (s *QueryService) Answer(ctx context.Context, input AskInput) (*AnswerResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "QueryService.Answer", telemetry.SpanAttributes{
		SessionID: input.SessionID,
		Operation: "answer",
	})
	defer span.End()

	question := strings.TrimSpace(input.Question)
	if question == "" {
		return nil, domain.ErrInvalidQuestion
	}

	embedCtx, cancelEmbed := context.WithTimeout(ctx, s.cfg.EmbedTimeout)
	defer cancelEmbed()
	embedding, err := s.embedder.GenerateEmbedding(embedCtx, question)
	if err != nil {
		return nil, domain.ErrEmbeddingFailed.WithCause(err)
	}

	contexts, err := s.repo.SearchByEmbedding(ctx, embedding, s.cfg.RetrievalK)
	if err != nil {
		return nil, domain.ErrStorageFailed.WithCause(err)
	}
	if len(contexts) == 0 {
		return nil, domain.ErrNoContext
	}

	prompt := buildPrompt(contexts, question)

	genCtx, cancelGen := context.WithTimeout(ctx, s.cfg.GenTimeout)
	defer cancelGen()
	answer, err := s.llm.GenerateAnswer(genCtx, answerSystemPrompt, prompt)
	if err != nil {
		return nil, domain.ErrGenerationFailed.WithCause(err)
	}

	s.recordTurns(ctx, input.SessionID, question, answer)

	return &AnswerResult{
		Answer:  answer,
		Sources: contexts,
	}, nil
}

// buildPrompt assembles retrieved texts plus the question into a single
// stuffed prompt. No summarization, no iterative refinement.
func buildPrompt(contexts []*RetrievedContext, question string) string {
	var b strings.Builder
	b.WriteString("Context:\n")
	for i, c := range contexts {
		fmt.Fprintf(&b, "[%d] %s\n", i+1, c.Text)
	}
	b.WriteString("\nQuestion: ")
	b.WriteString(question)
	return b.String()
}

// recordTurns appends the user question and assistant answer to the
// session's turn log. The log is additive UI state; a write failure is
// logged but never fails an answer that was already generated.
func (s *QueryService) recordTurns(ctx context.Context, sessionID, question, answer string) {
	if s.conversation == nil || sessionID == "" {
		return
	}

	now := time.Now().UTC()
	turns := []*domain.ConversationTurn{
		{
			ID:        s.uuidGen.NewString(),
			SessionID: sessionID,
			Role:      domain.TurnRoleUser,
			Content:   question,
			CreatedAt: now,
		},
		{
			ID:        s.uuidGen.NewString(),
			SessionID: sessionID,
			Role:      domain.TurnRoleAssistant,
			Content:   answer,
			CreatedAt: now,
		},
	}

	if err := s.conversation.Append(ctx, turns...); err != nil {
		log.Printf("conversation log append failed for session %s: %v", sessionID, err)
	}
}
