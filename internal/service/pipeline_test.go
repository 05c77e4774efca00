package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docyard-ai/docyard/internal/domain"
)

// wordCountEmbedder produces a deterministic embedding from word
// occurrence counts so retrieval math behaves like the real thing.
type wordCountEmbedder struct {
	vocab []string
}

func (e *wordCountEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	words := strings.Fields(strings.ToLower(text))
	v := make([]float32, len(e.vocab))
	for i, term := range e.vocab {
		for _, w := range words {
			if strings.Trim(w, ".,?!") == term {
				v[i]++
			}
		}
	}
	return v, nil
}

// memoryStore implements both repository interfaces over a map with
// cosine-distance ranking.
type memoryStore struct {
	docs []*domain.Document
}

func (s *memoryStore) Create(ctx context.Context, d *domain.Document) error {
	for _, existing := range s.docs {
		if existing.ID == d.ID {
			return domain.ErrDuplicateDocument
		}
	}
	s.docs = append(s.docs, d)
	return nil
}

func (s *memoryStore) Count(ctx context.Context) (int64, error) {
	return int64(len(s.docs)), nil
}

func (s *memoryStore) SearchByEmbedding(ctx context.Context, embedding []float32, limit int) ([]*RetrievedContext, error) {
	results := make([]*RetrievedContext, 0, len(s.docs))
	for _, d := range s.docs {
		results = append(results, &RetrievedContext{
			DocumentID: d.ID,
			Filename:   d.Filename,
			Text:       d.Text,
			Score:      float32(1.0 / (1.0 + cosineDistance(embedding, d.Embedding))),
		})
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func cosineDistance(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(na)*math.Sqrt(nb))
}

// echoLLM answers with the first context line so the test can verify
// what the prompt carried.
type echoLLM struct{}

func (l *echoLLM) GenerateAnswer(ctx context.Context, system, prompt string) (string, error) {
	for _, line := range strings.Split(prompt, "\n") {
		if strings.HasPrefix(line, "[1] ") {
			return strings.TrimPrefix(line, "[1] "), nil
		}
	}
	return "", fmt.Errorf("no context in prompt")
}

type passthroughExtractor struct{}

func (e *passthroughExtractor) Text(data []byte, ext string) (string, error) {
	return string(data), nil
}

func TestPipeline_UploadThenAsk(t *testing.T) {
	embedder := &wordCountEmbedder{vocab: []string{"paris", "capital", "france", "cheese", "wine", "grapes", "region"}}
	store := &memoryStore{}

	ingest := NewIngestServiceWithConfig(&passthroughExtractor{}, embedder, store, nil, IngestConfig{
		EmbeddingDimensions: 7,
	})
	query := NewQueryServiceWithConfig(embedder, store, &echoLLM{}, nil, QueryConfig{RetrievalK: 1})

	ctx := context.Background()

	_, err := ingest.Ingest(ctx, IngestInput{
		Filename:    "geography.txt",
		ContentType: "text/plain",
		Data:        []byte("Paris is the capital of France."),
	})
	require.NoError(t, err)

	_, err = ingest.Ingest(ctx, IngestInput{
		Filename:    "food.txt",
		ContentType: "text/plain",
		Data:        []byte("Cheese and wine come from grapes grown in the region."),
	})
	require.NoError(t, err)

	result, err := query.Answer(ctx, AskInput{Question: "What is the capital of France?"})
	require.NoError(t, err)

	assert.Equal(t, "Paris is the capital of France.", result.Answer)
	require.Len(t, result.Sources, 1)
	assert.Equal(t, "geography.txt", result.Sources[0].Filename)

	result, err = query.Answer(ctx, AskInput{Question: "Where does cheese and wine come from?"})
	require.NoError(t, err)
	assert.Equal(t, "food.txt", result.Sources[0].Filename)
}

func TestPipeline_AskBeforeAnyUpload(t *testing.T) {
	embedder := &wordCountEmbedder{vocab: []string{"anything"}}
	store := &memoryStore{}
	query := NewQueryServiceWithConfig(embedder, store, &echoLLM{}, nil, QueryConfig{RetrievalK: 3})

	_, err := query.Answer(context.Background(), AskInput{Question: "anything at all?"})

	assert.ErrorIs(t, err, domain.ErrNoContext)
}

func TestPipeline_CountTracksIngests(t *testing.T) {
	embedder := &wordCountEmbedder{vocab: []string{"a", "b"}}
	store := &memoryStore{}
	ingest := NewIngestServiceWithConfig(&passthroughExtractor{}, embedder, store, nil, IngestConfig{
		EmbeddingDimensions: 2,
	})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := ingest.Ingest(ctx, IngestInput{
			Filename:    fmt.Sprintf("doc%d.txt", i),
			ContentType: "text/plain",
			Data:        []byte(fmt.Sprintf("a b document %d", i)),
		})
		require.NoError(t, err)
	}

	count, err := ingest.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}
