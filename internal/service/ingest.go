package service

import (
	"context"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/docyard-ai/docyard/internal/domain"
	"github.com/docyard-ai/docyard/internal/telemetry"
)

// Content types accepted by the ingestion pipeline
const (
	ContentTypePDF = "application/pdf"
	ContentTypeTXT = "text/plain"
)

// TextExtractor converts raw file bytes plus a declared extension into plain text
type TextExtractor interface {
	Text(data []byte, ext string) (string, error)
}

// EmbeddingClient defines the interface for generating embeddings
type EmbeddingClient interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// IngestDocumentRepository defines the repository interface for document ingestion
type IngestDocumentRepository interface {
	Create(ctx context.Context, d *domain.Document) error
	Count(ctx context.Context) (int64, error)
}

// UploadArchiver archives raw upload bytes to external storage
type UploadArchiver interface {
	Archive(ctx context.Context, key string, contentType string, data []byte) error
}

// UUIDGenerator defines interface for UUID generation (for testing)
type UUIDGenerator interface {
	NewString() string
}

// DefaultUUIDGenerator is the default UUID generator using google/uuid
type DefaultUUIDGenerator struct{}

// NewString generates a new UUID string
func (g *DefaultUUIDGenerator) NewString() string {
	return uuid.NewString()
}

var _ UUIDGenerator = (*DefaultUUIDGenerator)(nil)

// IngestConfig controls ingestion behavior.
type IngestConfig struct {
	EmbeddingDimensions int
	EmbedTimeout        time.Duration
}

// DefaultIngestConfig provides sane defaults for ingestion.
func DefaultIngestConfig() IngestConfig {
	return IngestConfig{
		EmbeddingDimensions: 1536,
		EmbedTimeout:        30 * time.Second,
	}
}

// IngestService runs the ingestion pipeline: validate type, extract
// text, embed, store. Every step is a hard gate; nothing is written
// until the full document (text plus embedding) is assembled, and the
// write itself is a single row so the store never exposes a partial
// document.
type IngestService struct {
	extractor TextExtractor
	embedder  EmbeddingClient
	repo      IngestDocumentRepository
	archiver  UploadArchiver
	uuidGen   UUIDGenerator
	cfg       IngestConfig
}

// NewIngestService creates a new IngestService instance
func NewIngestService(
	extractor TextExtractor,
	embedder EmbeddingClient,
	repo IngestDocumentRepository,
) *IngestService {
	return NewIngestServiceWithConfig(extractor, embedder, repo, nil, DefaultIngestConfig())
}

// NewIngestServiceWithConfig creates a new IngestService with explicit configuration.
func NewIngestServiceWithConfig(
	extractor TextExtractor,
	embedder EmbeddingClient,
	repo IngestDocumentRepository,
	archiver UploadArchiver,
	cfg IngestConfig,
) *IngestService {
	if cfg.EmbedTimeout <= 0 {
		cfg.EmbedTimeout = DefaultIngestConfig().EmbedTimeout
	}
	return &IngestService{
		extractor: extractor,
		embedder:  embedder,
		repo:      repo,
		archiver:  archiver,
		uuidGen:   &DefaultUUIDGenerator{},
		cfg:       cfg,
	}
}

// WithUUIDGenerator overrides the UUID generator (for testing).
func (s *IngestService) WithUUIDGenerator(gen UUIDGenerator) *IngestService {
	s.uuidGen = gen
	return s
}

// IngestInput represents one uploaded file
type IngestInput struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Ingest runs the full pipeline for one uploaded file and returns the
// stored document. On any failure the store is left unchanged.
func (s *IngestService) Ingest(ctx context.Context, input IngestInput) (*domain.Document, error) {
	ctx, span := telemetry.StartSpan(ctx, "IngestService.Ingest", telemetry.SpanAttributes{
		Filename:  input.Filename,
		Operation: "ingest",
	})
	defer span.End()

	if !isSupportedContentType(input.ContentType) {
		return nil, domain.ErrUnsupportedType
	}

	ext := strings.ToLower(filepath.Ext(input.Filename))
	text, err := s.extractor.Text(input.Data, ext)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrEmptyContent
	}

	embedCtx, cancel := context.WithTimeout(ctx, s.cfg.EmbedTimeout)
	defer cancel()
	embedding, err := s.embedder.GenerateEmbedding(embedCtx, text)
	if err != nil {
		return nil, domain.ErrEmbeddingFailed.WithCause(err)
	}

	doc := &domain.Document{
		ID:          s.uuidGen.NewString(),
		Filename:    input.Filename,
		ContentType: input.ContentType,
		Text:        text,
		Embedding:   embedding,
		CreatedAt:   time.Now().UTC(),
	}

	if err := domain.ValidateDocument(doc, s.cfg.EmbeddingDimensions); err != nil {
		return nil, domain.ErrEmbeddingFailed.WithCause(err)
	}

	if err := s.repo.Create(ctx, doc); err != nil {
		if de, ok := err.(*domain.DomainError); ok {
			return nil, de
		}
		return nil, domain.ErrStorageFailed.WithCause(err)
	}

	// Best effort: losing the raw bytes never fails an ingestion that
	// already committed.
	if s.archiver != nil {
		if err := s.archiver.Archive(ctx, doc.ID+"/"+doc.Filename, doc.ContentType, input.Data); err != nil {
			log.Printf("upload archive failed for document %s: %v", doc.ID, err)
		}
	}

	return doc, nil
}

// Count returns the number of stored documents.
func (s *IngestService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func isSupportedContentType(contentType string) bool {
	// Content types may carry parameters, e.g. "text/plain; charset=utf-8"
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = contentType[:i]
	}
	switch strings.TrimSpace(contentType) {
	case ContentTypePDF, ContentTypeTXT:
		return true
	}
	return false
}
