package domain

import (
	"fmt"
	"time"
)

// Document represents one ingested file: its extracted text and the
// embedding computed from that text at ingestion time. Documents are
// immutable once stored.
type Document struct {
	ID          string
	Filename    string
	ContentType string
	Text        string
	Embedding   []float32
	CreatedAt   time.Time
}

// NewDocument creates a new Document instance
func NewDocument(
	id, filename, contentType, text string,
	embedding []float32,
	createdAt time.Time,
) *Document {
	return &Document{
		ID:          id,
		Filename:    filename,
		ContentType: contentType,
		Text:        text,
		Embedding:   embedding,
		CreatedAt:   createdAt,
	}
}

// ValidateDocument validates a Document instance before storage.
// A document must carry both its text and a complete embedding; partial
// documents are never written.
func ValidateDocument(d *Document, embeddingDim int) error {
	if d == nil {
		return fmt.Errorf("document cannot be nil")
	}

	if d.ID == "" {
		return fmt.Errorf("document ID is required")
	}

	if d.Text == "" {
		return fmt.Errorf("document Text is required")
	}

	if len(d.Embedding) == 0 {
		return fmt.Errorf("document Embedding is required")
	}

	if embeddingDim > 0 && len(d.Embedding) != embeddingDim {
		return fmt.Errorf("document Embedding has dimension %d, expected %d", len(d.Embedding), embeddingDim)
	}

	return nil
}
