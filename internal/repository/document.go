package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/docyard-ai/docyard/internal/domain"
	"github.com/docyard-ai/docyard/internal/service"
)

// pgUniqueViolation is the Postgres error code for unique constraint violations
const pgUniqueViolation = "23505"

type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// DocumentRepository persists documents and their embeddings in
// Postgres with pgvector. A document is one row, so text and embedding
// are committed together or not at all.
type DocumentRepository struct {
	db dbtx
}

func NewDocumentRepository(pool *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{db: pool}
}

func NewDocumentRepositoryWithTx(tx pgx.Tx) *DocumentRepository {
	return &DocumentRepository{db: tx}
}

func (r *DocumentRepository) Create(ctx context.Context, d *domain.Document) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO documents (id, filename, content_type, text_content, embedding, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		d.ID, d.Filename, d.ContentType, d.Text, pgvector.NewVector(d.Embedding), d.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return domain.ErrDuplicateDocument
		}
		return err
	}
	return nil
}

func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	var d domain.Document
	var embedding pgvector.Vector
	err := r.db.QueryRow(ctx,
		`SELECT id, filename, content_type, text_content, embedding, created_at
		 FROM documents WHERE id = $1`,
		id,
	).Scan(&d.ID, &d.Filename, &d.ContentType, &d.Text, &embedding, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, err
	}
	d.Embedding = embedding.Slice()
	return &d, nil
}

// GetAll returns every stored document with its full text. Used for
// bulk analytics; insertion order is not meaningful.
func (r *DocumentRepository) GetAll(ctx context.Context) ([]*domain.Document, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, filename, content_type, text_content, embedding, created_at
		 FROM documents ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*domain.Document
	for rows.Next() {
		var d domain.Document
		var embedding pgvector.Vector
		if err := rows.Scan(&d.ID, &d.Filename, &d.ContentType, &d.Text, &embedding, &d.CreatedAt); err != nil {
			return nil, err
		}
		d.Embedding = embedding.Slice()
		results = append(results, &d)
	}
	return results, rows.Err()
}

func (r *DocumentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM documents`).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// SearchByEmbedding returns up to limit documents ranked by cosine
// similarity to the query embedding. An empty store yields an empty
// slice, not an error.
func (r *DocumentRepository) SearchByEmbedding(ctx context.Context, embedding []float32, limit int) ([]*service.RetrievedContext, error) {
	if limit <= 0 {
		limit = 3
	}

	vec := pgvector.NewVector(embedding)

	rows, err := r.db.Query(ctx,
		`SELECT id, filename, text_content,
		        1.0 / (1.0 + (embedding <=> $1)) AS score
		 FROM documents
		 ORDER BY embedding <=> $1, id
		 LIMIT $2`,
		vec, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]*service.RetrievedContext, 0)
	for rows.Next() {
		var rc service.RetrievedContext
		if err := rows.Scan(&rc.DocumentID, &rc.Filename, &rc.Text, &rc.Score); err != nil {
			return nil, err
		}
		results = append(results, &rc)
	}
	return results, rows.Err()
}
