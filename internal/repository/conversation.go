package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/docyard-ai/docyard/internal/domain"
)

// ConversationRepository persists the additive per-session turn log.
type ConversationRepository struct {
	db dbtx
}

func NewConversationRepository(pool *pgxpool.Pool) *ConversationRepository {
	return &ConversationRepository{db: pool}
}

// Append inserts turns in order, all or nothing. The log is
// append-only; there is no update or delete path. Insertion order is
// preserved by the table's seq column, so a question/answer pair
// written in one call always lists in that order.
func (r *ConversationRepository) Append(ctx context.Context, turns ...*domain.ConversationTurn) error {
	for _, t := range turns {
		if err := domain.ValidateConversationTurn(t); err != nil {
			return err
		}
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, t := range turns {
		_, err := tx.Exec(ctx,
			`INSERT INTO conversation_turns (id, session_id, role, content, created_at)
			 VALUES ($1, $2, $3, $4, $5)`,
			t.ID, t.SessionID, t.Role, t.Content, t.CreatedAt,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// ListBySession returns a session's turns in insertion order.
func (r *ConversationRepository) ListBySession(ctx context.Context, sessionID string) ([]*domain.ConversationTurn, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, session_id, role, content, created_at
		 FROM conversation_turns WHERE session_id = $1 ORDER BY seq`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var turns []*domain.ConversationTurn
	for rows.Next() {
		var t domain.ConversationTurn
		if err := rows.Scan(&t.ID, &t.SessionID, &t.Role, &t.Content, &t.CreatedAt); err != nil {
			return nil, err
		}
		turns = append(turns, &t)
	}
	return turns, rows.Err()
}

func (r *ConversationRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM conversation_turns`).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
