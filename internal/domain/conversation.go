package domain

import (
	"fmt"
	"time"
)

// TurnRole identifies who produced a conversation turn
type TurnRole string

const (
	TurnRoleUser      TurnRole = "user"
	TurnRoleAssistant TurnRole = "assistant"
)

// ConversationTurn is one entry in a session's additive turn log.
// Turns are append-only; the query pipeline reads none of them when
// building a prompt (single-question answering only).
type ConversationTurn struct {
	ID        string
	SessionID string
	Role      TurnRole
	Content   string
	CreatedAt time.Time
}

// NewConversationTurn creates a new ConversationTurn instance
func NewConversationTurn(
	id, sessionID string,
	role TurnRole,
	content string,
	createdAt time.Time,
) *ConversationTurn {
	return &ConversationTurn{
		ID:        id,
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		CreatedAt: createdAt,
	}
}

// ValidateConversationTurn validates a ConversationTurn instance
func ValidateConversationTurn(t *ConversationTurn) error {
	if t == nil {
		return fmt.Errorf("conversation turn cannot be nil")
	}

	if t.ID == "" {
		return fmt.Errorf("conversation turn ID is required")
	}

	if t.SessionID == "" {
		return fmt.Errorf("conversation turn SessionID is required")
	}

	if t.Content == "" {
		return fmt.Errorf("conversation turn Content is required")
	}

	if !isValidTurnRole(t.Role) {
		return fmt.Errorf("conversation turn Role is invalid: %s", t.Role)
	}

	return nil
}

// isValidTurnRole checks if a TurnRole is valid
func isValidTurnRole(r TurnRole) bool {
	switch r {
	case TurnRoleUser, TurnRoleAssistant:
		return true
	}
	return false
}
