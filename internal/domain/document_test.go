package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validDocument() *Document {
	return NewDocument(
		"11111111-2222-3333-4444-555555555555",
		"facts.txt",
		"text/plain",
		"Paris is the capital of France.",
		[]float32{0.1, 0.2, 0.3, 0.4},
		time.Now().UTC(),
	)
}

func TestValidateDocument(t *testing.T) {
	assert.NoError(t, ValidateDocument(validDocument(), 4))
}

func TestValidateDocument_Nil(t *testing.T) {
	assert.Error(t, ValidateDocument(nil, 4))
}

func TestValidateDocument_MissingFields(t *testing.T) {
	d := validDocument()
	d.ID = ""
	assert.Error(t, ValidateDocument(d, 4))

	d = validDocument()
	d.Text = ""
	assert.Error(t, ValidateDocument(d, 4))

	d = validDocument()
	d.Embedding = nil
	assert.Error(t, ValidateDocument(d, 4))
}

func TestValidateDocument_DimensionMismatch(t *testing.T) {
	d := validDocument()
	assert.Error(t, ValidateDocument(d, 1536))

	// Zero expected dimension skips the check
	assert.NoError(t, ValidateDocument(d, 0))
}

func TestValidateConversationTurn(t *testing.T) {
	turn := NewConversationTurn("t1", "s1", TurnRoleUser, "hello", time.Now().UTC())
	assert.NoError(t, ValidateConversationTurn(turn))

	assert.Error(t, ValidateConversationTurn(nil))

	bad := NewConversationTurn("", "s1", TurnRoleUser, "hello", time.Now().UTC())
	assert.Error(t, ValidateConversationTurn(bad))

	bad = NewConversationTurn("t1", "", TurnRoleUser, "hello", time.Now().UTC())
	assert.Error(t, ValidateConversationTurn(bad))

	bad = NewConversationTurn("t1", "s1", TurnRoleUser, "", time.Now().UTC())
	assert.Error(t, ValidateConversationTurn(bad))

	bad = NewConversationTurn("t1", "s1", TurnRole("system"), "hello", time.Now().UTC())
	assert.Error(t, ValidateConversationTurn(bad))
}
