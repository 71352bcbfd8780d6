// Package entities contains core business entities.
// These are the enterprise business rules - pure domain objects with no external dependencies.
package entities

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a conversation turn.
type Role string

const (
	// RoleUser marks a turn typed by the person at the keyboard.
	RoleUser Role = "user"
	// RoleAssistant marks a turn produced by the remote assistant
	// (including locally synthesized failure notices).
	RoleAssistant Role = "assistant"
)

// Citation attributes an assistant turn to an ingested item.
// URL and Filename are each optional; a plain-text-derived citation
// may carry neither. Views must handle all three combinations.
type Citation struct {
	Source   string `json:"source"`
	URL      string `json:"url,omitempty"`
	Filename string `json:"filename,omitempty"`
}

// Turn is one immutable entry in the conversation transcript.
// Once appended to a Conversation it is never edited or reordered.
type Turn struct {
	ID        string
	Role      Role
	Content   string
	Sources   []Citation // only meaningful when Role == RoleAssistant
	CreatedAt time.Time
}

// ChatReply is the normalized success payload of the remote chat endpoint.
type ChatReply struct {
	Text    string
	Sources []Citation
}

// NewUserTurn creates a user-authored turn.
func NewUserTurn(content string) Turn {
	return Turn{
		ID:        uuid.NewString(),
		Role:      RoleUser,
		Content:   content,
		CreatedAt: time.Now(),
	}
}

// NewAssistantTurn creates an assistant-authored turn with optional citations.
func NewAssistantTurn(content string, sources []Citation) Turn {
	return Turn{
		ID:        uuid.NewString(),
		Role:      RoleAssistant,
		Content:   content,
		Sources:   sources,
		CreatedAt: time.Now(),
	}
}
