package model

import (
	"encoding/json"
	"time"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type ConversationMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation is a note-scoped chat session. The ordered message log is
// embedded as a JSON document so every append is a single-row write.
type Conversation struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SessionID    string    `gorm:"size:128;not null;uniqueIndex" json:"session_id"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	NoteID       uint      `gorm:"not null;index" json:"note_id"`
	Messages     string    `gorm:"type:text" json:"-"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	LastActivity time.Time `gorm:"index" json:"last_activity"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// MessageLog returns the parsed message log; empty on parse error.
func (c *Conversation) MessageLog() []ConversationMessage {
	if c.Messages == "" {
		return []ConversationMessage{}
	}
	var log []ConversationMessage
	if err := json.Unmarshal([]byte(c.Messages), &log); err != nil {
		return []ConversationMessage{}
	}
	return log
}

// SetMessageLog stores the message log as JSON.
func (c *Conversation) SetMessageLog(log []ConversationMessage) {
	if log == nil {
		log = []ConversationMessage{}
	}
	b, _ := json.Marshal(log)
	c.Messages = string(b)
}

// AppendMessage adds a message, evicts the oldest entries beyond maxMessages
// and refreshes the activity timestamp.
func (c *Conversation) AppendMessage(role, content string, maxMessages int) {
	log := append(c.MessageLog(), ConversationMessage{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	})
	if maxMessages > 0 && len(log) > maxMessages {
		log = log[len(log)-maxMessages:]
	}
	c.SetMessageLog(log)
	c.LastActivity = time.Now()
}

// RecentMessages returns up to limit messages from the tail of the log,
// oldest first.
func (c *Conversation) RecentMessages(limit int) []ConversationMessage {
	log := c.MessageLog()
	if limit <= 0 || limit >= len(log) {
		return log
	}
	return log[len(log)-limit:]
}

// MarshalJSON exposes the message log as an array on the wire.
func (c Conversation) MarshalJSON() ([]byte, error) {
	type alias Conversation
	return json.Marshal(struct {
		alias
		Messages []ConversationMessage `json:"messages"`
	}{
		alias:    alias(c),
		Messages: c.MessageLog(),
	})
}

// UnmarshalJSON restores the message log from the wire form, so cached
// conversations round-trip.
func (c *Conversation) UnmarshalJSON(data []byte) error {
	type alias Conversation
	aux := struct {
		*alias
		Messages []ConversationMessage `json:"messages"`
	}{alias: (*alias)(c)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	c.SetMessageLog(aux.Messages)
	return nil
}
