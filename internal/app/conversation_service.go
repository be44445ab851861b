package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"synapnote/internal/ai"
	"synapnote/internal/model"
)

var (
	ErrMessageEmpty         = errors.New("message is required")
	ErrConversationNotFound = errors.New("conversation not found")
)

// ConversationStore is the chat-session persistence layer.
type ConversationStore interface {
	Save(conversation *model.Conversation) error
	GetActiveSession(sessionID string, userID, noteID uint) (*model.Conversation, error)
	GetBySession(sessionID string, userID uint) (*model.Conversation, error)
	ListActive(userID, noteID uint, sessionID string, limit int) ([]model.Conversation, error)
	Deactivate(sessionID string, userID uint) (bool, error)
	Delete(sessionID string, userID uint) (bool, error)
	DeleteStale(cutoff time.Time) (int64, error)
}

// ConversationCache is the optional Redis-backed history cache.
type ConversationCache interface {
	GetHistory(ctx context.Context, userID, noteID uint, sessionID string) ([]model.Conversation, bool, error)
	SetHistory(ctx context.Context, userID, noteID uint, sessionID string, conversations []model.Conversation) error
	DeleteHistory(ctx context.Context, userID, noteID uint, sessionID string) error
	MarkDirty(ctx context.Context, userID, noteID uint, sessionID string) error
	IsDirty(ctx context.Context, userID, noteID uint, sessionID string) (bool, error)
}

type ConversationService struct {
	conversationStore ConversationStore
	noteStore         NoteStore
	historyCache      ConversationCache
	generator         TextGenerator
	llm               ai.ChatConfig
	maxMessages       int
	contextMessages   int
}

type SendTurnInput struct {
	UserID    uint
	NoteID    uint
	Message   string
	SessionID string
}

type TurnResult struct {
	Response       string `json:"response"`
	SessionID      string `json:"session_id"`
	ConversationID uint   `json:"conversation_id"`
}

func NewConversationService(
	conversationStore ConversationStore,
	noteStore NoteStore,
	historyCache ConversationCache,
	generator TextGenerator,
	llm ai.ChatConfig,
	maxMessages int,
	contextMessages int,
) *ConversationService {
	if maxMessages <= 0 {
		maxMessages = 50
	}
	if contextMessages <= 0 {
		contextMessages = 10
	}
	return &ConversationService{
		conversationStore: conversationStore,
		noteStore:         noteStore,
		historyCache:      historyCache,
		generator:         generator,
		llm:               llm,
		maxMessages:       maxMessages,
		contextMessages:   contextMessages,
	}
}

// SendTurn runs one chat turn against a note: loads or lazily creates the
// session, assembles bounded context, calls the AI collaborator and appends
// both sides of the turn. On AI failure nothing is persisted.
func (s *ConversationService) SendTurn(ctx context.Context, input SendTurnInput) (*TurnResult, error) {
	message := strings.TrimSpace(input.Message)
	if input.UserID == 0 || input.NoteID == 0 {
		return nil, ErrInvalidInput
	}
	if message == "" {
		return nil, ErrMessageEmpty
	}

	note, err := s.noteStore.GetByIDAndUserID(input.NoteID, input.UserID)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, ErrNoteNotFound
	}

	var conversation *model.Conversation
	if input.SessionID != "" {
		conversation, err = s.conversationStore.GetActiveSession(input.SessionID, input.UserID, input.NoteID)
		if err != nil {
			return nil, err
		}
	}
	if conversation == nil {
		conversation = &model.Conversation{
			SessionID:    newSessionID(input.NoteID),
			UserID:       input.UserID,
			NoteID:       input.NoteID,
			IsActive:     true,
			LastActivity: time.Now(),
		}
		conversation.SetMessageLog(nil)
	}

	prompt := ai.NoteChatPrompt(
		noteContext(note),
		renderHistory(conversation.RecentMessages(s.contextMessages)),
		message,
	)
	reply, err := s.generator.Generate(ctx, s.llm, prompt)
	if err != nil {
		return nil, err
	}

	s.invalidateHistory(ctx, input.UserID, input.NoteID, conversation.SessionID)

	conversation.AppendMessage(model.RoleUser, message, s.maxMessages)
	if err := s.conversationStore.Save(conversation); err != nil {
		return nil, err
	}
	conversation.AppendMessage(model.RoleAssistant, reply, s.maxMessages)
	if err := s.conversationStore.Save(conversation); err != nil {
		return nil, err
	}

	return &TurnResult{
		Response:       reply,
		SessionID:      conversation.SessionID,
		ConversationID: conversation.ID,
	}, nil
}

// GetHistory returns active sessions for (userID, noteID), newest activity
// first: at most 10 when unscoped, exactly the one session when scoped.
func (s *ConversationService) GetHistory(ctx context.Context, userID, noteID uint, sessionID string) ([]model.Conversation, error) {
	if userID == 0 || noteID == 0 {
		return nil, ErrInvalidInput
	}

	note, err := s.noteStore.GetByIDAndUserID(noteID, userID)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, ErrNoteNotFound
	}

	if s.historyCache != nil {
		dirty, err := s.historyCache.IsDirty(ctx, userID, noteID, sessionID)
		if err == nil && !dirty {
			if cached, hit, cacheErr := s.historyCache.GetHistory(ctx, userID, noteID, sessionID); cacheErr == nil && hit {
				return cached, nil
			}
		}
	}

	limit := 10
	if sessionID != "" {
		limit = 1
	}
	conversations, err := s.conversationStore.ListActive(userID, noteID, sessionID, limit)
	if err != nil {
		return nil, err
	}

	if s.historyCache != nil {
		if dirty, dirtyErr := s.historyCache.IsDirty(ctx, userID, noteID, sessionID); dirtyErr == nil && !dirty {
			_ = s.historyCache.SetHistory(ctx, userID, noteID, sessionID, conversations)
		}
	}
	return conversations, nil
}

// Clear marks the session inactive; the record and its note association are
// kept.
func (s *ConversationService) Clear(ctx context.Context, sessionID string, userID uint) error {
	if sessionID == "" || userID == 0 {
		return ErrInvalidInput
	}

	found, err := s.conversationStore.Deactivate(sessionID, userID)
	if err != nil {
		return err
	}
	if !found {
		return ErrConversationNotFound
	}
	s.invalidateBySession(ctx, sessionID, userID)
	return nil
}

// Delete physically removes the session.
func (s *ConversationService) Delete(ctx context.Context, sessionID string, userID uint) error {
	if sessionID == "" || userID == 0 {
		return ErrInvalidInput
	}

	s.invalidateBySession(ctx, sessionID, userID)

	found, err := s.conversationStore.Delete(sessionID, userID)
	if err != nil {
		return err
	}
	if !found {
		return ErrConversationNotFound
	}
	return nil
}

// PurgeStale removes sessions whose last activity predates now minus the
// given day threshold; returns the number purged.
func (s *ConversationService) PurgeStale(maxAgeDays int) (int64, error) {
	if maxAgeDays <= 0 {
		maxAgeDays = 7
	}
	cutoff := time.Now().AddDate(0, 0, -maxAgeDays)
	return s.conversationStore.DeleteStale(cutoff)
}

func (s *ConversationService) invalidateHistory(ctx context.Context, userID, noteID uint, sessionID string) {
	if s.historyCache == nil {
		return
	}
	// Both the scoped entry and the unscoped listing are stale now.
	_ = s.historyCache.MarkDirty(ctx, userID, noteID, sessionID)
	_ = s.historyCache.DeleteHistory(ctx, userID, noteID, sessionID)
	_ = s.historyCache.MarkDirty(ctx, userID, noteID, "")
	_ = s.historyCache.DeleteHistory(ctx, userID, noteID, "")
}

func (s *ConversationService) invalidateBySession(ctx context.Context, sessionID string, userID uint) {
	if s.historyCache == nil {
		return
	}
	conversation, err := s.conversationStore.GetBySession(sessionID, userID)
	if err != nil || conversation == nil {
		return
	}
	s.invalidateHistory(ctx, userID, conversation.NoteID, sessionID)
}

// noteContext renders the fixed textual form of a note for the chat prompt.
func noteContext(note *model.Note) string {
	context := fmt.Sprintf("Title: %s\nContent: %s", note.Title, note.Content)
	if note.Summary != "" {
		context += "\nSummary: " + note.Summary
	}
	return context
}

// renderHistory renders messages oldest-first as alternating speaker lines.
func renderHistory(messages []model.ConversationMessage) string {
	lines := make([]string, 0, len(messages))
	for _, msg := range messages {
		speaker := "Assistant"
		if msg.Role == model.RoleUser {
			speaker = "User"
		}
		lines = append(lines, speaker+": "+msg.Content)
	}
	return strings.Join(lines, "\n")
}

// newSessionID synthesizes a unique session id from the note id, the current
// time and random entropy.
func newSessionID(noteID uint) string {
	entropy := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("note_%d_%d_%s", noteID, time.Now().UnixMilli(), entropy)
}
