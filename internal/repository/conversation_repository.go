package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"synapnote/internal/model"
)

type ConversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

func (r *ConversationRepository) Save(conversation *model.Conversation) error {
	if err := r.db.Save(conversation).Error; err != nil {
		return fmt.Errorf("save conversation failed: %w", err)
	}
	return nil
}

// GetActiveSession loads the active session matched by (sessionID, userID,
// noteID); nil when no such session exists.
func (r *ConversationRepository) GetActiveSession(sessionID string, userID, noteID uint) (*model.Conversation, error) {
	var conversation model.Conversation
	err := r.db.
		Where("session_id = ? AND user_id = ? AND note_id = ? AND is_active = ?", sessionID, userID, noteID, true).
		First(&conversation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get conversation failed: %w", err)
	}
	return &conversation, nil
}

// GetBySession loads the session matched by (sessionID, userID) regardless
// of its active flag; nil when no such session exists.
func (r *ConversationRepository) GetBySession(sessionID string, userID uint) (*model.Conversation, error) {
	var conversation model.Conversation
	err := r.db.
		Where("session_id = ? AND user_id = ?", sessionID, userID).
		First(&conversation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get conversation failed: %w", err)
	}
	return &conversation, nil
}

// ListActive returns active sessions for (userID, noteID), newest activity
// first. A non-empty sessionID narrows the result to that session.
func (r *ConversationRepository) ListActive(userID, noteID uint, sessionID string, limit int) ([]model.Conversation, error) {
	query := r.db.Where("user_id = ? AND note_id = ? AND is_active = ?", userID, noteID, true)
	if sessionID != "" {
		query = query.Where("session_id = ?", sessionID)
	}

	var conversations []model.Conversation
	if err := query.Order("last_activity DESC").Limit(limit).Find(&conversations).Error; err != nil {
		return nil, fmt.Errorf("list conversations failed: %w", err)
	}
	return conversations, nil
}

// Deactivate clears the active flag on the session matched by (sessionID,
// userID); reports whether a record was found. The lookup comes first because
// MySQL reports changed rows, not matched rows, for an UPDATE: an already
// inactive session must still count as found.
func (r *ConversationRepository) Deactivate(sessionID string, userID uint) (bool, error) {
	var conversation model.Conversation
	err := r.db.
		Where("session_id = ? AND user_id = ?", sessionID, userID).
		First(&conversation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("deactivate conversation failed: %w", err)
	}

	err = r.db.Model(&model.Conversation{}).
		Where("session_id = ? AND user_id = ?", sessionID, userID).
		Update("is_active", false).Error
	if err != nil {
		return false, fmt.Errorf("deactivate conversation failed: %w", err)
	}
	return true, nil
}

// Delete removes the session matched by (sessionID, userID); reports whether
// a record was found.
func (r *ConversationRepository) Delete(sessionID string, userID uint) (bool, error) {
	result := r.db.Where("session_id = ? AND user_id = ?", sessionID, userID).Delete(&model.Conversation{})
	if result.Error != nil {
		return false, fmt.Errorf("delete conversation failed: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// DeleteStale removes every session whose last activity predates the cutoff
// and returns the number of removed sessions.
func (r *ConversationRepository) DeleteStale(cutoff time.Time) (int64, error) {
	result := r.db.Where("last_activity < ?", cutoff).Delete(&model.Conversation{})
	if result.Error != nil {
		return 0, fmt.Errorf("delete stale conversations failed: %w", result.Error)
	}
	return result.RowsAffected, nil
}
