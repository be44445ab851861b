package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"synapnote/internal/model"
)

type NoteRepository struct {
	db *gorm.DB
}

func NewNoteRepository(db *gorm.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

func (r *NoteRepository) Create(note *model.Note) error {
	if err := r.db.Create(note).Error; err != nil {
		return fmt.Errorf("create note failed: %w", err)
	}
	return nil
}

func (r *NoteRepository) Save(note *model.Note) error {
	if err := r.db.Save(note).Error; err != nil {
		return fmt.Errorf("save note failed: %w", err)
	}
	return nil
}

func (r *NoteRepository) GetByIDAndUserID(noteID, userID uint) (*model.Note, error) {
	var note model.Note
	if err := r.db.Where("id = ? AND user_id = ?", noteID, userID).First(&note).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get note failed: %w", err)
	}
	return &note, nil
}

func (r *NoteRepository) ListByUserID(userID uint) ([]model.Note, error) {
	var notes []model.Note
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&notes).Error; err != nil {
		return nil, fmt.Errorf("list notes failed: %w", err)
	}
	return notes, nil
}

func (r *NoteRepository) DeleteByIDAndUserID(noteID, userID uint) (bool, error) {
	result := r.db.Where("id = ? AND user_id = ?", noteID, userID).Delete(&model.Note{})
	if result.Error != nil {
		return false, fmt.Errorf("delete note failed: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Search matches the query literally and case-insensitively against title,
// tags and keywords. LIKE wildcards in the query are escaped so user input
// never acts as a pattern.
func (r *NoteRepository) Search(userID uint, query string) ([]model.Note, error) {
	pattern := "%" + EscapeLike(strings.ToLower(query)) + "%"

	var notes []model.Note
	err := r.db.
		Where("user_id = ?", userID).
		Where("LOWER(title) LIKE ? OR LOWER(tags) LIKE ? OR LOWER(keywords) LIKE ?", pattern, pattern, pattern).
		Order("created_at DESC").
		Find(&notes).Error
	if err != nil {
		return nil, fmt.Errorf("search notes failed: %w", err)
	}
	return notes, nil
}

// ListByTag matches exact membership in the normalized tag set. Tags are
// stored as a JSON array of lowercased strings, so an exact element match is
// a quoted substring match.
func (r *NoteRepository) ListByTag(userID uint, tag string) ([]model.Note, error) {
	pattern := tagPattern(strings.ToLower(tag))

	var notes []model.Note
	err := r.db.
		Where("user_id = ?", userID).
		Where("tags LIKE ?", pattern).
		Order("created_at DESC").
		Find(&notes).Error
	if err != nil {
		return nil, fmt.Errorf("list notes by tag failed: %w", err)
	}
	return notes, nil
}

// EscapeLike escapes the LIKE metacharacters so the input matches literally.
func EscapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// tagPattern builds the LIKE pattern matching one element of a stored tag
// array. The tag is JSON-encoded first so its escaping matches the column
// contents exactly, quotes and backslashes included.
func tagPattern(tag string) string {
	encoded, _ := json.Marshal(tag)
	return "%" + EscapeLike(string(encoded)) + "%"
}
