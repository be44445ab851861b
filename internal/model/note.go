package model

import (
	"encoding/json"
	"strings"
	"time"
)

// Note holds a user document plus AI-derived keywords and summary.
// Tags and Keywords are stored as JSON arrays of lowercased strings in
// text columns so that a note write stays a single-row operation.
type Note struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Title     string    `gorm:"size:256;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Summary   string    `gorm:"type:text" json:"summary"`
	Keywords  string    `gorm:"type:text" json:"-"`
	Tags      string    `gorm:"type:text" json:"-"`
	Pinned    bool      `gorm:"not null;default:false" json:"pinned"`
	Archived  bool      `gorm:"not null;default:false" json:"archived"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// KeywordList returns the parsed keyword set; empty on parse error.
func (n *Note) KeywordList() []string {
	return decodeStringList(n.Keywords)
}

// SetKeywords stores the keywords as JSON, lowercased.
func (n *Note) SetKeywords(keywords []string) {
	n.Keywords = encodeStringList(keywords)
}

// TagList returns the parsed tag set; empty on parse error.
func (n *Note) TagList() []string {
	return decodeStringList(n.Tags)
}

// SetTags stores the tags as JSON, lowercased.
func (n *Note) SetTags(tags []string) {
	n.Tags = encodeStringList(tags)
}

// MarshalJSON exposes tags and keywords as arrays on the wire.
func (n Note) MarshalJSON() ([]byte, error) {
	type alias Note
	return json.Marshal(struct {
		alias
		Keywords []string `json:"keywords"`
		Tags     []string `json:"tags"`
	}{
		alias:    alias(n),
		Keywords: n.KeywordList(),
		Tags:     n.TagList(),
	})
}

func encodeStringList(values []string) string {
	cleaned := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			cleaned = append(cleaned, v)
		}
	}
	b, _ := json.Marshal(cleaned)
	return string(b)
}

func decodeStringList(raw string) []string {
	if raw == "" {
		return []string{}
	}
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return []string{}
	}
	return values
}
