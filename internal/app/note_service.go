package app

import (
	"context"
	"errors"
	"strings"

	"synapnote/internal/ai"
	"synapnote/internal/model"
)

var (
	ErrNoteNotFound  = errors.New("note not found")
	ErrQueryTooShort = errors.New("search query must be at least 3 characters")
)

// NoteStore is the note persistence layer.
type NoteStore interface {
	Create(note *model.Note) error
	Save(note *model.Note) error
	GetByIDAndUserID(noteID, userID uint) (*model.Note, error)
	ListByUserID(userID uint) ([]model.Note, error)
	DeleteByIDAndUserID(noteID, userID uint) (bool, error)
	Search(userID uint, query string) ([]model.Note, error)
	ListByTag(userID uint, tag string) ([]model.Note, error)
}

// TextGenerator is the generative-AI collaborator.
type TextGenerator interface {
	Generate(ctx context.Context, cfg ai.ChatConfig, prompt string) (string, error)
}

type NoteService struct {
	noteStore NoteStore
	userStore UserStore
	generator TextGenerator
	llm       ai.ChatConfig
}

type CreateNoteInput struct {
	UserID  uint
	Title   string
	Content string
	Tags    []string
}

type UpdateNoteInput struct {
	NoteID   uint
	UserID   uint
	Title    string
	Content  string
	Tags     []string
	Pinned   *bool
	Archived *bool
}

func NewNoteService(noteStore NoteStore, userStore UserStore, generator TextGenerator, llm ai.ChatConfig) *NoteService {
	return &NoteService{
		noteStore: noteStore,
		userStore: userStore,
		generator: generator,
		llm:       llm,
	}
}

// Create persists a new note. Keyword and summary derivation is best-effort:
// on AI failure the note is stored with empty values.
func (s *NoteService) Create(ctx context.Context, input CreateNoteInput) (*model.Note, error) {
	title := strings.TrimSpace(input.Title)
	content := strings.TrimSpace(input.Content)
	if input.UserID == 0 || title == "" || content == "" || len(input.Tags) == 0 {
		return nil, ErrInvalidInput
	}

	user, err := s.userStore.GetByID(input.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if !user.IsVerified {
		return nil, ErrNotVerified
	}

	note := &model.Note{
		UserID:  input.UserID,
		Title:   title,
		Content: content,
		Summary: s.deriveSummary(ctx, content),
	}
	note.SetTags(input.Tags)
	note.SetKeywords(s.deriveKeywords(ctx, content))

	if err := s.noteStore.Create(note); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *NoteService) List(userID uint) ([]model.Note, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	return s.noteStore.ListByUserID(userID)
}

func (s *NoteService) Get(noteID, userID uint) (*model.Note, error) {
	if noteID == 0 || userID == 0 {
		return nil, ErrInvalidInput
	}
	note, err := s.noteStore.GetByIDAndUserID(noteID, userID)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, ErrNoteNotFound
	}
	return note, nil
}

// Update overwrites title, content and tags and re-derives keywords and
// summary regardless of whether the content changed.
func (s *NoteService) Update(ctx context.Context, input UpdateNoteInput) (*model.Note, error) {
	title := strings.TrimSpace(input.Title)
	content := strings.TrimSpace(input.Content)
	if input.NoteID == 0 || input.UserID == 0 || title == "" || content == "" {
		return nil, ErrInvalidInput
	}

	note, err := s.noteStore.GetByIDAndUserID(input.NoteID, input.UserID)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, ErrNoteNotFound
	}

	note.Title = title
	note.Content = content
	note.SetTags(input.Tags)
	note.SetKeywords(s.deriveKeywords(ctx, content))
	note.Summary = s.deriveSummary(ctx, content)
	if input.Pinned != nil {
		note.Pinned = *input.Pinned
	}
	if input.Archived != nil {
		note.Archived = *input.Archived
	}

	if err := s.noteStore.Save(note); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *NoteService) Delete(noteID, userID uint) error {
	if noteID == 0 || userID == 0 {
		return ErrInvalidInput
	}
	found, err := s.noteStore.DeleteByIDAndUserID(noteID, userID)
	if err != nil {
		return err
	}
	if !found {
		return ErrNoteNotFound
	}
	return nil
}

// Search matches the query literally against title, tags and keywords.
func (s *NoteService) Search(userID uint, query string) ([]model.Note, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	query = strings.TrimSpace(query)
	if len(query) < 3 {
		return nil, ErrQueryTooShort
	}
	return s.noteStore.Search(userID, query)
}

func (s *NoteService) ListByTag(userID uint, tag string) ([]model.Note, error) {
	tag = strings.TrimSpace(tag)
	if userID == 0 || tag == "" {
		return nil, ErrInvalidInput
	}
	return s.noteStore.ListByTag(userID, tag)
}

// SuggestTitle asks the AI collaborator for a title and writes it back onto
// the note. Unlike derivation this does not degrade on AI failure.
func (s *NoteService) SuggestTitle(ctx context.Context, noteID, userID uint) (string, error) {
	if noteID == 0 || userID == 0 {
		return "", ErrInvalidInput
	}

	note, err := s.noteStore.GetByIDAndUserID(noteID, userID)
	if err != nil {
		return "", err
	}
	if note == nil || strings.TrimSpace(note.Content) == "" {
		return "", ErrNoteNotFound
	}

	title, err := s.generator.Generate(ctx, s.llm, ai.TitlePrompt(note.Content))
	if err != nil {
		return "", err
	}

	note.Title = title
	if err := s.noteStore.Save(note); err != nil {
		return "", err
	}
	return title, nil
}

// GenerateContent produces note content for a topic. Stateless.
func (s *NoteService) GenerateContent(ctx context.Context, topic string) (string, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "", ErrInvalidInput
	}
	return s.generator.Generate(ctx, s.llm, ai.TopicNotesPrompt(topic))
}

// ImproveContent rewrites content while preserving its meaning. Stateless.
func (s *NoteService) ImproveContent(ctx context.Context, content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", ErrInvalidInput
	}
	return s.generator.Generate(ctx, s.llm, ai.ImprovePrompt(content))
}

func (s *NoteService) deriveKeywords(ctx context.Context, content string) []string {
	raw, err := s.generator.Generate(ctx, s.llm, ai.KeywordsPrompt(content))
	if err != nil {
		return []string{}
	}

	parts := strings.Split(raw, ",")
	keywords := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			keywords = append(keywords, p)
		}
	}
	return keywords
}

func (s *NoteService) deriveSummary(ctx context.Context, content string) string {
	summary, err := s.generator.Generate(ctx, s.llm, ai.SummaryPrompt(content))
	if err != nil {
		return ""
	}
	return summary
}
