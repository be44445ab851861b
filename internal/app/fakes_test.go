package app

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"synapnote/internal/ai"
	"synapnote/internal/mail"
	"synapnote/internal/model"
)

type fakeUserStore struct {
	users  map[uint]*model.User
	nextID uint
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[uint]*model.User)}
}

func cloneUser(u *model.User) *model.User {
	c := *u
	return &c
}

func (s *fakeUserStore) Create(user *model.User) error {
	s.nextID++
	user.ID = s.nextID
	s.users[user.ID] = cloneUser(user)
	return nil
}

func (s *fakeUserStore) Save(user *model.User) error {
	if user.ID == 0 {
		return errors.New("save without id")
	}
	s.users[user.ID] = cloneUser(user)
	return nil
}

func (s *fakeUserStore) GetByEmail(email string) (*model.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (s *fakeUserStore) GetByID(id uint) (*model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return cloneUser(u), nil
}

func (s *fakeUserStore) GetByResetToken(token string) (*model.User, error) {
	for _, u := range s.users {
		if u.ResetPasswordToken != "" && u.ResetPasswordToken == token {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

type fakeMailQueue struct {
	jobs    []mail.Job
	failErr error
}

func (q *fakeMailQueue) Publish(_ context.Context, job mail.Job) error {
	if q.failErr != nil {
		return q.failErr
	}
	q.jobs = append(q.jobs, job)
	return nil
}

type fakeGenerator struct {
	fn      func(prompt string) (string, error)
	prompts []string
}

func (g *fakeGenerator) Generate(_ context.Context, _ ai.ChatConfig, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if g.fn == nil {
		return "generated text", nil
	}
	return g.fn(prompt)
}

type fakeNoteStore struct {
	notes  map[uint]*model.Note
	nextID uint
}

func newFakeNoteStore() *fakeNoteStore {
	return &fakeNoteStore{notes: make(map[uint]*model.Note)}
}

func cloneNote(n *model.Note) *model.Note {
	c := *n
	return &c
}

func (s *fakeNoteStore) Create(note *model.Note) error {
	s.nextID++
	note.ID = s.nextID
	note.CreatedAt = time.Now()
	s.notes[note.ID] = cloneNote(note)
	return nil
}

func (s *fakeNoteStore) Save(note *model.Note) error {
	if note.ID == 0 {
		return errors.New("save without id")
	}
	s.notes[note.ID] = cloneNote(note)
	return nil
}

func (s *fakeNoteStore) GetByIDAndUserID(noteID, userID uint) (*model.Note, error) {
	n, ok := s.notes[noteID]
	if !ok || n.UserID != userID {
		return nil, nil
	}
	return cloneNote(n), nil
}

func (s *fakeNoteStore) ListByUserID(userID uint) ([]model.Note, error) {
	var notes []model.Note
	for _, n := range s.notes {
		if n.UserID == userID {
			notes = append(notes, *n)
		}
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i].CreatedAt.After(notes[j].CreatedAt) })
	return notes, nil
}

func (s *fakeNoteStore) DeleteByIDAndUserID(noteID, userID uint) (bool, error) {
	n, ok := s.notes[noteID]
	if !ok || n.UserID != userID {
		return false, nil
	}
	delete(s.notes, noteID)
	return true, nil
}

func (s *fakeNoteStore) Search(userID uint, query string) ([]model.Note, error) {
	query = strings.ToLower(query)
	var notes []model.Note
	for _, n := range s.notes {
		if n.UserID != userID {
			continue
		}
		if strings.Contains(strings.ToLower(n.Title), query) ||
			strings.Contains(strings.ToLower(n.Tags), query) ||
			strings.Contains(strings.ToLower(n.Keywords), query) {
			notes = append(notes, *n)
		}
	}
	return notes, nil
}

func (s *fakeNoteStore) ListByTag(userID uint, tag string) ([]model.Note, error) {
	tag = strings.ToLower(tag)
	var notes []model.Note
	for _, n := range s.notes {
		if n.UserID != userID {
			continue
		}
		for _, t := range n.TagList() {
			if t == tag {
				notes = append(notes, *n)
				break
			}
		}
	}
	return notes, nil
}

type fakeConversationStore struct {
	sessions map[string]*model.Conversation
	nextID   uint
}

func newFakeConversationStore() *fakeConversationStore {
	return &fakeConversationStore{sessions: make(map[string]*model.Conversation)}
}

func cloneConversation(c *model.Conversation) *model.Conversation {
	cc := *c
	return &cc
}

func (s *fakeConversationStore) Save(conversation *model.Conversation) error {
	if conversation.ID == 0 {
		s.nextID++
		conversation.ID = s.nextID
	}
	s.sessions[conversation.SessionID] = cloneConversation(conversation)
	return nil
}

func (s *fakeConversationStore) GetActiveSession(sessionID string, userID, noteID uint) (*model.Conversation, error) {
	c, ok := s.sessions[sessionID]
	if !ok || c.UserID != userID || c.NoteID != noteID || !c.IsActive {
		return nil, nil
	}
	return cloneConversation(c), nil
}

func (s *fakeConversationStore) GetBySession(sessionID string, userID uint) (*model.Conversation, error) {
	c, ok := s.sessions[sessionID]
	if !ok || c.UserID != userID {
		return nil, nil
	}
	return cloneConversation(c), nil
}

func (s *fakeConversationStore) ListActive(userID, noteID uint, sessionID string, limit int) ([]model.Conversation, error) {
	var conversations []model.Conversation
	for _, c := range s.sessions {
		if c.UserID != userID || c.NoteID != noteID || !c.IsActive {
			continue
		}
		if sessionID != "" && c.SessionID != sessionID {
			continue
		}
		conversations = append(conversations, *c)
	}
	sort.Slice(conversations, func(i, j int) bool {
		return conversations[i].LastActivity.After(conversations[j].LastActivity)
	})
	if limit > 0 && len(conversations) > limit {
		conversations = conversations[:limit]
	}
	return conversations, nil
}

func (s *fakeConversationStore) Deactivate(sessionID string, userID uint) (bool, error) {
	c, ok := s.sessions[sessionID]
	if !ok || c.UserID != userID {
		return false, nil
	}
	c.IsActive = false
	return true, nil
}

func (s *fakeConversationStore) Delete(sessionID string, userID uint) (bool, error) {
	c, ok := s.sessions[sessionID]
	if !ok || c.UserID != userID {
		return false, nil
	}
	delete(s.sessions, sessionID)
	return true, nil
}

func (s *fakeConversationStore) DeleteStale(cutoff time.Time) (int64, error) {
	var purged int64
	for id, c := range s.sessions {
		if c.LastActivity.Before(cutoff) {
			delete(s.sessions, id)
			purged++
		}
	}
	return purged, nil
}
