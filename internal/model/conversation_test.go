package model

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendMessageEvictsOldest(t *testing.T) {
	c := &Conversation{SessionID: "note_1_1_abc000000"}
	for i := 0; i < 55; i++ {
		c.AppendMessage(RoleUser, fmt.Sprintf("message %d", i), 50)
	}

	log := c.MessageLog()
	require.Len(t, log, 50)
	assert.Equal(t, "message 5", log[0].Content)
	assert.Equal(t, "message 54", log[49].Content)
	assert.False(t, c.LastActivity.IsZero())
}

func TestRecentMessagesTailOldestFirst(t *testing.T) {
	c := &Conversation{}
	for i := 0; i < 15; i++ {
		c.AppendMessage(RoleUser, fmt.Sprintf("message %d", i), 50)
	}

	recent := c.RecentMessages(10)
	require.Len(t, recent, 10)
	assert.Equal(t, "message 5", recent[0].Content)
	assert.Equal(t, "message 14", recent[9].Content)

	all := c.RecentMessages(100)
	assert.Len(t, all, 15)
}

func TestConversationJSONRoundTrip(t *testing.T) {
	c := &Conversation{SessionID: "note_1_1_abc000000", UserID: 1, NoteID: 2, IsActive: true}
	c.AppendMessage(RoleUser, "hi", 50)
	c.AppendMessage(RoleAssistant, "hello", 50)

	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"messages"`)

	var restored Conversation
	require.NoError(t, json.Unmarshal(data, &restored))
	assert.Equal(t, c.SessionID, restored.SessionID)

	log := restored.MessageLog()
	require.Len(t, log, 2)
	assert.Equal(t, "hi", log[0].Content)
	assert.Equal(t, RoleAssistant, log[1].Role)
}

func TestMessageLogToleratesCorruptPayload(t *testing.T) {
	c := &Conversation{Messages: "{not json"}
	assert.Empty(t, c.MessageLog())
}
