package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetTagsNormalizes(t *testing.T) {
	n := &Note{}
	n.SetTags([]string{" Travel ", "EUROPE", "", "  "})
	assert.Equal(t, []string{"travel", "europe"}, n.TagList())
}

func TestNoteMarshalExposesArrays(t *testing.T) {
	n := Note{ID: 1, UserID: 2, Title: "Paris", Content: "capital"}
	n.SetTags([]string{"travel"})
	n.SetKeywords([]string{"paris", "france"})

	data, err := json.Marshal(n)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, []any{"travel"}, decoded["tags"])
	assert.Equal(t, []any{"paris", "france"}, decoded["keywords"])
	// raw columns never leak
	assert.NotContains(t, string(data), `"Keywords"`)
}

func TestListAccessorsTolerateEmptyAndCorrupt(t *testing.T) {
	n := &Note{}
	assert.Empty(t, n.TagList())
	assert.Empty(t, n.KeywordList())

	n.Tags = "{broken"
	assert.Empty(t, n.TagList())
}
