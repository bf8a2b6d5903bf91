package conversation

import (
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat_EmptySeedsSystemPrompt(t *testing.T) {
	f := NewHistoryFormatterWithPrompt("be brief")

	h := f.Format(nil)

	assert.True(t, h.SeedRequired)
	assert.Equal(t, []openai.ChatCompletionMessage{{Role: "system", Content: "be brief"}}, h.Messages)
}

func TestFormat_LowerCasesRolesAndKeepsOrder(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	turns := []*Turn{
		{ID: 1, Role: "System", Content: "sys", CreatedAt: base},
		{ID: 2, Role: "User", Content: "Hi", CreatedAt: base.Add(time.Second)},
		{ID: 3, Role: RoleAssistant, Content: "Hello!", CreatedAt: base.Add(2 * time.Second)},
	}

	h := NewHistoryFormatterWithPrompt("unused").Format(turns)

	assert.False(t, h.SeedRequired)
	require.Len(t, h.Messages, 3)
	assert.Equal(t, openai.ChatCompletionMessage{Role: "system", Content: "sys"}, h.Messages[0])
	assert.Equal(t, openai.ChatCompletionMessage{Role: "user", Content: "Hi"}, h.Messages[1])
	assert.Equal(t, openai.ChatCompletionMessage{Role: "assistant", Content: "Hello!"}, h.Messages[2])
}

func TestSortTurns_ByTimeThenID(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	turns := []*Turn{
		{ID: 4, CreatedAt: base.Add(time.Minute)},
		{ID: 3, CreatedAt: base},
		{ID: 1, CreatedAt: base},
		{ID: 2, CreatedAt: base.Add(-time.Minute)},
	}

	SortTurns(turns)

	ids := []uint{turns[0].ID, turns[1].ID, turns[2].ID, turns[3].ID}
	assert.Equal(t, []uint{2, 1, 3, 4}, ids)
}

func TestParseRole(t *testing.T) {
	r, ok := ParseRole(" Assistant ")
	assert.True(t, ok)
	assert.Equal(t, RoleAssistant, r)

	_, ok = ParseRole("tool")
	assert.False(t, ok)
}
