package chat

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"menlo.ai/chat-relay/app/domain/conversation"
	"menlo.ai/chat-relay/app/infrastructure/database/repository/memoryrepo"
	"menlo.ai/chat-relay/app/utils/httpclients/openrouter"
)

func TestCleanTitle(t *testing.T) {
	assert.Equal(t, "Go Concurrency", CleanTitle(`  "Go Concurrency"  `))
	assert.Equal(t, "Trip Plan", CleanTitle("“Trip Plan”"))
	assert.Equal(t, UntitledTitle, CleanTitle(` "" `))
	assert.Equal(t, UntitledTitle, CleanTitle(""))
}

func newTitleFixture(t *testing.T, handler http.HandlerFunc) (*TitleSynthesizer, *conversation.ConversationService) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	store := memoryrepo.NewStore()
	conversationService := conversation.NewService(memoryrepo.NewConversationRepository(store), memoryrepo.NewTurnRepository(store))
	return NewTitleSynthesizer(openrouter.NewClientWithBaseURL(server.URL), conversationService), conversationService
}

func TestTitleSynthesizer_RequestShape(t *testing.T) {
	var body []byte
	synth, _ := newTitleFixture(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ = readAll(r)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"'Weekend Hiking'"}}]}`))
	})

	title := synth.Synthesize(context.Background(), "sk", "Where should I hike this weekend?")

	assert.Equal(t, "Weekend Hiking", title)
	assert.Equal(t, int64(TitleMaxTokens), gjson.GetBytes(body, "max_tokens").Int())
	assert.False(t, gjson.GetBytes(body, "stream").Bool())
	assert.Equal(t, "system", gjson.GetBytes(body, "messages.0.role").String())
	assert.Equal(t, "Where should I hike this weekend?", gjson.GetBytes(body, "messages.1.content").String())
}

func TestTitleSynthesizer_FailuresYieldPlaceholder(t *testing.T) {
	synth, _ := newTitleFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	assert.Equal(t, UntitledTitle, synth.Synthesize(context.Background(), "sk", "hi"))
	assert.Equal(t, UntitledTitle, synth.Synthesize(context.Background(), "", "hi"))

	empty, _ := newTitleFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})
	assert.Equal(t, UntitledTitle, empty.Synthesize(context.Background(), "sk", "hi"))
}

func TestTitleSynthesizer_ScheduleWritesOnce(t *testing.T) {
	synth, conversationService := newTitleFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	conv, err := conversationService.CreateConversation(context.Background(), "", 7, "")
	require.NoError(t, err)
	assert.Equal(t, conversation.PlaceholderTitle, conv.Title)

	synth.Schedule(conv, "sk", "hello")
	synth.Wait()

	stored, err := conversationService.FindConversation(context.Background(), conv.PublicID, 7)
	require.NoError(t, err)
	assert.Equal(t, UntitledTitle, stored.Title)
}
