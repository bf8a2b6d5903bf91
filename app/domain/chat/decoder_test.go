package chat

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"menlo.ai/chat-relay/app/utils/httpclients/openrouter"
)

func collect(fragments <-chan Fragment, errs <-chan error) ([]Fragment, []error) {
	var got []Fragment
	for f := range fragments {
		got = append(got, f)
	}
	var gotErrs []error
	for err := range errs {
		gotErrs = append(gotErrs, err)
	}
	return got, gotErrs
}

func streamFrom(t *testing.T, handler http.HandlerFunc) ([]Fragment, []error) {
	t.Helper()
	server := httptest.NewServer(handler)
	defer server.Close()

	decoder := NewStreamDecoder(openrouter.NewClientWithBaseURL(server.URL))
	return collect(decoder.Stream(context.Background(), "sk-test", openai.ChatCompletionRequest{
		Model:    "m",
		Messages: []openai.ChatCompletionMessage{{Role: "user", Content: "Hi"}},
	}))
}

func writeLines(w http.ResponseWriter, lines ...string) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.WriteHeader(http.StatusOK)
	for _, line := range lines {
		fmt.Fprintf(w, "%s\n", line)
		w.(http.Flusher).Flush()
	}
}

func TestExtractContent(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		want   string
		wantOK bool
	}{
		{"content", `{"choices":[{"delta":{"content":"Hello"}}]}`, "Hello", true},
		{"no content key", `{"choices":[{"delta":{}}]}`, "", false},
		{"null content", `{"choices":[{"delta":{"content":null}}]}`, "", false},
		{"empty content", `{"choices":[{"delta":{"content":""}}]}`, "", false},
		{"no choices", `{"id":"gen-1"}`, "", false},
		{"malformed", `{"choices":[{"delta":`, "", false},
		{"not json", `keep-alive`, "", false},
		{"whitespace kept", `{"choices":[{"delta":{"content":" world\n"}}]}`, " world\n", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractContent(tt.data)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStreamDecoder_FollowsWireOrderAndSkipsNoise(t *testing.T) {
	var gotAuth string
	var gotStream bool
	fragments, errs := streamFrom(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		var body struct {
			Stream bool `json:"stream"`
		}
		_ = decodeJSON(r, &body)
		gotStream = body.Stream
		writeLines(w,
			": OPENROUTER PROCESSING",
			"",
			`data: {"choices":[{"delta":{"role":"assistant"}}]}`,
			`data: {"choices":[{"delta":{"content":"Hel"}}]}`,
			`data: not-json`,
			`event: ping`,
			`data:{"choices":[{"delta":{"content":"missing space"}}]}`,
			`data: {"choices":[{"delta":{}}]}`,
			`data: {"choices":[{"delta":{"content":"lo"}}]}`,
			`data: [DONE]`,
			`data: {"choices":[{"delta":{"content":"after done"}}]}`,
		)
	})

	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.True(t, gotStream)
	assert.Empty(t, errs)
	require.Len(t, fragments, 2)
	assert.Equal(t, []Fragment{{Content: "Hel"}, {Content: "lo"}}, fragments)
}

func TestStreamDecoder_EndOfBodyWithoutDone(t *testing.T) {
	fragments, errs := streamFrom(t, func(w http.ResponseWriter, r *http.Request) {
		writeLines(w, `data: {"choices":[{"delta":{"content":"only"}}]}`)
	})
	assert.Empty(t, errs)
	assert.Equal(t, []Fragment{{Content: "only"}}, fragments)
}

func TestStreamDecoder_StatusErrorBecomesSingleErrorFragment(t *testing.T) {
	fragments, errs := streamFrom(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"Rate limit exceeded","code":429}}`))
	})

	assert.Empty(t, errs)
	require.Len(t, fragments, 1)
	assert.True(t, fragments[0].IsError)
	assert.Contains(t, fragments[0].Content, "429")
	assert.Contains(t, fragments[0].Content, "Rate limit exceeded")
}

func TestStreamDecoder_StatusErrorWithoutBodyUsesStatusText(t *testing.T) {
	fragments, _ := streamFrom(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	require.Len(t, fragments, 1)
	assert.Equal(t, "Error: upstream request failed with status 502: Bad Gateway", fragments[0].Content)
}

func TestStreamDecoder_ConnectionFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	decoder := NewStreamDecoder(openrouter.NewClientWithBaseURL(baseURL))
	fragments, errs := collect(decoder.Stream(context.Background(), "sk", openai.ChatCompletionRequest{Model: "m"}))

	assert.Empty(t, errs)
	require.Len(t, fragments, 1)
	assert.True(t, fragments[0].IsError)
	assert.Contains(t, fragments[0].Content, "could not reach upstream")
}

func TestStreamDecoder_TransportFailureKeepsEarlierFragments(t *testing.T) {
	fragments, errs := streamFrom(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "4096")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"partial\"}}]}\n")
		w.(http.Flusher).Flush()
	})

	assert.Equal(t, []Fragment{{Content: "partial"}}, fragments)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrUpstreamTransport)
}

func TestStreamDecoder_CancelStopsDecoding(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeLines(w, `data: {"choices":[{"delta":{"content":"first"}}]}`)
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	decoder := NewStreamDecoder(openrouter.NewClientWithBaseURL(server.URL))
	fragments, errs := decoder.Stream(ctx, "sk", openai.ChatCompletionRequest{Model: "m"})

	first := <-fragments
	assert.Equal(t, "first", first.Content)
	cancel()

	rest, _ := collect(fragments, errs)
	assert.Empty(t, rest)
}

func TestStreamDecoder_SkipsOversizedFrame(t *testing.T) {
	fragments, errs := streamFrom(t, func(w http.ResponseWriter, r *http.Request) {
		writeLines(w,
			`data: {"choices":[{"delta":{"content":"a"}}]}`,
			"data: "+strings.Repeat("x", MaxLineSize+10),
			`data: {"choices":[{"delta":{"content":"b"}}]}`,
			"data: [DONE]",
		)
	})

	assert.Equal(t, []Fragment{{Content: "a"}, {Content: "b"}}, fragments)
	assert.Empty(t, errs)
}

func TestStreamDecoder_CancelIsNotAnUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeLines(w, `data: {"choices":[{"delta":{"content":"first"}}]}`)
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	decoder := NewStreamDecoder(openrouter.NewClientWithBaseURL(server.URL))
	fragments, errs := decoder.Stream(ctx, "sk", openai.ChatCompletionRequest{Model: "m"})
	<-fragments
	cancel()

	_, gotErrs := collect(fragments, errs)
	assert.Empty(t, gotErrs)
}
