package chat

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	openai "github.com/sashabaranov/go-openai"
	"github.com/tidwall/gjson"
	"menlo.ai/chat-relay/app/utils/httpclients/openrouter"
	"menlo.ai/chat-relay/app/utils/logger"
	"menlo.ai/chat-relay/app/utils/observability"
)

var ErrUpstreamTransport = errors.New("upstream stream interrupted")

type CompletionClient interface {
	CreateChatCompletion(ctx context.Context, apiKey string, request openai.ChatCompletionRequest) (*openai.ChatCompletionResponse, error)
	CreateChatCompletionStream(ctx context.Context, apiKey string, request openai.ChatCompletionRequest) (*openrouter.StreamResponse, error)
}

// Fragment is one decoded piece of reply text. IsError marks the synthesized text that replaces
// a reply when upstream refuses the request.
type Fragment struct {
	Content string
	IsError bool
}

type StreamDecoder struct {
	client CompletionClient
}

func NewStreamDecoder(client CompletionClient) *StreamDecoder {
	return &StreamDecoder{
		client: client,
	}
}

// Stream opens the upstream request and decodes it in a goroutine. Fragments arrive in wire order.
// The error channel carries at most one ErrUpstreamTransport. Both channels close when decoding ends,
// the data channel first. Cancelling ctx stops decoding.
func (d *StreamDecoder) Stream(ctx context.Context, apiKey string, request openai.ChatCompletionRequest) (<-chan Fragment, <-chan error) {
	dataChan := make(chan Fragment, ChannelBufferSize)
	errChan := make(chan error, ErrorBufferSize)

	var wg sync.WaitGroup
	wg.Add(1)

	go d.streamToChannel(ctx, apiKey, request, dataChan, errChan, &wg)

	go func() {
		wg.Wait()
		close(dataChan)
		close(errChan)
	}()

	return dataChan, errChan
}

func (d *StreamDecoder) streamToChannel(ctx context.Context, apiKey string, request openai.ChatCompletionRequest, dataChan chan<- Fragment, errChan chan<- error, wg *sync.WaitGroup) {
	defer wg.Done()
	log := logger.GetLogger().WithField("model", request.Model)

	resp, err := d.client.CreateChatCompletionStream(ctx, apiKey, request)
	if err != nil {
		if cancelled(ctx) {
			return
		}
		observability.UpstreamErrors.WithLabelValues(observability.UpstreamErrorConnection).Inc()
		log.WithField("error_code", "0b7d6f51-3c28-4e0a-b8f4-6a1e9d2c7f35").
			Errorf("upstream request failed: %v", err)
		send(ctx, dataChan, Fragment{Content: ConnectionErrorMessage(err), IsError: true})
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, MaxErrorBodySize))
		observability.UpstreamErrors.WithLabelValues(observability.UpstreamErrorStatus).Inc()
		log.WithField("error_code", "5e92a0c4-7b1d-4f63-9a8e-2c4d1b0f7e86").
			Warnf("upstream returned status %d: %s", resp.StatusCode, string(body))
		send(ctx, dataChan, Fragment{Content: StatusErrorMessage(resp.StatusCode, body), IsError: true})
		return
	}

	reader := bufio.NewReaderSize(resp.Body, ReadBufferSize)
	for {
		line, tooLong, err := readLine(reader)
		if tooLong {
			log.Debugf("skipping upstream frame over %d bytes", MaxLineSize)
		} else if len(line) > 0 && (err == nil || errors.Is(err, io.EOF)) {
			data, found := strings.CutPrefix(string(line), DataPrefix)
			if found {
				if data == DoneMarker {
					return
				}
				if content, ok := ExtractContent(data); ok {
					if !send(ctx, dataChan, Fragment{Content: content}) {
						return
					}
				}
			}
		}
		if err == nil {
			continue
		}
		if errors.Is(err, io.EOF) || cancelled(ctx) {
			return
		}
		observability.UpstreamErrors.WithLabelValues(observability.UpstreamErrorTransport).Inc()
		log.WithField("error_code", "a4c81f3e-2d6b-4e97-8b05-9f1c3e7a2d64").
			Warnf("upstream stream ended early: %v", err)
		errChan <- fmt.Errorf("%w: %v", ErrUpstreamTransport, err)
		return
	}
}

// readLine returns one line without its terminator. Lines over MaxLineSize are consumed and
// reported as tooLong with no content.
func readLine(reader *bufio.Reader) ([]byte, bool, error) {
	var (
		line    []byte
		tooLong bool
	)
	for {
		chunk, err := reader.ReadSlice('\n')
		if !tooLong {
			if len(line)+len(chunk) > MaxLineSize+2 {
				tooLong = true
				line = nil
			} else {
				line = append(line, chunk...)
			}
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		return bytes.TrimRight(line, "\r\n"), tooLong, err
	}
}

// cancelled reports a caller-side cancellation, which is not an upstream failure.
func cancelled(ctx context.Context) bool {
	return errors.Is(ctx.Err(), context.Canceled)
}

func send(ctx context.Context, dataChan chan<- Fragment, f Fragment) bool {
	select {
	case dataChan <- f:
		return true
	case <-ctx.Done():
		return false
	}
}

// ExtractContent reads choices[0].delta.content from one event payload. Malformed JSON,
// a missing or non-string field, and empty text all report false.
func ExtractContent(data string) (string, bool) {
	if !gjson.Valid(data) {
		logger.GetLogger().Debugf("skipping malformed upstream frame: %.200s", data)
		return "", false
	}
	content := gjson.Get(data, "choices.0.delta.content")
	if content.Type != gjson.String || content.Str == "" {
		return "", false
	}
	return content.Str, true
}

// StatusErrorMessage is the text persisted and shown when upstream rejects a request.
func StatusErrorMessage(statusCode int, body []byte) string {
	message := strings.TrimSpace(gjson.GetBytes(body, "error.message").String())
	if message == "" {
		message = http.StatusText(statusCode)
	}
	if message == "" {
		message = "unknown error"
	}
	return fmt.Sprintf("Error: upstream request failed with status %d: %s", statusCode, message)
}

func ConnectionErrorMessage(err error) string {
	return fmt.Sprintf("Error: could not reach upstream: %v", err)
}
