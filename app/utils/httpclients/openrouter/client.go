package openrouter

import (
	"context"
	"fmt"
	"io"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"menlo.ai/chat-relay/app/utils/httpclients"
	"menlo.ai/chat-relay/config/environment_variables"
	"resty.dev/v3"
)

const DefaultBaseURL = "https://openrouter.ai/api/v1"

type Client struct {
	baseURL string
	rest    *resty.Client
}

func NewClient() *Client {
	return NewClientWithBaseURL(environment_variables.EnvironmentVariables.OPENROUTER_BASE_URL)
}

func NewClientWithBaseURL(base string) *Client {
	if base == "" {
		base = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(base, "/"),
		rest:    httpclients.NewClient("OpenRouterClient"),
	}
}

// StatusError is returned by non-streaming calls when upstream answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned status %d: %s", e.StatusCode, e.Body)
}

func (c *Client) CreateChatCompletion(ctx context.Context, apiKey string, request openai.ChatCompletionRequest) (*openai.ChatCompletionResponse, error) {
	var response openai.ChatCompletionResponse
	resp, err := c.rest.R().
		SetContext(ctx).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", apiKey)).
		SetHeader("Content-Type", "application/json").
		SetBody(request).
		SetResult(&response).
		Post(c.baseURL + "/chat/completions")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, &StatusError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}
	return &response, nil
}

// StreamResponse is an open upstream body. The caller must close Body.
type StreamResponse struct {
	StatusCode int
	Body       io.ReadCloser
}

func (c *Client) CreateChatCompletionStream(ctx context.Context, apiKey string, request openai.ChatCompletionRequest) (*StreamResponse, error) {
	request.Stream = true
	resp, err := c.rest.R().
		SetContext(ctx).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", apiKey)).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "text/event-stream").
		SetBody(request).
		SetDoNotParseResponse(true).
		Post(c.baseURL + "/chat/completions")
	if err != nil {
		return nil, err
	}
	return &StreamResponse{
		StatusCode: resp.StatusCode(),
		Body:       resp.RawResponse.Body,
	}, nil
}

type Model struct {
	ID            string `json:"id"`
	Name          string `json:"name,omitempty"`
	Object        string `json:"object,omitempty"`
	OwnedBy       string `json:"owned_by,omitempty"`
	Created       int64  `json:"created"`
	ContextLength int    `json:"context_length,omitempty"`
}

type ModelsResponse struct {
	Object string  `json:"object,omitempty"`
	Data   []Model `json:"data"`
}

func (c *Client) GetModels(ctx context.Context, apiKey string) (*ModelsResponse, error) {
	var response ModelsResponse
	req := c.rest.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetResult(&response)
	if apiKey != "" {
		req = req.SetHeader("Authorization", fmt.Sprintf("Bearer %s", apiKey))
	}
	resp, err := req.Get(c.baseURL + "/models")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, &StatusError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}
	return &response, nil
}
