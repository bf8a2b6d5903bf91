package chat

import (
	"context"
	"strings"
	"sync"

	openai "github.com/sashabaranov/go-openai"
	"menlo.ai/chat-relay/app/domain/conversation"
	"menlo.ai/chat-relay/app/utils/logger"
	"menlo.ai/chat-relay/app/utils/observability"
	"menlo.ai/chat-relay/config/environment_variables"
)

const DefaultTitleModel = "openai/gpt-4o-mini"

// TitleSynthesizer labels new conversations in the background.
type TitleSynthesizer struct {
	client              CompletionClient
	conversationService *conversation.ConversationService
	model               string
	wg                  sync.WaitGroup
}

func NewTitleSynthesizer(client CompletionClient, conversationService *conversation.ConversationService) *TitleSynthesizer {
	model := environment_variables.EnvironmentVariables.TITLE_MODEL
	if strings.TrimSpace(model) == "" {
		model = DefaultTitleModel
	}
	return &TitleSynthesizer{
		client:              client,
		conversationService: conversationService,
		model:               model,
	}
}

// Synthesize never fails; any problem yields UntitledTitle.
func (t *TitleSynthesizer) Synthesize(ctx context.Context, apiKey string, prompt string) string {
	if strings.TrimSpace(apiKey) == "" || strings.TrimSpace(prompt) == "" {
		return UntitledTitle
	}
	resp, err := t.client.CreateChatCompletion(ctx, apiKey, openai.ChatCompletionRequest{
		Model: t.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: TitleInstruction},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   TitleMaxTokens,
		Temperature: TitleTemperature,
	})
	if err != nil {
		logger.GetLogger().
			WithField("error_code", "d3b7e2a1-94c6-4f0e-8a52-1c7f6e9b3d08").
			Warnf("title synthesis failed: %v", err)
		return UntitledTitle
	}
	if len(resp.Choices) == 0 {
		return UntitledTitle
	}
	return CleanTitle(resp.Choices[0].Message.Content)
}

// Schedule synthesizes and stores a title without blocking the caller.
func (t *TitleSynthesizer) Schedule(conv *conversation.Conversation, apiKey string, prompt string) {
	conversationID := conv.ID
	publicID := conv.PublicID
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		log := logger.GetLogger().WithField("conversation_id", publicID)
		defer func() {
			if r := recover(); r != nil {
				log.WithField("error_code", "6f1a9c3d-28e4-4b7a-9d05-e3c8b2a47f19").
					Errorf("title synthesis panicked: %v", r)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), TitleTimeout)
		defer cancel()

		title := t.Synthesize(ctx, apiKey, prompt)
		if err := t.conversationService.UpdateTitle(ctx, conversationID, title); err != nil {
			observability.TitleSynthesis.WithLabelValues(observability.TitleWriteFailed).Inc()
			log.WithField("error_code", "b08e4d7c-5a13-4c6f-a2e9-7d3f1b6c8e20").
				Errorf("failed to store title: %v", err)
			return
		}
		if title == UntitledTitle {
			observability.TitleSynthesis.WithLabelValues(observability.TitlePlaceholder).Inc()
		} else {
			observability.TitleSynthesis.WithLabelValues(observability.TitleSynthesized).Inc()
		}
	}()
}

// Wait blocks until every scheduled title has been written or abandoned.
func (t *TitleSynthesizer) Wait() {
	t.wg.Wait()
}

func CleanTitle(raw string) string {
	title := strings.TrimSpace(raw)
	title = strings.Trim(title, "\"'`“”‘’")
	title = strings.TrimSpace(title)
	if title == "" {
		return UntitledTitle
	}
	return title
}
