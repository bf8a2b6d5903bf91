package conversation

import (
	"sort"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"menlo.ai/chat-relay/config/environment_variables"
)

const DefaultSystemPrompt = "You are a helpful, concise assistant. Answer in the language the user writes in. " +
	"Use Markdown for code and lists. If you are unsure, say so instead of guessing."

// SortTurns orders by creation time, falling back to insertion id for equal timestamps.
func SortTurns(turns []*Turn) {
	sort.SliceStable(turns, func(i, j int) bool {
		if turns[i].CreatedAt.Equal(turns[j].CreatedAt) {
			return turns[i].ID < turns[j].ID
		}
		return turns[i].CreatedAt.Before(turns[j].CreatedAt)
	})
}

type History struct {
	Messages []openai.ChatCompletionMessage
	// SeedRequired means Messages holds only a synthesized system entry that must be persisted as a turn.
	SeedRequired bool
}

type HistoryFormatter struct {
	systemPrompt string
}

func NewHistoryFormatter() *HistoryFormatter {
	prompt := environment_variables.EnvironmentVariables.SYSTEM_PROMPT
	if strings.TrimSpace(prompt) == "" {
		prompt = DefaultSystemPrompt
	}
	return NewHistoryFormatterWithPrompt(prompt)
}

func NewHistoryFormatterWithPrompt(systemPrompt string) *HistoryFormatter {
	return &HistoryFormatter{systemPrompt: systemPrompt}
}

func (f *HistoryFormatter) SystemPrompt() string {
	return f.systemPrompt
}

// Format maps already sorted turns one to one, lower-casing roles.
func (f *HistoryFormatter) Format(turns []*Turn) History {
	if len(turns) == 0 {
		return History{
			Messages: []openai.ChatCompletionMessage{{
				Role:    openai.ChatMessageRoleSystem,
				Content: f.systemPrompt,
			}},
			SeedRequired: true,
		}
	}
	messages := make([]openai.ChatCompletionMessage, len(turns))
	for i, t := range turns {
		messages[i] = openai.ChatCompletionMessage{
			Role:    strings.ToLower(string(t.Role)),
			Content: t.Content,
		}
	}
	return History{Messages: messages}
}
