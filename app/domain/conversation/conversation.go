package conversation

import (
	"context"
	"strings"
	"time"

	"menlo.ai/chat-relay/app/domain/query"
)

const (
	PlaceholderTitle = "New Chat"
	MaxTitleLength   = 255
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ParseRole accepts any casing, so rows written as "User" or "Assistant" still map.
func ParseRole(s string) (Role, bool) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleSystem, RoleUser, RoleAssistant:
		return r, true
	default:
		return "", false
	}
}

type Conversation struct {
	ID        uint      `json:"-"`
	PublicID  string    `json:"id"`
	UserID    uint      `json:"-"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Turn struct {
	ID             uint      `json:"-"`
	PublicID       string    `json:"id"`
	ConversationID uint      `json:"-"`
	UserID         *uint     `json:"-"`
	Role           Role      `json:"role"`
	Content        string    `json:"content"`
	Model          string    `json:"model"`
	CreatedAt      time.Time `json:"created_at"`
}

type ConversationFilter struct {
	PublicID *string
	UserID   *uint
}

type ConversationRepository interface {
	Create(ctx context.Context, conversation *Conversation) error
	FindByFilter(ctx context.Context, filter ConversationFilter, pagination *query.Pagination) ([]*Conversation, error)
	Count(ctx context.Context, filter ConversationFilter) (int64, error)
	UpdateTitle(ctx context.Context, id uint, title string) error
}

type TurnRepository interface {
	Create(ctx context.Context, turn *Turn) error
	// FindByConversationID makes no ordering promise.
	FindByConversationID(ctx context.Context, conversationID uint) ([]*Turn, error)
	CountByConversationID(ctx context.Context, conversationID uint) (int64, error)
}
