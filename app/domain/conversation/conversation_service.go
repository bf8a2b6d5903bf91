package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"menlo.ai/chat-relay/app/domain/query"
	"menlo.ai/chat-relay/app/utils/idgen"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrInvalidRole          = errors.New("invalid turn role")
	ErrTitleTooLong         = errors.New("title is too long")
	ErrEmptyTitle           = errors.New("title must not be empty")
)

type ConversationService struct {
	conversationRepo ConversationRepository
	turnRepo         TurnRepository
	now              func() time.Time
}

func NewService(conversationRepo ConversationRepository, turnRepo TurnRepository) *ConversationService {
	return &ConversationService{
		conversationRepo: conversationRepo,
		turnRepo:         turnRepo,
		now:              time.Now,
	}
}

// FindConversation returns ErrConversationNotFound unless publicID exists and belongs to userID.
func (s *ConversationService) FindConversation(ctx context.Context, publicID string, userID uint) (*Conversation, error) {
	convs, err := s.conversationRepo.FindByFilter(ctx, ConversationFilter{
		PublicID: &publicID,
		UserID:   &userID,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to find conversation: %w", err)
	}
	if len(convs) == 0 {
		return nil, ErrConversationNotFound
	}
	return convs[0], nil
}

// Exists reports whether any owner holds publicID.
func (s *ConversationService) Exists(ctx context.Context, publicID string) (bool, error) {
	count, err := s.conversationRepo.Count(ctx, ConversationFilter{PublicID: &publicID})
	if err != nil {
		return false, fmt.Errorf("failed to count conversations: %w", err)
	}
	return count > 0, nil
}

func (s *ConversationService) CreateConversation(ctx context.Context, publicID string, userID uint, title string) (*Conversation, error) {
	if publicID == "" {
		publicID = idgen.NewConversationID()
	}
	if title == "" {
		title = PlaceholderTitle
	}
	now := s.now()
	conv := &Conversation{
		PublicID:  publicID,
		UserID:    userID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.conversationRepo.Create(ctx, conv); err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}
	return conv, nil
}

// UpdateTitle overwrites the title without an ownership check.
func (s *ConversationService) UpdateTitle(ctx context.Context, conversationID uint, title string) error {
	if err := s.conversationRepo.UpdateTitle(ctx, conversationID, truncateTitle(title)); err != nil {
		return fmt.Errorf("failed to update title: %w", err)
	}
	return nil
}

func (s *ConversationService) RenameConversation(ctx context.Context, publicID string, userID uint, title string) (*Conversation, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if len(title) > MaxTitleLength {
		return nil, ErrTitleTooLong
	}
	conv, err := s.FindConversation(ctx, publicID, userID)
	if err != nil {
		return nil, err
	}
	if err := s.conversationRepo.UpdateTitle(ctx, conv.ID, title); err != nil {
		return nil, fmt.Errorf("failed to rename conversation: %w", err)
	}
	conv.Title = title
	conv.UpdatedAt = s.now()
	return conv, nil
}

func (s *ConversationService) ListConversations(ctx context.Context, userID uint, pagination *query.Pagination) ([]*Conversation, int64, error) {
	filter := ConversationFilter{UserID: &userID}
	convs, err := s.conversationRepo.FindByFilter(ctx, filter, pagination)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list conversations: %w", err)
	}
	total, err := s.conversationRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count conversations: %w", err)
	}
	return convs, total, nil
}

// ListTurns returns turns in store order; use SortTurns before relying on sequence.
func (s *ConversationService) ListTurns(ctx context.Context, conversationID uint) ([]*Turn, error) {
	turns, err := s.turnRepo.FindByConversationID(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load turns: %w", err)
	}
	return turns, nil
}

func (s *ConversationService) ListOrderedTurns(ctx context.Context, conversationID uint) ([]*Turn, error) {
	turns, err := s.ListTurns(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	SortTurns(turns)
	return turns, nil
}

func (s *ConversationService) CountTurns(ctx context.Context, conversationID uint) (int64, error) {
	return s.turnRepo.CountByConversationID(ctx, conversationID)
}

// AppendTurn inserts exactly one turn. It is not idempotent; callers invoke it once per logical event.
func (s *ConversationService) AppendTurn(ctx context.Context, conv *Conversation, role Role, content string, model string, userID *uint) (*Turn, error) {
	if _, ok := ParseRole(string(role)); !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	publicID, err := idgen.GenerateSecureID("msg", 24)
	if err != nil {
		return nil, fmt.Errorf("failed to generate turn id: %w", err)
	}
	turn := &Turn{
		PublicID:       publicID,
		ConversationID: conv.ID,
		UserID:         userID,
		Role:           role,
		Content:        content,
		Model:          model,
		CreatedAt:      s.now(),
	}
	if err := s.turnRepo.Create(ctx, turn); err != nil {
		return nil, fmt.Errorf("failed to append turn: %w", err)
	}
	return turn, nil
}

func truncateTitle(title string) string {
	title = strings.TrimSpace(title)
	if len(title) <= MaxTitleLength {
		return title
	}
	runes := []rune(title)
	for len(string(runes)) > MaxTitleLength {
		runes = runes[:len(runes)-1]
	}
	return string(runes)
}
