package memoryrepo

import (
	"context"
	"errors"
	"sync"
	"time"

	"menlo.ai/chat-relay/app/domain/conversation"
	"menlo.ai/chat-relay/app/domain/credential"
	"menlo.ai/chat-relay/app/domain/query"
	"menlo.ai/chat-relay/app/domain/user"
)

var ErrDuplicateKey = errors.New("duplicate key value violates unique constraint")

// Store keeps every collection in process memory. It backs development runs without a database and tests.
type Store struct {
	mu            sync.RWMutex
	lastID        uint
	users         []*user.User
	conversations []*conversation.Conversation
	turns         []*conversation.Turn
	credentials   map[uint]*credential.Credential
}

func NewStore() *Store {
	return &Store{
		credentials: map[uint]*credential.Credential{},
	}
}

func (s *Store) nextID() uint {
	s.lastID++
	return s.lastID
}

// RunInTx has no isolation; the store applies each call atomically on its own.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type UserRepository struct{ s *Store }

func NewUserRepository(s *Store) user.UserRepository {
	return &UserRepository{s: s}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.PublicID == u.PublicID || (u.Email != "" && existing.Email == u.Email) {
			return ErrDuplicateKey
		}
	}
	u.ID = r.s.nextID()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	cp := *u
	r.s.users = append(r.s.users, &cp)
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *UserRepository) FindByPublicID(ctx context.Context, publicID string) (*user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.PublicID == publicID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

type ConversationRepository struct{ s *Store }

func NewConversationRepository(s *Store) conversation.ConversationRepository {
	return &ConversationRepository{s: s}
}

func (r *ConversationRepository) Create(ctx context.Context, c *conversation.Conversation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.conversations {
		if existing.PublicID == c.PublicID {
			return ErrDuplicateKey
		}
	}
	c.ID = r.s.nextID()
	cp := *c
	r.s.conversations = append(r.s.conversations, &cp)
	return nil
}

func (r *ConversationRepository) FindByFilter(ctx context.Context, filter conversation.ConversationFilter, pagination *query.Pagination) ([]*conversation.Conversation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	matched := r.match(filter)
	if pagination == nil {
		return matched, nil
	}
	if pagination.Order != "asc" {
		for i, j := 0, len(matched)-1; i < j; i, j = i+1, j-1 {
			matched[i], matched[j] = matched[j], matched[i]
		}
	}
	if pagination.Offset != nil {
		if *pagination.Offset >= len(matched) {
			return []*conversation.Conversation{}, nil
		}
		matched = matched[*pagination.Offset:]
	}
	if pagination.Limit != nil && *pagination.Limit < len(matched) {
		matched = matched[:*pagination.Limit]
	}
	return matched, nil
}

func (r *ConversationRepository) Count(ctx context.Context, filter conversation.ConversationFilter) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.match(filter))), nil
}

func (r *ConversationRepository) UpdateTitle(ctx context.Context, id uint, title string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.conversations {
		if c.ID == id {
			c.Title = title
			c.UpdatedAt = time.Now()
		}
	}
	return nil
}

func (r *ConversationRepository) match(filter conversation.ConversationFilter) []*conversation.Conversation {
	result := make([]*conversation.Conversation, 0)
	for _, c := range r.s.conversations {
		if filter.PublicID != nil && c.PublicID != *filter.PublicID {
			continue
		}
		if filter.UserID != nil && c.UserID != *filter.UserID {
			continue
		}
		cp := *c
		result = append(result, &cp)
	}
	return result
}

type TurnRepository struct{ s *Store }

func NewTurnRepository(s *Store) conversation.TurnRepository {
	return &TurnRepository{s: s}
}

func (r *TurnRepository) Create(ctx context.Context, t *conversation.Turn) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t.ID = r.s.nextID()
	cp := *t
	r.s.turns = append(r.s.turns, &cp)
	return nil
}

func (r *TurnRepository) FindByConversationID(ctx context.Context, conversationID uint) ([]*conversation.Turn, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	result := make([]*conversation.Turn, 0)
	for _, t := range r.s.turns {
		if t.ConversationID == conversationID {
			cp := *t
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (r *TurnRepository) CountByConversationID(ctx context.Context, conversationID uint) (int64, error) {
	turns, err := r.FindByConversationID(ctx, conversationID)
	return int64(len(turns)), err
}

type CredentialRepository struct{ s *Store }

func NewCredentialRepository(s *Store) credential.CredentialRepository {
	return &CredentialRepository{s: s}
}

func (r *CredentialRepository) Upsert(ctx context.Context, c *credential.Credential) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := time.Now()
	if existing, ok := r.s.credentials[c.UserID]; ok {
		c.ID = existing.ID
		c.CreatedAt = existing.CreatedAt
	} else {
		c.ID = r.s.nextID()
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	cp := *c
	r.s.credentials[c.UserID] = &cp
	return nil
}

func (r *CredentialRepository) FindByUserID(ctx context.Context, userID uint) (*credential.Credential, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.credentials[userID]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *CredentialRepository) DeleteByUserID(ctx context.Context, userID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.credentials, userID)
	return nil
}
