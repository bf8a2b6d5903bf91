package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"menlo.ai/chat-relay/app/utils/idgen"
)

type UserService struct {
	userrepo UserRepository
}

func NewService(userrepo UserRepository) *UserService {
	return &UserService{
		userrepo: userrepo,
	}
}

func (s *UserService) RegisterUser(ctx context.Context, user *User) (*User, error) {
	publicId, err := s.generatePublicID()
	if err != nil {
		return nil, err
	}
	user.PublicID = publicId
	user.Enabled = true
	if err := s.userrepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// RegisterGuest creates an ephemeral identity with a random display name.
func (s *UserService) RegisterGuest(ctx context.Context) (*User, error) {
	id := uuid.NewString()
	return s.RegisterUser(ctx, &User{
		Name:    fmt.Sprintf("Guest-%s", id),
		Email:   fmt.Sprintf("guest-%s@guest.local", strings.ReplaceAll(id, "-", "")),
		IsGuest: true,
	})
}

// FindOrRegister returns the user with publicID, creating it from the identity token's details on
// first sight. A concurrent first request that wins the insert is read back.
func (s *UserService) FindOrRegister(ctx context.Context, publicID string, email string, name string) (*User, error) {
	existing, err := s.userrepo.FindByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	if email == "" {
		email = fmt.Sprintf("%s@users.local", publicID)
	}
	if name == "" {
		name = email
	}
	u := &User{
		PublicID: publicID,
		Name:     name,
		Email:    email,
		Enabled:  true,
	}
	if err := s.userrepo.Create(ctx, u); err != nil {
		existing, findErr := s.userrepo.FindByPublicID(ctx, publicID)
		if findErr == nil && existing != nil {
			return existing, nil
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}

func (s *UserService) FindByPublicID(ctx context.Context, publicID string) (*User, error) {
	return s.userrepo.FindByPublicID(ctx, publicID)
}

func (s *UserService) FindByID(ctx context.Context, id uint) (*User, error) {
	return s.userrepo.FindByID(ctx, id)
}

func (s *UserService) generatePublicID() (string, error) {
	return idgen.GenerateSecureID("user", 16)
}
