package user

import (
	"context"
	"time"
)

type User struct {
	ID        uint
	PublicID  string
	Name      string
	Email     string
	IsGuest   bool
	Enabled   bool
	CreatedAt time.Time
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id uint) (*User, error)
	// FindByPublicID returns nil, nil when no user matches.
	FindByPublicID(ctx context.Context, publicID string) (*User, error)
}
