package credential

import (
	"context"
	"time"
)

// Credential is a caller's upstream API key, stored encrypted.
type Credential struct {
	ID         uint
	UserID     uint
	Ciphertext string
	Hint       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type CredentialRepository interface {
	// Upsert keeps at most one credential per user.
	Upsert(ctx context.Context, c *Credential) error
	// FindByUserID returns nil, nil when the user has no stored credential.
	FindByUserID(ctx context.Context, userID uint) (*Credential, error)
	DeleteByUserID(ctx context.Context, userID uint) error
}

type Encrypter interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

type Source string

const (
	SourceOverride Source = "override"
	SourceStored   Source = "stored"
	SourceSystem   Source = "system"
)

// Resolved is used for a single exchange and never persisted.
type Resolved struct {
	APIKey string
	Source Source
}

type Caller struct {
	UserID    uint
	Anonymous bool
}

type Status struct {
	HasKey    bool   `json:"has_key"`
	MaskedKey string `json:"masked_key,omitempty"`
}
