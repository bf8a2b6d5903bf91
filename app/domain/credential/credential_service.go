package credential

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"menlo.ai/chat-relay/app/utils/crypto"
	"menlo.ai/chat-relay/app/utils/logger"
	"menlo.ai/chat-relay/config/environment_variables"
)

var (
	ErrNoCredentialAvailable = errors.New("no upstream credential available")
	ErrEncryptionUnavailable = errors.New("credential storage is not configured")
	ErrEmptyKey              = errors.New("key must not be empty")
)

type CredentialService struct {
	repo      CredentialRepository
	cipher    Encrypter
	systemKey func() string
}

func NewService(repo CredentialRepository, cipher Encrypter) *CredentialService {
	return &CredentialService{
		repo:   repo,
		cipher: cipher,
		systemKey: func() string {
			return environment_variables.EnvironmentVariables.OPENROUTER_API_KEY
		},
	}
}

// NewServiceWithSystemKey is used where the fallback key does not come from the environment.
func NewServiceWithSystemKey(repo CredentialRepository, cipher Encrypter, systemKey string) *CredentialService {
	s := NewService(repo, cipher)
	s.systemKey = func() string { return systemKey }
	return s
}

// NewEncrypter returns nil when ENCRYPTION_KEY is unset; stored keys are then neither written nor read.
func NewEncrypter() Encrypter {
	c, err := crypto.NewCipher(environment_variables.EnvironmentVariables.ENCRYPTION_KEY)
	if err != nil {
		logger.GetLogger().
			WithField("error_code", "c1a5d0e2-5f0b-4cf1-8d0c-3f7a9b3e61d4").
			Warnf("credential encryption disabled: %v", err)
		return nil
	}
	return c
}

// Resolve picks the key for one exchange: override, then the caller's stored key, then the system key.
func (s *CredentialService) Resolve(ctx context.Context, caller Caller, override string) (*Resolved, error) {
	if key := strings.TrimSpace(override); key != "" {
		return &Resolved{APIKey: key, Source: SourceOverride}, nil
	}
	if !caller.Anonymous && caller.UserID != 0 {
		if key, ok := s.storedKey(ctx, caller.UserID); ok {
			return &Resolved{APIKey: key, Source: SourceStored}, nil
		}
	}
	if key := strings.TrimSpace(s.systemKey()); key != "" {
		return &Resolved{APIKey: key, Source: SourceSystem}, nil
	}
	return nil, ErrNoCredentialAvailable
}

func (s *CredentialService) storedKey(ctx context.Context, userID uint) (string, bool) {
	log := logger.GetLogger().WithField("user_id", userID)
	if s.cipher == nil {
		return "", false
	}
	stored, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		log.WithField("error_code", "8e0b9c44-1f7a-4d2b-a1e3-5d8f27c9b013").
			Errorf("failed to load stored credential: %v", err)
		return "", false
	}
	if stored == nil || stored.Ciphertext == "" {
		return "", false
	}
	key, err := s.cipher.Decrypt(stored.Ciphertext)
	if err != nil {
		log.WithField("error_code", "4b7f3d18-93c6-4a0e-b52d-e6a1c08f9d27").
			Warnf("could not decrypt stored credential: %v", err)
		return "", false
	}
	if key == "" {
		return "", false
	}
	return key, true
}

func (s *CredentialService) Store(ctx context.Context, userID uint, plaintext string) (*Status, error) {
	key := strings.TrimSpace(plaintext)
	if key == "" {
		return nil, ErrEmptyKey
	}
	if s.cipher == nil {
		return nil, ErrEncryptionUnavailable
	}
	ciphertext, err := s.cipher.Encrypt(key)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt key: %w", err)
	}
	c := &Credential{
		UserID:     userID,
		Ciphertext: ciphertext,
		Hint:       generateHint(key),
	}
	if err := s.repo.Upsert(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to store key: %w", err)
	}
	return &Status{HasKey: true, MaskedKey: c.Hint}, nil
}

func (s *CredentialService) Status(ctx context.Context, userID uint) (*Status, error) {
	stored, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load key: %w", err)
	}
	if stored == nil {
		return &Status{HasKey: false}, nil
	}
	return &Status{HasKey: true, MaskedKey: stored.Hint}, nil
}

func (s *CredentialService) Delete(ctx context.Context, userID uint) error {
	if err := s.repo.DeleteByUserID(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete key: %w", err)
	}
	return nil
}

func generateHint(apiKey string) string {
	clean := strings.TrimSpace(apiKey)
	if len(clean) <= 4 {
		return "***"
	}
	return fmt.Sprintf("***%s", clean[len(clean)-4:])
}
