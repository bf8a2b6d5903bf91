package credential

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"menlo.ai/chat-relay/app/utils/crypto"
)

type fakeRepo struct {
	byUser  map[uint]*Credential
	findErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byUser: map[uint]*Credential{}}
}

func (f *fakeRepo) Upsert(ctx context.Context, c *Credential) error {
	f.byUser[c.UserID] = c
	return nil
}

func (f *fakeRepo) FindByUserID(ctx context.Context, userID uint) (*Credential, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.byUser[userID], nil
}

func (f *fakeRepo) DeleteByUserID(ctx context.Context, userID uint) error {
	delete(f.byUser, userID)
	return nil
}

func newCipher(t *testing.T) *crypto.Cipher {
	c, err := crypto.NewCipher("test-secret")
	require.NoError(t, err)
	return c
}

func TestResolve_OverrideWins(t *testing.T) {
	repo := newFakeRepo()
	svc := NewServiceWithSystemKey(repo, newCipher(t), "sys")
	_, err := svc.Store(context.Background(), 1, "stored-key")
	require.NoError(t, err)

	got, err := svc.Resolve(context.Background(), Caller{UserID: 1}, "  override-key ")
	require.NoError(t, err)
	assert.Equal(t, "override-key", got.APIKey)
	assert.Equal(t, SourceOverride, got.Source)
}

func TestResolve_StoredKeyDecrypted(t *testing.T) {
	repo := newFakeRepo()
	svc := NewServiceWithSystemKey(repo, newCipher(t), "sys")
	_, err := svc.Store(context.Background(), 7, "sk-user-1234")
	require.NoError(t, err)
	assert.NotEqual(t, "sk-user-1234", repo.byUser[7].Ciphertext)

	got, err := svc.Resolve(context.Background(), Caller{UserID: 7}, "")
	require.NoError(t, err)
	assert.Equal(t, "sk-user-1234", got.APIKey)
	assert.Equal(t, SourceStored, got.Source)
}

func TestResolve_AnonymousSkipsStoredLookup(t *testing.T) {
	repo := newFakeRepo()
	repo.findErr = errors.New("must not be called")
	svc := NewServiceWithSystemKey(repo, newCipher(t), "sys")

	got, err := svc.Resolve(context.Background(), Caller{UserID: 3, Anonymous: true}, "")
	require.NoError(t, err)
	assert.Equal(t, SourceSystem, got.Source)
}

func TestResolve_DecryptFailureFallsBackToSystem(t *testing.T) {
	repo := newFakeRepo()
	repo.byUser[2] = &Credential{UserID: 2, Ciphertext: "garbage"}
	svc := NewServiceWithSystemKey(repo, newCipher(t), "sys")

	got, err := svc.Resolve(context.Background(), Caller{UserID: 2}, "")
	require.NoError(t, err)
	assert.Equal(t, "sys", got.APIKey)
	assert.Equal(t, SourceSystem, got.Source)
}

func TestResolve_StoreErrorFallsBackToSystem(t *testing.T) {
	repo := newFakeRepo()
	repo.findErr = errors.New("db down")
	svc := NewServiceWithSystemKey(repo, newCipher(t), "sys")

	got, err := svc.Resolve(context.Background(), Caller{UserID: 2}, "")
	require.NoError(t, err)
	assert.Equal(t, SourceSystem, got.Source)
}

func TestResolve_NothingAvailable(t *testing.T) {
	svc := NewServiceWithSystemKey(newFakeRepo(), nil, "")

	_, err := svc.Resolve(context.Background(), Caller{UserID: 1}, "")
	assert.ErrorIs(t, err, ErrNoCredentialAvailable)
}

func TestStore_StatusAndDelete(t *testing.T) {
	repo := newFakeRepo()
	svc := NewServiceWithSystemKey(repo, newCipher(t), "")
	ctx := context.Background()

	status, err := svc.Status(ctx, 9)
	require.NoError(t, err)
	assert.False(t, status.HasKey)

	status, err = svc.Store(ctx, 9, "sk-or-v1-abcdWXYZ")
	require.NoError(t, err)
	assert.Equal(t, &Status{HasKey: true, MaskedKey: "***WXYZ"}, status)

	status, err = svc.Status(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, "***WXYZ", status.MaskedKey)

	require.NoError(t, svc.Delete(ctx, 9))
	status, err = svc.Status(ctx, 9)
	require.NoError(t, err)
	assert.False(t, status.HasKey)
}

func TestStore_Rejections(t *testing.T) {
	svc := NewServiceWithSystemKey(newFakeRepo(), nil, "")

	_, err := svc.Store(context.Background(), 1, "   ")
	assert.ErrorIs(t, err, ErrEmptyKey)

	_, err = svc.Store(context.Background(), 1, "sk-real")
	assert.ErrorIs(t, err, ErrEncryptionUnavailable)
}
