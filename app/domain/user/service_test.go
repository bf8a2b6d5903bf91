package user_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"menlo.ai/chat-relay/app/domain/user"
	"menlo.ai/chat-relay/app/infrastructure/database/repository/memoryrepo"
)

func TestRegisterGuest(t *testing.T) {
	s := user.NewService(memoryrepo.NewUserRepository(memoryrepo.NewStore()))
	ctx := context.Background()

	first, err := s.RegisterGuest(ctx)
	require.NoError(t, err)
	second, err := s.RegisterGuest(ctx)
	require.NoError(t, err)

	assert.True(t, first.IsGuest)
	assert.True(t, first.Enabled)
	assert.True(t, strings.HasPrefix(first.Name, "Guest-"))
	assert.True(t, strings.HasSuffix(first.Email, "@guest.local"))
	assert.NotEqual(t, first.PublicID, second.PublicID)
	assert.NotEqual(t, first.Name, second.Name)

	found, err := s.FindByPublicID(ctx, first.PublicID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, first.ID, found.ID)
}

func TestFindByPublicID_Missing(t *testing.T) {
	s := user.NewService(memoryrepo.NewUserRepository(memoryrepo.NewStore()))

	found, err := s.FindByPublicID(context.Background(), "user_missing")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestFindOrRegister_CreatesOnceWithTokenDetails(t *testing.T) {
	s := user.NewService(memoryrepo.NewUserRepository(memoryrepo.NewStore()))
	ctx := context.Background()

	first, err := s.FindOrRegister(ctx, "user_ada", "ada@example.com", "Ada")
	require.NoError(t, err)
	second, err := s.FindOrRegister(ctx, "user_ada", "other@example.com", "Other")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "ada@example.com", second.Email)
	assert.Equal(t, "Ada", second.Name)
	assert.False(t, second.IsGuest)
	assert.True(t, second.Enabled)
}

func TestFindOrRegister_FillsMissingEmail(t *testing.T) {
	s := user.NewService(memoryrepo.NewUserRepository(memoryrepo.NewStore()))

	u, err := s.FindOrRegister(context.Background(), "user_anon", "", "")
	require.NoError(t, err)
	assert.Equal(t, "user_anon@users.local", u.Email)
	assert.Equal(t, u.Email, u.Name)
}
