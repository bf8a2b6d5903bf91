package memoryrepo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"menlo.ai/chat-relay/app/domain/conversation"
	"menlo.ai/chat-relay/app/domain/credential"
	"menlo.ai/chat-relay/app/domain/user"
)

func TestUserRepository_UniqueKeys(t *testing.T) {
	repo := NewUserRepository(NewStore())
	ctx := context.Background()

	u := &user.User{PublicID: "user_1", Email: "a@example.com"}
	require.NoError(t, repo.Create(ctx, u))
	assert.NotZero(t, u.ID)

	assert.ErrorIs(t, repo.Create(ctx, &user.User{PublicID: "user_1"}), ErrDuplicateKey)
	assert.ErrorIs(t, repo.Create(ctx, &user.User{PublicID: "user_2", Email: "a@example.com"}), ErrDuplicateKey)

	found, err := repo.FindByPublicID(ctx, "user_1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)

	missing, err := repo.FindByID(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestConversationRepository_ReturnsCopies(t *testing.T) {
	repo := NewConversationRepository(NewStore())
	ctx := context.Background()
	c := &conversation.Conversation{PublicID: "c1", UserID: 1, Title: "t"}
	require.NoError(t, repo.Create(ctx, c))

	publicID := "c1"
	found, err := repo.FindByFilter(ctx, conversation.ConversationFilter{PublicID: &publicID}, nil)
	require.NoError(t, err)
	require.Len(t, found, 1)
	found[0].Title = "mutated"

	again, err := repo.FindByFilter(ctx, conversation.ConversationFilter{PublicID: &publicID}, nil)
	require.NoError(t, err)
	assert.Equal(t, "t", again[0].Title)

	require.NoError(t, repo.UpdateTitle(ctx, c.ID, "renamed"))
	again, err = repo.FindByFilter(ctx, conversation.ConversationFilter{PublicID: &publicID}, nil)
	require.NoError(t, err)
	assert.Equal(t, "renamed", again[0].Title)
}

func TestTurnRepository_FiltersByConversation(t *testing.T) {
	repo := NewTurnRepository(NewStore())
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &conversation.Turn{ConversationID: 1, Content: "a"}))
	require.NoError(t, repo.Create(ctx, &conversation.Turn{ConversationID: 2, Content: "b"}))
	require.NoError(t, repo.Create(ctx, &conversation.Turn{ConversationID: 1, Content: "c"}))

	turns, err := repo.FindByConversationID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, "a", turns[0].Content)
	assert.Equal(t, "c", turns[1].Content)

	count, err := repo.CountByConversationID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestCredentialRepository_UpsertKeepsOneRow(t *testing.T) {
	repo := NewCredentialRepository(NewStore())
	ctx := context.Background()

	first := &credential.Credential{UserID: 3, Ciphertext: "x", Hint: "***1111"}
	require.NoError(t, repo.Upsert(ctx, first))
	second := &credential.Credential{UserID: 3, Ciphertext: "y", Hint: "***2222"}
	require.NoError(t, repo.Upsert(ctx, second))

	assert.Equal(t, first.ID, second.ID)
	stored, err := repo.FindByUserID(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "y", stored.Ciphertext)

	require.NoError(t, repo.DeleteByUserID(ctx, 3))
	stored, err = repo.FindByUserID(ctx, 3)
	require.NoError(t, err)
	assert.Nil(t, stored)
}
