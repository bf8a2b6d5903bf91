package repository

import (
	"github.com/google/wire"
	"gorm.io/gorm"
	"menlo.ai/chat-relay/app/domain/chat"
	"menlo.ai/chat-relay/app/domain/conversation"
	"menlo.ai/chat-relay/app/domain/credential"
	"menlo.ai/chat-relay/app/domain/user"
	"menlo.ai/chat-relay/app/infrastructure/database/repository/conversationrepo"
	"menlo.ai/chat-relay/app/infrastructure/database/repository/credentialrepo"
	"menlo.ai/chat-relay/app/infrastructure/database/repository/memoryrepo"
	"menlo.ai/chat-relay/app/infrastructure/database/repository/transaction"
	"menlo.ai/chat-relay/app/infrastructure/database/repository/turnrepo"
	"menlo.ai/chat-relay/app/infrastructure/database/repository/userrepo"
)

// Each provider falls back to the in-memory store when no database is configured.
var RepositoryProvider = wire.NewSet(
	transaction.NewDatabase,
	memoryrepo.NewStore,
	NewUserRepository,
	NewConversationRepository,
	NewTurnRepository,
	NewCredentialRepository,
	NewTxRunner,
)

func NewUserRepository(db *gorm.DB, tx *transaction.Database, store *memoryrepo.Store) user.UserRepository {
	if db == nil {
		return memoryrepo.NewUserRepository(store)
	}
	return userrepo.NewUserGormRepository(tx)
}

func NewConversationRepository(db *gorm.DB, tx *transaction.Database, store *memoryrepo.Store) conversation.ConversationRepository {
	if db == nil {
		return memoryrepo.NewConversationRepository(store)
	}
	return conversationrepo.NewConversationGormRepository(tx)
}

func NewTurnRepository(db *gorm.DB, tx *transaction.Database, store *memoryrepo.Store) conversation.TurnRepository {
	if db == nil {
		return memoryrepo.NewTurnRepository(store)
	}
	return turnrepo.NewTurnGormRepository(tx)
}

func NewCredentialRepository(db *gorm.DB, tx *transaction.Database, store *memoryrepo.Store) credential.CredentialRepository {
	if db == nil {
		return memoryrepo.NewCredentialRepository(store)
	}
	return credentialrepo.NewCredentialGormRepository(tx)
}

func NewTxRunner(db *gorm.DB, tx *transaction.Database, store *memoryrepo.Store) chat.TxRunner {
	if db == nil {
		return store
	}
	return tx
}
