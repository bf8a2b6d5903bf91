package conversationrepo

import (
	"context"

	"gorm.io/gorm"
	domain "menlo.ai/chat-relay/app/domain/conversation"
	"menlo.ai/chat-relay/app/domain/query"
	"menlo.ai/chat-relay/app/infrastructure/database/dbschema"
	"menlo.ai/chat-relay/app/infrastructure/database/repository/transaction"
)

type ConversationGormRepository struct {
	db *transaction.Database
}

func NewConversationGormRepository(db *transaction.Database) domain.ConversationRepository {
	return &ConversationGormRepository{
		db: db,
	}
}

func (r *ConversationGormRepository) Create(ctx context.Context, conversation *domain.Conversation) error {
	model := dbschema.NewSchemaConversation(conversation)
	if err := r.db.GetTx(ctx).Omit("User").Create(model).Error; err != nil {
		return err
	}
	conversation.ID = model.ID
	conversation.CreatedAt = model.CreatedAt
	conversation.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *ConversationGormRepository) FindByFilter(ctx context.Context, filter domain.ConversationFilter, pagination *query.Pagination) ([]*domain.Conversation, error) {
	sql := r.applyFilter(r.db.GetTx(ctx).Model(&dbschema.Conversation{}), filter)
	if pagination != nil {
		if pagination.Order == "asc" {
			sql = sql.Order("id ASC")
		} else {
			sql = sql.Order("id DESC")
		}
		if pagination.Limit != nil {
			sql = sql.Limit(*pagination.Limit)
		}
		if pagination.Offset != nil {
			sql = sql.Offset(*pagination.Offset)
		}
	}
	var models []dbschema.Conversation
	if err := sql.Find(&models).Error; err != nil {
		return nil, err
	}
	result := make([]*domain.Conversation, len(models))
	for i := range models {
		result[i] = models[i].EtoD()
	}
	return result, nil
}

func (r *ConversationGormRepository) Count(ctx context.Context, filter domain.ConversationFilter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db.GetTx(ctx).Model(&dbschema.Conversation{}), filter).Count(&count).Error
	return count, err
}

func (r *ConversationGormRepository) UpdateTitle(ctx context.Context, id uint, title string) error {
	return r.db.GetTx(ctx).
		Model(&dbschema.Conversation{}).
		Where("id = ?", id).
		Update("title", title).Error
}

func (r *ConversationGormRepository) applyFilter(sql *gorm.DB, filter domain.ConversationFilter) *gorm.DB {
	if filter.PublicID != nil {
		sql = sql.Where("public_id = ?", *filter.PublicID)
	}
	if filter.UserID != nil {
		sql = sql.Where("user_id = ?", *filter.UserID)
	}
	return sql
}
