package turnrepo

import (
	"context"

	domain "menlo.ai/chat-relay/app/domain/conversation"
	"menlo.ai/chat-relay/app/infrastructure/database/dbschema"
	"menlo.ai/chat-relay/app/infrastructure/database/repository/transaction"
)

type TurnGormRepository struct {
	db *transaction.Database
}

func NewTurnGormRepository(db *transaction.Database) domain.TurnRepository {
	return &TurnGormRepository{
		db: db,
	}
}

func (r *TurnGormRepository) Create(ctx context.Context, turn *domain.Turn) error {
	model := dbschema.NewSchemaTurn(turn)
	if err := r.db.GetTx(ctx).Omit("Conversation").Create(model).Error; err != nil {
		return err
	}
	turn.ID = model.ID
	turn.CreatedAt = model.CreatedAt
	return nil
}

func (r *TurnGormRepository) FindByConversationID(ctx context.Context, conversationID uint) ([]*domain.Turn, error) {
	var models []dbschema.Turn
	if err := r.db.GetTx(ctx).Where("conversation_id = ?", conversationID).Find(&models).Error; err != nil {
		return nil, err
	}
	turns := make([]*domain.Turn, len(models))
	for i := range models {
		turns[i] = models[i].EtoD()
	}
	return turns, nil
}

func (r *TurnGormRepository) CountByConversationID(ctx context.Context, conversationID uint) (int64, error) {
	var count int64
	err := r.db.GetTx(ctx).Model(&dbschema.Turn{}).Where("conversation_id = ?", conversationID).Count(&count).Error
	return count, err
}
