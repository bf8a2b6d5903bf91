package userrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	domain "menlo.ai/chat-relay/app/domain/user"
	"menlo.ai/chat-relay/app/infrastructure/database/dbschema"
	"menlo.ai/chat-relay/app/infrastructure/database/repository/transaction"
)

type UserGormRepository struct {
	db *transaction.Database
}

func NewUserGormRepository(db *transaction.Database) domain.UserRepository {
	return &UserGormRepository{
		db: db,
	}
}

func (r *UserGormRepository) Create(ctx context.Context, u *domain.User) error {
	model := dbschema.NewSchemaUser(u)
	if err := r.db.GetTx(ctx).Create(model).Error; err != nil {
		return err
	}
	u.ID = model.ID
	u.CreatedAt = model.CreatedAt
	return nil
}

func (r *UserGormRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var model dbschema.User
	if err := r.db.GetTx(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.EtoD(), nil
}

func (r *UserGormRepository) FindByPublicID(ctx context.Context, publicID string) (*domain.User, error) {
	var models []dbschema.User
	if err := r.db.GetTx(ctx).Where("public_id = ?", publicID).Limit(1).Find(&models).Error; err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	return models[0].EtoD(), nil
}
