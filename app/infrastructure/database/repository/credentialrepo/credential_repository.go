package credentialrepo

import (
	"context"

	"gorm.io/gorm/clause"
	domain "menlo.ai/chat-relay/app/domain/credential"
	"menlo.ai/chat-relay/app/infrastructure/database/dbschema"
	"menlo.ai/chat-relay/app/infrastructure/database/repository/transaction"
)

type CredentialGormRepository struct {
	db *transaction.Database
}

func NewCredentialGormRepository(db *transaction.Database) domain.CredentialRepository {
	return &CredentialGormRepository{
		db: db,
	}
}

func (r *CredentialGormRepository) Upsert(ctx context.Context, c *domain.Credential) error {
	model := dbschema.NewSchemaCredential(c)
	err := r.db.GetTx(ctx).
		Omit("User").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"ciphertext", "hint", "updated_at"}),
		}).
		Create(model).Error
	if err != nil {
		return err
	}
	c.ID = model.ID
	c.CreatedAt = model.CreatedAt
	c.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *CredentialGormRepository) FindByUserID(ctx context.Context, userID uint) (*domain.Credential, error) {
	var models []dbschema.Credential
	if err := r.db.GetTx(ctx).Where("user_id = ?", userID).Limit(1).Find(&models).Error; err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	return models[0].EtoD(), nil
}

func (r *CredentialGormRepository) DeleteByUserID(ctx context.Context, userID uint) error {
	return r.db.GetTx(ctx).Where("user_id = ?", userID).Delete(&dbschema.Credential{}).Error
}
