package dbschema

import (
	"menlo.ai/chat-relay/app/domain/credential"
	"menlo.ai/chat-relay/app/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(Credential{})
}

type Credential struct {
	BaseModel
	UserID     uint   `gorm:"not null;uniqueIndex"`
	Ciphertext string `gorm:"type:text;not null"`
	Hint       string `gorm:"type:varchar(16)"`
	User       User   `gorm:"foreignKey:UserID"`
}

func NewSchemaCredential(c *credential.Credential) *Credential {
	return &Credential{
		BaseModel: BaseModel{
			ID:        c.ID,
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
		},
		UserID:     c.UserID,
		Ciphertext: c.Ciphertext,
		Hint:       c.Hint,
	}
}

func (c *Credential) EtoD() *credential.Credential {
	return &credential.Credential{
		ID:         c.ID,
		UserID:     c.UserID,
		Ciphertext: c.Ciphertext,
		Hint:       c.Hint,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}
