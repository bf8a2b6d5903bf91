package dbschema

import (
	"menlo.ai/chat-relay/app/domain/user"
	"menlo.ai/chat-relay/app/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(User{})
}

type User struct {
	BaseModel
	PublicID string `gorm:"type:varchar(50);uniqueIndex;not null"`
	Name     string `gorm:"type:varchar(255)"`
	Email    string `gorm:"type:varchar(255);uniqueIndex"`
	IsGuest  bool   `gorm:"not null;default:false"`
	Enabled  bool   `gorm:"not null;default:true"`
}

func NewSchemaUser(u *user.User) *User {
	return &User{
		BaseModel: BaseModel{
			ID:        u.ID,
			CreatedAt: u.CreatedAt,
		},
		PublicID: u.PublicID,
		Name:     u.Name,
		Email:    u.Email,
		IsGuest:  u.IsGuest,
		Enabled:  u.Enabled,
	}
}

func (u *User) EtoD() *user.User {
	return &user.User{
		ID:        u.ID,
		PublicID:  u.PublicID,
		Name:      u.Name,
		Email:     u.Email,
		IsGuest:   u.IsGuest,
		Enabled:   u.Enabled,
		CreatedAt: u.CreatedAt,
	}
}
