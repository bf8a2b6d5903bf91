package dbschema

import (
	"menlo.ai/chat-relay/app/domain/conversation"
	"menlo.ai/chat-relay/app/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(Conversation{})
	database.RegisterSchemaForAutoMigrate(Turn{})
}

type Conversation struct {
	BaseModel
	PublicID string `gorm:"type:varchar(64);uniqueIndex;not null"`
	Title    string `gorm:"type:varchar(255)"`
	UserID   uint   `gorm:"not null;index"`
	Turns    []Turn `gorm:"foreignKey:ConversationID"`
	User     User   `gorm:"foreignKey:UserID"`
}

type Turn struct {
	BaseModel
	PublicID       string       `gorm:"type:varchar(50);uniqueIndex;not null"`
	ConversationID uint         `gorm:"not null;index"`
	UserID         *uint        `gorm:"index"`
	Role           string       `gorm:"type:varchar(20);not null"`
	Content        string       `gorm:"type:text"`
	Model          string       `gorm:"type:varchar(255)"`
	Conversation   Conversation `gorm:"foreignKey:ConversationID"`
}

func NewSchemaConversation(c *conversation.Conversation) *Conversation {
	return &Conversation{
		BaseModel: BaseModel{
			ID:        c.ID,
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
		},
		PublicID: c.PublicID,
		Title:    c.Title,
		UserID:   c.UserID,
	}
}

func (c *Conversation) EtoD() *conversation.Conversation {
	return &conversation.Conversation{
		ID:        c.ID,
		PublicID:  c.PublicID,
		UserID:    c.UserID,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func NewSchemaTurn(t *conversation.Turn) *Turn {
	return &Turn{
		BaseModel: BaseModel{
			ID:        t.ID,
			CreatedAt: t.CreatedAt,
			UpdatedAt: t.CreatedAt,
		},
		PublicID:       t.PublicID,
		ConversationID: t.ConversationID,
		UserID:         t.UserID,
		Role:           string(t.Role),
		Content:        t.Content,
		Model:          t.Model,
	}
}

func (t *Turn) EtoD() *conversation.Turn {
	role, ok := conversation.ParseRole(t.Role)
	if !ok {
		role = conversation.Role(t.Role)
	}
	return &conversation.Turn{
		ID:             t.ID,
		PublicID:       t.PublicID,
		ConversationID: t.ConversationID,
		UserID:         t.UserID,
		Role:           role,
		Content:        t.Content,
		Model:          t.Model,
		CreatedAt:      t.CreatedAt,
	}
}
