package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"menlo.ai/chat-relay/app/utils/logger"
)

// SchemaVersion must be bumped whenever a registered schema changes.
const SchemaVersion int64 = 1

type DatabaseMigration struct {
	ID        uint  `gorm:"primarykey"`
	Version   int64 `gorm:"not null"`
	UpdatedAt time.Time
}

type DBMigrator struct {
	db *gorm.DB
}

func NewDBMigrator(db *gorm.DB) *DBMigrator {
	return &DBMigrator{
		db: db,
	}
}

// Migrate runs AutoMigrate at most once per schema version. Concurrent starters serialize on a table lock.
func (d *DBMigrator) Migrate() error {
	ctx := context.Background()
	if err := d.db.WithContext(ctx).AutoMigrate(&DatabaseMigration{}); err != nil {
		return fmt.Errorf("failed to create 'database_migration' table: %w", err)
	}
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("LOCK TABLE database_migration IN EXCLUSIVE MODE").Error; err != nil {
			return fmt.Errorf("failed to lock migration table: %w", err)
		}
		var current DatabaseMigration
		if err := tx.Order("id").Limit(1).Find(&current).Error; err != nil {
			return fmt.Errorf("failed to query migration records: %w", err)
		}
		if current.ID != 0 && current.Version >= SchemaVersion {
			return nil
		}
		if err := tx.AutoMigrate(SchemaRegistry...); err != nil {
			return fmt.Errorf("failed to auto migrate schema: %w", err)
		}
		current.Version = SchemaVersion
		if err := tx.Save(&current).Error; err != nil {
			return fmt.Errorf("failed to record schema version: %w", err)
		}
		logger.GetLogger().Infof("database schema migrated to version %d", SchemaVersion)
		return nil
	})
}
