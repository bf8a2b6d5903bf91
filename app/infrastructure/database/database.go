package database

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
	"gorm.io/plugin/dbresolver"
	"menlo.ai/chat-relay/app/utils/logger"
	"menlo.ai/chat-relay/config/environment_variables"
)

var SchemaRegistry []interface{}

func RegisterSchemaForAutoMigrate(models ...interface{}) {
	SchemaRegistry = append(SchemaRegistry, models...)
}

var DB *gorm.DB

// NewDB returns nil, nil when no write DSN is configured; repositories then fall back to memory.
func NewDB() (*gorm.DB, error) {
	env := environment_variables.EnvironmentVariables
	if env.DB_POSTGRESQL_WRITE_DSN == "" {
		logger.GetLogger().Warn("DB_POSTGRESQL_WRITE_DSN is empty, using in-memory store")
		return nil, nil
	}
	db, err := gorm.Open(postgres.Open(env.DB_POSTGRESQL_WRITE_DSN), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true,
		},
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		logger.GetLogger().
			WithField("error_code", "5c16fb53-d98c-4fc6-8bb4-9abd3c0b9e88").
			Errorf("unable to connect to database: %v", err)
		return nil, err
	}
	if env.DB_POSTGRESQL_READ1_DSN != "" {
		err = db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: []gorm.Dialector{postgres.Open(
				env.DB_POSTGRESQL_READ1_DSN,
			)},
			Policy: dbresolver.RandomPolicy{},
		}))
		if err != nil {
			logger.GetLogger().
				WithField("error_code", "9fab4b2e-1d70-4a4e-928a-5e81c7ee06de").
				Errorf("unable to setup replica: %v", err)
			return nil, err
		}
	}

	if err := NewDBMigrator(db).Migrate(); err != nil {
		logger.GetLogger().
			WithField("error_code", "75333e43-8157-4f0a-8e34-aa34e6e7c285").
			Errorf("failed to migrate schema: %v", err)
		return nil, err
	}

	DB = db
	return DB, nil
}
