package healthcheck

import (
	"context"
	"time"

	"gorm.io/gorm"
	"menlo.ai/chat-relay/app/infrastructure/cache"
	"menlo.ai/chat-relay/app/utils/logger"
)

const checkTimeout = 2 * time.Second

const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"
	StatusDisabled = "disabled"
)

type Report struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Cache    string `json:"cache"`
}

// HealthcheckService probes the store and cache backing the relay.
type HealthcheckService struct {
	db    *gorm.DB
	cache cache.CacheService
}

func NewService(db *gorm.DB, cacheService cache.CacheService) *HealthcheckService {
	return &HealthcheckService{
		db:    db,
		cache: cacheService,
	}
}

func (hs *HealthcheckService) Check(ctx context.Context) Report {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	report := Report{Status: StatusOK, Database: StatusDisabled, Cache: StatusOK}
	if hs.db != nil {
		report.Database = StatusOK
		if err := hs.pingDatabase(ctx); err != nil {
			logger.GetLogger().Warnf("healthcheck: database unreachable: %v", err)
			report.Database = StatusDegraded
			report.Status = StatusDegraded
		}
	}
	if hs.cache != nil {
		if err := hs.cache.HealthCheck(ctx); err != nil {
			logger.GetLogger().Warnf("healthcheck: cache unreachable: %v", err)
			report.Cache = StatusDegraded
			report.Status = StatusDegraded
		}
	}
	return report
}

func (hs *HealthcheckService) pingDatabase(ctx context.Context) error {
	sqlDB, err := hs.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
