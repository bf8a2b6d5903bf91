package cron

import (
	"context"

	"github.com/mileusna/crontab"
	"menlo.ai/chat-relay/app/domain/modelcatalog"
	"menlo.ai/chat-relay/app/utils/logger"
	"menlo.ai/chat-relay/config/environment_variables"
)

const modelRefreshSchedule = "*/10 * * * *"

type ModelRefresher interface {
	RefreshModels(ctx context.Context) ([]modelcatalog.Model, error)
}

type CronService struct {
	ModelRefresher ModelRefresher
}

func NewService(modelRefresher ModelRefresher) *CronService {
	return &CronService{
		ModelRefresher: modelRefresher,
	}
}

func (cs *CronService) Start(ctx context.Context, ctab *crontab.Crontab) error {
	cs.refreshModels(ctx)

	return ctab.AddJob(modelRefreshSchedule, func() {
		cs.refreshModels(ctx)
		environment_variables.EnvironmentVariables.LoadFromEnv()
	})
}

func (cs *CronService) refreshModels(ctx context.Context) {
	if cs == nil || cs.ModelRefresher == nil {
		return
	}

	models, err := cs.ModelRefresher.RefreshModels(ctx)
	if err != nil {
		logger.GetLogger().Warnf("cron service: failed to refresh models: %v", err)
		return
	}
	logger.GetLogger().Debugf("cron service: refreshed %d models", len(models))
}
