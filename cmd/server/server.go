package main

import (
	"context"

	"github.com/mileusna/crontab"
	"menlo.ai/chat-relay/app/domain/cron"
	"menlo.ai/chat-relay/app/interfaces/http"
	"menlo.ai/chat-relay/app/utils/logger"
	"menlo.ai/chat-relay/config/environment_variables"
)

type Application struct {
	HttpServer  *http.HttpServer
	CronService *cron.CronService
}

func (application *Application) Start() {
	if err := application.HttpServer.Run(); err != nil {
		panic(err)
	}
}

func init() {
	environment_variables.EnvironmentVariables.LoadFromEnv()
}

func main() {
	application, err := CreateApplication()
	if err != nil {
		panic(err)
	}
	ctab := crontab.New()
	if err := application.CronService.Start(context.Background(), ctab); err != nil {
		logger.GetLogger().
			WithField("error_code", "0d8e3a61-7c2f-4b95-a1e4-6f9b2d5c8a37").
			Errorf("failed to schedule cron jobs: %v", err)
	}
	application.Start()
}
