//go:build wireinject

package main

import (
	"github.com/google/wire"
	"menlo.ai/chat-relay/app/domain"
	"menlo.ai/chat-relay/app/infrastructure"
	"menlo.ai/chat-relay/app/infrastructure/database"
	"menlo.ai/chat-relay/app/infrastructure/database/repository"
	"menlo.ai/chat-relay/app/interfaces/http"
	"menlo.ai/chat-relay/app/interfaces/http/routes"
)

func CreateApplication() (*Application, error) {
	wire.Build(
		database.NewDB,
		repository.RepositoryProvider,
		infrastructure.InfrastructureProvider,
		domain.ServiceProvider,
		routes.RouteProvider,
		http.NewHttpServer,
		wire.Struct(new(Application), "*"),
	)
	return nil, nil
}
