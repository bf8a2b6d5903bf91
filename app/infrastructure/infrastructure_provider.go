package infrastructure

import (
	"github.com/google/wire"
	"menlo.ai/chat-relay/app/domain/chat"
	"menlo.ai/chat-relay/app/domain/modelcatalog"
	"menlo.ai/chat-relay/app/infrastructure/cache"
	openrouterclient "menlo.ai/chat-relay/app/utils/httpclients/openrouter"
)

var InfrastructureProvider = wire.NewSet(
	openrouterclient.NewClient,
	wire.Bind(new(chat.CompletionClient), new(*openrouterclient.Client)),
	wire.Bind(new(modelcatalog.ModelLister), new(*openrouterclient.Client)),
	cache.NewRedisClient,
	cache.NewCacheService,
	cache.NewLocker,
)
