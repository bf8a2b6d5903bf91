package domain

import (
	"github.com/google/wire"
	"menlo.ai/chat-relay/app/domain/auth"
	"menlo.ai/chat-relay/app/domain/chat"
	"menlo.ai/chat-relay/app/domain/conversation"
	"menlo.ai/chat-relay/app/domain/credential"
	"menlo.ai/chat-relay/app/domain/cron"
	"menlo.ai/chat-relay/app/domain/healthcheck"
	"menlo.ai/chat-relay/app/domain/modelcatalog"
	"menlo.ai/chat-relay/app/domain/user"
)

var ServiceProvider = wire.NewSet(
	auth.NewAuthService,
	user.NewService,
	wire.Bind(new(chat.GuestProvisioner), new(*user.UserService)),
	conversation.NewService,
	conversation.NewHistoryFormatter,
	credential.NewEncrypter,
	credential.NewService,
	chat.NewRelayConfig,
	chat.NewStreamDecoder,
	chat.NewTitleSynthesizer,
	chat.NewRelayService,
	modelcatalog.NewService,
	wire.Bind(new(cron.ModelRefresher), new(*modelcatalog.ModelCatalogService)),
	cron.NewService,
	healthcheck.NewService,
)
