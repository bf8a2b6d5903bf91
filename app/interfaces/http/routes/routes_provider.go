package routes

import (
	"github.com/google/wire"
	v1 "menlo.ai/chat-relay/app/interfaces/http/routes/v1"
	"menlo.ai/chat-relay/app/interfaces/http/routes/v1/auth"
	"menlo.ai/chat-relay/app/interfaces/http/routes/v1/chat"
	"menlo.ai/chat-relay/app/interfaces/http/routes/v1/conversations"
	"menlo.ai/chat-relay/app/interfaces/http/routes/v1/credentials"
)

var RouteProvider = wire.NewSet(
	auth.NewAuthRoute,
	chat.NewChatRoute,
	conversations.NewConversationAPI,
	credentials.NewCredentialRoute,
	v1.NewModelAPI,
	v1.NewV1Route,
)
