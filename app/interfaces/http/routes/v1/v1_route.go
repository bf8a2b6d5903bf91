package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"menlo.ai/chat-relay/app/interfaces/http/routes/v1/auth"
	"menlo.ai/chat-relay/app/interfaces/http/routes/v1/chat"
	"menlo.ai/chat-relay/app/interfaces/http/routes/v1/conversations"
	"menlo.ai/chat-relay/app/interfaces/http/routes/v1/credentials"
	"menlo.ai/chat-relay/config"
)

type V1Route struct {
	authRoute       *auth.AuthRoute
	chatRoute       *chat.ChatRoute
	conversationAPI *conversations.ConversationAPI
	credentialRoute *credentials.CredentialRoute
	modelAPI        *ModelAPI
}

func NewV1Route(
	authRoute *auth.AuthRoute,
	chatRoute *chat.ChatRoute,
	conversationAPI *conversations.ConversationAPI,
	credentialRoute *credentials.CredentialRoute,
	modelAPI *ModelAPI,
) *V1Route {
	return &V1Route{
		authRoute,
		chatRoute,
		conversationAPI,
		credentialRoute,
		modelAPI,
	}
}

func (v1Route *V1Route) RegisterRouter(router gin.IRouter) {
	v1Router := router.Group("/v1")
	v1Router.GET("/version", GetVersion)
	v1Route.authRoute.RegisterRouter(v1Router)
	v1Route.chatRoute.RegisterRouter(v1Router)
	v1Route.conversationAPI.RegisterRouter(v1Router)
	v1Route.credentialRoute.RegisterRouter(v1Router)
	v1Route.modelAPI.RegisterRouter(v1Router)
}

func GetVersion(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"version": config.Version,
	})
}
