package chat

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"menlo.ai/chat-relay/app/domain/auth"
	"menlo.ai/chat-relay/app/domain/chat"
	"menlo.ai/chat-relay/app/domain/common"
	"menlo.ai/chat-relay/app/domain/conversation"
	"menlo.ai/chat-relay/app/domain/credential"
	"menlo.ai/chat-relay/app/interfaces/http/responses"
	"menlo.ai/chat-relay/app/utils/logger"
	"menlo.ai/chat-relay/app/utils/ptr"
)

type ChatRoute struct {
	authService  *auth.AuthService
	relayService *chat.RelayService
}

func NewChatRoute(authService *auth.AuthService, relayService *chat.RelayService) *ChatRoute {
	return &ChatRoute{
		authService:  authService,
		relayService: relayService,
	}
}

func (chatRoute *ChatRoute) RegisterRouter(router gin.IRouter) {
	router.POST("/chat", chatRoute.authService.OptionalAuthMiddleware(), chatRoute.PostChat)
}

type ChatRequest struct {
	ChatID *string `json:"chatId"`
	Model  string  `json:"model"`
	Prompt string  `json:"prompt"`
	Key    *string `json:"key"`
}

// PostChat relays one prompt and streams the reply as server-sent events. Failures before
// the stream starts are plain JSON errors.
func (chatRoute *ChatRoute) PostChat(reqCtx *gin.Context) {
	var request ChatRequest
	if err := reqCtx.ShouldBindJSON(&request); err != nil {
		reqCtx.AbortWithStatusJSON(http.StatusBadRequest, responses.ErrorResponse{
			Code:  "e5c96a9e-7ff9-4408-9514-9d206ca85b33",
			Error: "Invalid request payload",
		})
		return
	}

	caller, _ := auth.GetUserFromContext(reqCtx)
	err := chatRoute.relayService.Relay(reqCtx.Request.Context(), caller, chat.ExchangeRequest{
		ConversationID:     ptr.FromString(request.ChatID),
		Model:              request.Model,
		Prompt:             request.Prompt,
		CredentialOverride: ptr.FromString(request.Key),
	}, NewSSESink(reqCtx, chatRoute.authService))
	if err != nil {
		status, relayErr := mapRelayError(err)
		reqCtx.AbortWithStatusJSON(status, responses.ErrorResponse{
			Code:  relayErr.GetCode(),
			Error: relayErr.GetMessage(),
		})
	}
}

func mapRelayError(err error) (int, *common.Error) {
	switch {
	case errors.Is(err, chat.ErrModelRequired), errors.Is(err, chat.ErrEmptyPrompt):
		return http.StatusBadRequest, common.NewError(err, "f44a0c2d-793f-4ee8-acd1-ed15f311160a")
	case errors.Is(err, chat.ErrAuthRequired):
		return http.StatusUnauthorized, common.NewError(err, "3296ce86-783b-4c05-9fdb-930d3713024e")
	case errors.Is(err, conversation.ErrConversationNotFound):
		return http.StatusNotFound, common.NewError(err, "c1d8e0a2-6b74-4e39-9f15-2a7c3b8d4e61")
	case errors.Is(err, credential.ErrNoCredentialAvailable):
		return http.StatusBadRequest, common.NewErrorWithMessage("no_credential", "f3a9b1c7-2d5e-4860-a4b2-7e9c1d3f5a08")
	default:
		logger.GetLogger().
			WithField("error_code", "bc82d69c-685b-4556-9d1f-2a4a80ae8ca4").
			Errorf("chat relay failed: %v", err)
		return http.StatusInternalServerError, common.NewErrorWithMessage("Failed to process chat", "bc82d69c-685b-4556-9d1f-2a4a80ae8ca4")
	}
}
