package conversations

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"menlo.ai/chat-relay/app/domain/auth"
	"menlo.ai/chat-relay/app/domain/conversation"
	"menlo.ai/chat-relay/app/domain/query"
	"menlo.ai/chat-relay/app/interfaces/http/responses"
	"menlo.ai/chat-relay/app/utils/functional"
	"menlo.ai/chat-relay/app/utils/logger"
)

const ChatPathParam = "chat_id"

// ConversationAPI exposes the caller's conversations and their turns.
type ConversationAPI struct {
	conversationService *conversation.ConversationService
	authService         *auth.AuthService
}

func NewConversationAPI(
	conversationService *conversation.ConversationService,
	authService *auth.AuthService) *ConversationAPI {
	return &ConversationAPI{
		conversationService,
		authService,
	}
}

func (api *ConversationAPI) RegisterRouter(router gin.IRouter) {
	chatsRouter := router.Group("/chats",
		api.authService.OptionalAuthMiddleware(),
		api.authService.RegisteredUserMiddleware(),
	)
	chatsRouter.GET("", api.listConversationsHandler)
	chatsRouter.GET("/:"+ChatPathParam+"/messages", api.listMessagesHandler)
	chatsRouter.PATCH("/:"+ChatPathParam, api.updateConversationHandler)
}

type ConversationResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type MessageResponse struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Model     string    `json:"model,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type UpdateConversationRequest struct {
	Title string `json:"title"`
}

func (api *ConversationAPI) listConversationsHandler(reqCtx *gin.Context) {
	user, _ := auth.GetUserFromContext(reqCtx)
	pagination, err := query.GetPaginationFromQuery(reqCtx)
	if err != nil {
		reqCtx.AbortWithStatusJSON(http.StatusBadRequest, responses.ErrorResponse{
			Code:  "4434f5ed-89f4-4a62-9fef-8ca53336dcda",
			Error: err.Error(),
		})
		return
	}

	convs, total, err := api.conversationService.ListConversations(reqCtx.Request.Context(), user.ID, pagination)
	if err != nil {
		logger.GetLogger().
			WithField("error_code", "57e4c1b2-8d3a-4f96-a0b7-1c2e9d8f3a45").
			Errorf("failed to list conversations: %v", err)
		reqCtx.AbortWithStatusJSON(http.StatusInternalServerError, responses.ErrorResponse{
			Code:  "57e4c1b2-8d3a-4f96-a0b7-1c2e9d8f3a45",
			Error: "Failed to list conversations",
		})
		return
	}

	reqCtx.JSON(http.StatusOK, responses.ListResponse[*ConversationResponse]{
		Object:  "list",
		Data:    functional.Map(convs, domainToConversationResponse),
		HasMore: int64(*pagination.Offset+len(convs)) < total,
		Total:   total,
	})
}

func (api *ConversationAPI) listMessagesHandler(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()
	user, _ := auth.GetUserFromContext(reqCtx)
	conv, err := api.conversationService.FindConversation(ctx, reqCtx.Param(ChatPathParam), user.ID)
	if err != nil {
		api.abortWithConversationError(reqCtx, err)
		return
	}

	turns, err := api.conversationService.ListOrderedTurns(ctx, conv.ID)
	if err != nil {
		api.abortWithConversationError(reqCtx, err)
		return
	}

	reqCtx.JSON(http.StatusOK, responses.ListResponse[*MessageResponse]{
		Object: "list",
		Data:   functional.Map(turns, domainToMessageResponse),
		Total:  int64(len(turns)),
	})
}

func (api *ConversationAPI) updateConversationHandler(reqCtx *gin.Context) {
	user, _ := auth.GetUserFromContext(reqCtx)
	var request UpdateConversationRequest
	if err := reqCtx.ShouldBindJSON(&request); err != nil {
		reqCtx.AbortWithStatusJSON(http.StatusBadRequest, responses.ErrorResponse{
			Code:  "a7f5a2c1-3e94-4d0b-8c6f-2b1d9e7a0c53",
			Error: "Invalid request payload",
		})
		return
	}

	conv, err := api.conversationService.RenameConversation(reqCtx.Request.Context(), reqCtx.Param(ChatPathParam), user.ID, request.Title)
	if err != nil {
		api.abortWithConversationError(reqCtx, err)
		return
	}
	reqCtx.JSON(http.StatusOK, domainToConversationResponse(conv))
}

func (api *ConversationAPI) abortWithConversationError(reqCtx *gin.Context, err error) {
	switch {
	case errors.Is(err, conversation.ErrConversationNotFound):
		reqCtx.AbortWithStatusJSON(http.StatusNotFound, responses.ErrorResponse{
			Code:  "f5742805-2c6e-45a8-b6a8-95091b9d46f0",
			Error: err.Error(),
		})
	case errors.Is(err, conversation.ErrEmptyTitle), errors.Is(err, conversation.ErrTitleTooLong):
		reqCtx.AbortWithStatusJSON(http.StatusBadRequest, responses.ErrorResponse{
			Code:  "2e5c9d1a-7b43-4f80-96e2-d3a8b1c6f074",
			Error: err.Error(),
		})
	default:
		logger.GetLogger().
			WithField("error_code", "562392e2-39d4-41e4-a03a-f278a19e699b").
			Errorf("conversation request failed: %v", err)
		reqCtx.AbortWithStatusJSON(http.StatusInternalServerError, responses.ErrorResponse{
			Code:  "562392e2-39d4-41e4-a03a-f278a19e699b",
			Error: "Failed to process conversation",
		})
	}
}

func domainToConversationResponse(entity *conversation.Conversation) *ConversationResponse {
	return &ConversationResponse{
		ID:        entity.PublicID,
		Title:     entity.Title,
		CreatedAt: entity.CreatedAt,
		UpdatedAt: entity.UpdatedAt,
	}
}

func domainToMessageResponse(entity *conversation.Turn) *MessageResponse {
	return &MessageResponse{
		ID:        entity.PublicID,
		Role:      string(entity.Role),
		Content:   entity.Content,
		Model:     entity.Model,
		CreatedAt: entity.CreatedAt,
	}
}
