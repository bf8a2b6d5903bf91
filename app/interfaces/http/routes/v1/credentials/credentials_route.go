package credentials

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"menlo.ai/chat-relay/app/domain/auth"
	"menlo.ai/chat-relay/app/domain/credential"
	"menlo.ai/chat-relay/app/interfaces/http/responses"
	"menlo.ai/chat-relay/app/utils/logger"
)

type CredentialRoute struct {
	authService       *auth.AuthService
	credentialService *credential.CredentialService
}

func NewCredentialRoute(authService *auth.AuthService, credentialService *credential.CredentialService) *CredentialRoute {
	return &CredentialRoute{
		authService:       authService,
		credentialService: credentialService,
	}
}

func (route *CredentialRoute) RegisterRouter(router gin.IRouter) {
	keyRouter := router.Group("/key",
		route.authService.OptionalAuthMiddleware(),
		route.authService.RegisteredUserMiddleware(),
		route.nonGuestMiddleware(),
	)
	keyRouter.GET("", route.GetKey)
	keyRouter.POST("", route.PostKey)
	keyRouter.DELETE("", route.DeleteKey)
}

type StoreKeyRequest struct {
	Key string `json:"key"`
}

// Guests are not given stored credentials; their identities are disposable.
func (route *CredentialRoute) nonGuestMiddleware() gin.HandlerFunc {
	return func(reqCtx *gin.Context) {
		user, _ := auth.GetUserFromContext(reqCtx)
		if user.IsGuest {
			reqCtx.AbortWithStatusJSON(http.StatusForbidden, responses.ErrorResponse{
				Code:  "0b6f4e2a-9c31-4d58-a7e0-5f3b2c1d8e94",
				Error: "guests cannot store keys",
			})
			return
		}
		reqCtx.Next()
	}
}

func (route *CredentialRoute) GetKey(reqCtx *gin.Context) {
	user, _ := auth.GetUserFromContext(reqCtx)
	status, err := route.credentialService.Status(reqCtx.Request.Context(), user.ID)
	if err != nil {
		abortWithCredentialError(reqCtx, err)
		return
	}
	reqCtx.JSON(http.StatusOK, status)
}

func (route *CredentialRoute) PostKey(reqCtx *gin.Context) {
	user, _ := auth.GetUserFromContext(reqCtx)
	var request StoreKeyRequest
	if err := reqCtx.ShouldBindJSON(&request); err != nil {
		reqCtx.AbortWithStatusJSON(http.StatusBadRequest, responses.ErrorResponse{
			Code:  "6d2a9f1e-3c84-4b07-95e1-a0c7d3b8f215",
			Error: "Invalid request payload",
		})
		return
	}
	status, err := route.credentialService.Store(reqCtx.Request.Context(), user.ID, request.Key)
	if err != nil {
		abortWithCredentialError(reqCtx, err)
		return
	}
	reqCtx.JSON(http.StatusOK, status)
}

func (route *CredentialRoute) DeleteKey(reqCtx *gin.Context) {
	user, _ := auth.GetUserFromContext(reqCtx)
	if err := route.credentialService.Delete(reqCtx.Request.Context(), user.ID); err != nil {
		abortWithCredentialError(reqCtx, err)
		return
	}
	reqCtx.JSON(http.StatusOK, responses.GeneralResponse[*credential.Status]{
		Status: responses.ResponseCodeOk,
		Result: &credential.Status{HasKey: false},
	})
}

func abortWithCredentialError(reqCtx *gin.Context, err error) {
	switch {
	case errors.Is(err, credential.ErrEmptyKey):
		reqCtx.AbortWithStatusJSON(http.StatusBadRequest, responses.ErrorResponse{
			Code:  "b4e8c2a0-1d7f-4396-8a5b-e2c9f0d3a716",
			Error: err.Error(),
		})
	case errors.Is(err, credential.ErrEncryptionUnavailable):
		reqCtx.AbortWithStatusJSON(http.StatusServiceUnavailable, responses.ErrorResponse{
			Code:  "d9a1f3c5-7e2b-4068-b4d1-3c5e7a9f0b28",
			Error: err.Error(),
		})
	default:
		logger.GetLogger().
			WithField("error_code", "e3f7a9c1-5b2d-4e80-9f6a-1c3e5a7b9d02").
			Errorf("credential request failed: %v", err)
		reqCtx.AbortWithStatusJSON(http.StatusInternalServerError, responses.ErrorResponse{
			Code:  "e3f7a9c1-5b2d-4e80-9f6a-1c3e5a7b9d02",
			Error: "Failed to process key",
		})
	}
}
