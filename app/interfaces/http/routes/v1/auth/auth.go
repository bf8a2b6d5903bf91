package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"menlo.ai/chat-relay/app/domain/auth"
	"menlo.ai/chat-relay/app/interfaces/http/responses"
	"menlo.ai/chat-relay/app/utils/logger"
)

type AuthRoute struct {
	authService *auth.AuthService
}

func NewAuthRoute(authService *auth.AuthService) *AuthRoute {
	return &AuthRoute{
		authService,
	}
}

func (authRoute *AuthRoute) RegisterRouter(router gin.IRouter) {
	authRouter := router.Group("/auth")
	authRouter.GET("/me",
		authRoute.authService.OptionalAuthMiddleware(),
		authRoute.authService.RegisteredUserMiddleware(),
		authRoute.GetMe,
	)
	authRouter.POST("/guest-login", authRoute.authService.OptionalAuthMiddleware(), authRoute.GuestLogin)
}

type AccessTokenResponseObjectType string

const AccessTokenResponseObjectTypeObject = "access.token"

type AccessTokenResponse struct {
	Object      AccessTokenResponseObjectType `json:"object"`
	AccessToken string                        `json:"access_token"`
	ExpiresIn   int                           `json:"expires_in"`
}

type GetMeResponse struct {
	Object string `json:"object"`
	ID     string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Guest  bool   `json:"guest"`
}

func (authRoute *AuthRoute) GetMe(reqCtx *gin.Context) {
	user, _ := auth.GetUserFromContext(reqCtx)
	reqCtx.JSON(http.StatusOK, GetMeResponse{
		Object: "me",
		ID:     user.PublicID,
		Email:  user.Email,
		Name:   user.Name,
		Guest:  user.IsGuest,
	})
}

// GuestLogin re-issues a token for a caller that already holds one, and creates a guest otherwise.
func (authRoute *AuthRoute) GuestLogin(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()
	user, ok := auth.GetUserFromContext(reqCtx)
	if !ok {
		guest, err := authRoute.authService.RegisterGuest(ctx)
		if err != nil {
			logger.GetLogger().
				WithField("error_code", "9576b6ba-fcc6-4bd2-b13a-33d59d6a71f1").
				Errorf("failed to register guest: %v", err)
			reqCtx.AbortWithStatusJSON(http.StatusInternalServerError, responses.ErrorResponse{
				Code:  "9576b6ba-fcc6-4bd2-b13a-33d59d6a71f1",
				Error: "failed to create guest",
			})
			return
		}
		user = guest
	}

	ttl := auth.AccessTokenTTL
	if user.IsGuest {
		ttl = auth.GuestTokenTTL
	}
	accessTokenString, err := authRoute.authService.IssueAccessToken(user, ttl)
	if err != nil {
		reqCtx.AbortWithStatusJSON(http.StatusInternalServerError, responses.ErrorResponse{
			Code:  "79373f8e-d80e-489c-95ba-9e6099ef7539",
			Error: err.Error(),
		})
		return
	}

	reqCtx.JSON(http.StatusOK, &AccessTokenResponse{
		AccessTokenResponseObjectTypeObject,
		accessTokenString,
		int(ttl.Seconds()),
	})
}
