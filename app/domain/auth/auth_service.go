package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"menlo.ai/chat-relay/app/domain/user"
	"menlo.ai/chat-relay/app/interfaces/http/responses"
	"menlo.ai/chat-relay/app/utils/logger"
)

type AuthService struct {
	userService *user.UserService
}

func NewAuthService(userService *user.UserService) *AuthService {
	return &AuthService{
		userService: userService,
	}
}

type UserContextKey string

const (
	UserContextKeyEntity UserContextKey = "UserContextKeyEntity"
	UserContextKeyID     UserContextKey = "UserContextKeyID"
)

// OptionalAuthMiddleware attaches the caller when a valid bearer token is present and
// lets anonymous requests through untouched. A non-guest token for an unknown user provisions it.
func (s *AuthService) OptionalAuthMiddleware() gin.HandlerFunc {
	return func(reqCtx *gin.Context) {
		claims, ok := s.getClaimsFromJWT(reqCtx)
		if !ok {
			reqCtx.Next()
			return
		}
		SetUserIDToContext(reqCtx, claims.ID)
		u, err := s.resolveUser(reqCtx.Request.Context(), claims)
		if err != nil {
			logger.GetLogger().
				WithField("error_code", "2f3c1e07-6a51-4b8e-9b61-0ad5f4a0a7c2").
				Warnf("failed to load user %s: %v", claims.ID, err)
		}
		if u != nil {
			reqCtx.Set(string(UserContextKeyEntity), u)
		}
		reqCtx.Next()
	}
}

// Guest tokens only ever refer to users this service created, so they are never provisioned.
func (s *AuthService) resolveUser(ctx context.Context, claims *UserClaim) (*user.User, error) {
	if claims.Guest {
		return s.userService.FindByPublicID(ctx, claims.ID)
	}
	return s.userService.FindOrRegister(ctx, claims.ID, claims.Email, claims.Name)
}

// RegisteredUserMiddleware rejects requests without a resolved user. Must run after OptionalAuthMiddleware.
func (s *AuthService) RegisteredUserMiddleware() gin.HandlerFunc {
	return func(reqCtx *gin.Context) {
		if _, ok := GetUserFromContext(reqCtx); !ok {
			reqCtx.AbortWithStatusJSON(http.StatusUnauthorized, responses.ErrorResponse{
				Code:  "3296ce86-783b-4c05-9fdb-930d3713024e",
				Error: "authentication required",
			})
			return
		}
		reqCtx.Next()
	}
}

func (s *AuthService) IssueAccessToken(u *user.User, ttl time.Duration) (string, error) {
	now := time.Now()
	return CreateJwtSignedString(UserClaim{
		Email: u.Email,
		Name:  u.Name,
		Guest: u.IsGuest,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        u.PublicID,
			Subject:   u.PublicID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
}

func (s *AuthService) RegisterGuest(ctx context.Context) (*user.User, error) {
	return s.userService.RegisterGuest(ctx)
}

func (s *AuthService) getClaimsFromJWT(reqCtx *gin.Context) (*UserClaim, bool) {
	tokenString, ok := getTokenFromBearer(reqCtx)
	if !ok {
		return nil, false
	}
	claims, err := ParseJwt(tokenString)
	if err != nil || claims.ID == "" {
		return nil, false
	}
	return claims, true
}

func getTokenFromBearer(reqCtx *gin.Context) (string, bool) {
	authHeader := reqCtx.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

func GetUserFromContext(reqCtx *gin.Context) (*user.User, bool) {
	v, ok := reqCtx.Get(string(UserContextKeyEntity))
	if !ok {
		return nil, false
	}
	u, ok := v.(*user.User)
	return u, ok && u != nil
}

func SetUserIDToContext(reqCtx *gin.Context, v string) {
	reqCtx.Set(string(UserContextKeyID), v)
}

func GetUserIDFromContext(reqCtx *gin.Context) (string, bool) {
	userId, ok := reqCtx.Get(string(UserContextKeyID))
	if !ok {
		return "", false
	}
	v, ok := userId.(string)
	return v, ok
}
