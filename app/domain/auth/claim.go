package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"menlo.ai/chat-relay/config/environment_variables"
)

const (
	AccessTokenTTL   = 15 * time.Minute
	GuestTokenTTL    = 7 * 24 * time.Hour
	GuestTokenHeader = "X-Guest-Token"
)

// UserClaim carries the user public id in RegisteredClaims.ID.
type UserClaim struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	Guest bool   `json:"guest,omitempty"`
	jwt.RegisteredClaims
}

func CreateJwtSignedString(u UserClaim) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, u)
	return token.SignedString(environment_variables.EnvironmentVariables.JWT_SECRET)
}

func ParseJwt(tokenString string) (*UserClaim, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaim{}, func(token *jwt.Token) (interface{}, error) {
		return environment_variables.EnvironmentVariables.JWT_SECRET, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*UserClaim)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
