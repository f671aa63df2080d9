package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims represents the verified payload of an SSO-issued access token.
// Role is deliberately absent: authorization is resolved against the admin
// whitelist on every request.
type JWTClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
