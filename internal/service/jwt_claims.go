package service

import (
	"github.com/golang-jwt/jwt/v5"
)

// UserJWTClaims bearer token claims for storefront users
type UserJWTClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
