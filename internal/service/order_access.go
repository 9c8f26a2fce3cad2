package service

import (
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// GenerateOrderAccessToken creates a guest access token and its bcrypt hash.
// The plain token is returned to the buyer once; only the hash is stored.
func GenerateOrderAccessToken() (token string, hash string, err error) {
	token = strings.ReplaceAll(uuid.NewString(), "-", "")
	digest, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", "", err
	}
	return token, string(digest), nil
}

// VerifyOrderAccessToken checks a guest access token against the stored hash
func VerifyOrderAccessToken(hash string, token string) bool {
	if strings.TrimSpace(hash) == "" || strings.TrimSpace(token) == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(token)) == nil
}
