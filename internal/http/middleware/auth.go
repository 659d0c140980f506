// README: Bearer-token auth; resolves the calling user's identity and role.
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ContextUserID = "user_id"
	ContextRole   = "role"
)

var errInvalidClaims = errors.New("invalid token claims")

// Auth parses the Authorization bearer token and stores the caller's user id
// and role in the request context. Token issuance lives in the external
// auth service; this core only verifies and reads.
func Auth(secret string) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		userID, role, err := parseToken(strings.TrimPrefix(header, "Bearer "), key)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(ContextUserID, userID)
		c.Set(ContextRole, role)
		c.Next()
	}
}

func parseToken(tokenStr string, key []byte) (userID, role string, err error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return key, nil
	})
	if err != nil {
		return "", "", err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", "", errInvalidClaims
	}
	userID, ok = claims["user_id"].(string)
	if !ok || userID == "" {
		return "", "", errInvalidClaims
	}
	role, _ = claims["role"].(string)
	return userID, role, nil
}

// CallerID returns the authenticated user id set by Auth.
func CallerID(c *gin.Context) string {
	v, _ := c.Get(ContextUserID)
	id, _ := v.(string)
	return id
}
