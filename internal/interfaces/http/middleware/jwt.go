package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/splitfin/backend/internal/infrastructure/auth"
	"github.com/splitfin/backend/internal/infrastructure/logger"
	"github.com/splitfin/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// JWT context keys
const (
	JWTClaimsKey  = "jwt_claims"
	JWTSubjectKey = "jwt_subject"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// TokenVerifier validates bearer tokens
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// JWTAuth requires a valid bearer token on every request it guards
func JWTAuth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(AuthHeaderKey)
		if header == "" {
			unauthorized(c, "Missing authorization header", nil)
			return
		}
		if !strings.HasPrefix(header, BearerPrefix) {
			unauthorized(c, "Invalid authorization header format", nil)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
		if token == "" {
			unauthorized(c, "Missing token", nil)
			return
		}

		claims, err := verifier.Verify(token)
		if err != nil {
			msg := "Invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				msg = "Token has expired"
			}
			unauthorized(c, msg, err)
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTSubjectKey, claims.Subject)
		c.Next()
	}
}

func unauthorized(c *gin.Context, message string, err error) {
	fields := []zap.Field{zap.String("reason", message)}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	logger.GetGinLogger(c).Debug("Bearer authentication failed", fields...)
	c.Header("WWW-Authenticate", `Bearer realm="intelligence"`)
	abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, message)
}

// GetJWTSubject returns the authenticated subject, or "" when auth is off
func GetJWTSubject(c *gin.Context) string {
	return c.GetString(JWTSubjectKey)
}
