package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/splitfin/backend/internal/infrastructure/auth"
	"github.com/splitfin/backend/internal/infrastructure/config"
	"github.com/splitfin/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, v *auth.TokenVerifier, subject string, expiresIn time.Duration) string {
	t.Helper()
	now := time.Now()
	token, err := v.Sign(&auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "splitfin-portal",
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
		},
	})
	require.NoError(t, err)
	return token
}

func TestJWTAuth(t *testing.T) {
	verifier := auth.NewTokenVerifier(config.AuthConfig{JWTSecret: "secret-for-tests", Issuer: "splitfin-portal"})

	router := gin.New()
	router.Use(RequestID(), JWTAuth(verifier))
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, GetJWTSubject(c))
	})

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
		wantMsg    string
	}{
		{
			name:       "valid token",
			header:     "Bearer " + signedToken(t, verifier, "buyer-7", time.Hour),
			wantStatus: http.StatusOK,
			wantBody:   "buyer-7",
		},
		{
			name:       "missing header",
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Missing authorization header",
		},
		{
			name:       "wrong scheme",
			header:     "Basic dXNlcjpwYXNz",
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Invalid authorization header format",
		},
		{
			name:       "empty token",
			header:     "Bearer ",
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Missing token",
		},
		{
			name:       "expired token",
			header:     "Bearer " + signedToken(t, verifier, "buyer-7", -time.Hour),
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Token has expired",
		},
		{
			name:       "garbage token",
			header:     "Bearer abc.def.ghi",
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Invalid token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.header != "" {
				req.Header.Set(AuthHeaderKey, tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantBody, w.Body.String())
				return
			}
			errInfo := decodeError(t, w)
			assert.Equal(t, dto.ErrCodeUnauthorized, errInfo.Code)
			assert.Equal(t, tt.wantMsg, errInfo.Message)
			assert.Contains(t, w.Header().Get("WWW-Authenticate"), "Bearer")
		})
	}
}
