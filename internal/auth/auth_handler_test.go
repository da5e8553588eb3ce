package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"inventory-service/internal/config"
	"inventory-service/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret-key-min-32-chars-for-testing"

func setupAuthTestRouter(handler *AuthHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	// Error handler middleware (inline to avoid import cycle)
	router.Use(func(c *gin.Context) {
		c.Next()
		if len(c.Errors) > 0 {
			if stdErr, ok := c.Errors.Last().Err.(*errors.StandardError); ok {
				c.JSON(stdErr.HTTPStatus(), stdErr)
				return
			}
			c.JSON(http.StatusInternalServerError, errors.NewInternalError("internal server error", nil))
		}
	})
	router.POST("/api/auth/login", handler.Login)
	return router
}

func doLogin(router *gin.Engine, body interface{}) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func newTestHandler() (*AuthHandler, *JWTManager) {
	logger := zap.NewNop()
	jwtManager := NewJWTManager(testSecret, logger)
	users := map[string]config.AuthUser{
		"admin":   {Password: "admin123"},
		"auditor": {Password: "audit", Role: RoleViewer},
	}
	return NewAuthHandler(jwtManager, users, logger), jwtManager
}

func TestLogin_Success(t *testing.T) {
	handler, jwtManager := newTestHandler()
	router := setupAuthTestRouter(handler)

	w := doLogin(router, LoginRequest{Username: "admin", Password: "admin123"})

	require.Equal(t, http.StatusOK, w.Code)
	var response LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Bearer", response.Type)
	assert.Equal(t, 600, response.ExpiresIn)

	claims, err := jwtManager.ValidateToken(response.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, RoleEditor, claims.Role)
	assert.True(t, claims.CanWrite())
}

func TestLogin_ViewerTokenCannotWrite(t *testing.T) {
	handler, jwtManager := newTestHandler()
	router := setupAuthTestRouter(handler)

	w := doLogin(router, LoginRequest{Username: "auditor", Password: "audit"})

	require.Equal(t, http.StatusOK, w.Code)
	var response LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, RoleViewer, response.Role)

	claims, err := jwtManager.ValidateToken(response.Token)
	require.NoError(t, err)
	assert.False(t, claims.CanWrite())
}

func TestGenerateToken_UnknownRole(t *testing.T) {
	jwtManager := NewJWTManager(testSecret, zap.NewNop())

	_, _, err := jwtManager.GenerateToken("admin", "superuser")

	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestValidateToken_ForeignIssuer(t *testing.T) {
	claims := JWTClaims{
		Username: "admin",
		Role:     RoleEditor,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "someone-else",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = NewJWTManager(testSecret, zap.NewNop()).ValidateToken(token)

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	handler, _ := newTestHandler()
	router := setupAuthTestRouter(handler)

	w := doLogin(router, LoginRequest{Username: "admin", Password: "wrong"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var response errors.StandardError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, errors.CodeUnauthorized, response.Code)
}

func TestLogin_MissingFields(t *testing.T) {
	handler, _ := newTestHandler()
	router := setupAuthTestRouter(handler)

	w := doLogin(router, map[string]string{"username": "admin"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestValidateToken_Expired(t *testing.T) {
	jwtManager := NewJWTManager(testSecret, zap.NewNop())
	jwtManager.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, _, err := jwtManager.GenerateToken("admin", RoleEditor)
	require.NoError(t, err)

	_, err = jwtManager.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	signer := NewJWTManager(testSecret, zap.NewNop())
	token, _, err := signer.GenerateToken("admin", RoleEditor)
	require.NoError(t, err)

	verifier := NewJWTManager("another-secret-key-min-32-chars-long", zap.NewNop())
	_, err = verifier.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
