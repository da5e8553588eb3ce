package auth

import (
	"crypto/subtle"
	"net/http"
	"time"

	"inventory-service/internal/config"
	"inventory-service/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	jwtManager *JWTManager
	users      map[string]config.AuthUser
	logger     *zap.Logger
}

// NewAuthHandler creates a login handler for the configured users
func NewAuthHandler(jwtManager *JWTManager, users map[string]config.AuthUser, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		jwtManager: jwtManager,
		users:      users,
		logger:     logger,
	}
}

// LoginRequest represents the login request
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"admin"`
	Password string `json:"password" binding:"required" example:"admin123"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	Token     string    `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	Type      string    `json:"type" example:"Bearer"`
	Role      string    `json:"role" example:"editor"`
	ExpiresIn int       `json:"expires_in" example:"600"`
	ExpiresAt time.Time `json:"expires_at" example:"2026-01-15T12:00:00Z"`
}

// Login handles POST /api/auth/login
// @Summary      Login and get JWT token
// @Description  Authenticates a configured user and returns a bearer token for the write endpoints.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      LoginRequest  true  "Login credentials"
// @Success      200      {object}  LoginResponse  "Token issued"
// @Failure      400      {object}  errors.StandardError  "Missing username or password"
// @Failure      401      {object}  errors.StandardError  "Invalid credentials"
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid login request", zap.Error(err))
		c.Error(errors.NewValidationError("invalid request", "username or password"))
		c.Abort()
		return
	}

	user, ok := h.validateCredentials(req.Username, req.Password)
	if !ok {
		h.logger.Warn("Invalid credentials", zap.String("username", req.Username))
		c.Error(errors.NewUnauthorized("invalid credentials", "username or password incorrect"))
		c.Abort()
		return
	}

	role, err := NormalizeRole(user.Role)
	if err != nil {
		h.logger.Error("Configured user has an unknown role", zap.String("username", req.Username), zap.String("role", user.Role))
		c.Error(errors.NewInternalError("failed to generate token", err))
		c.Abort()
		return
	}

	token, expiresAt, err := h.jwtManager.GenerateToken(req.Username, role)
	if err != nil {
		c.Error(errors.NewInternalError("failed to generate token", err))
		c.Abort()
		return
	}

	h.logger.Info("User logged in successfully",
		zap.String("username", req.Username),
		zap.String("role", role),
		zap.Time("expires_at", expiresAt),
	)

	c.JSON(http.StatusOK, LoginResponse{
		Token:     token,
		Type:      "Bearer",
		Role:      role,
		ExpiresIn: int(TokenTTL.Seconds()),
		ExpiresAt: expiresAt,
	})
}

func (h *AuthHandler) validateCredentials(username, password string) (config.AuthUser, bool) {
	user, exists := h.users[username]
	if !exists {
		return config.AuthUser{}, false
	}
	return user, subtle.ConstantTimeCompare([]byte(password), []byte(user.Password)) == 1
}
