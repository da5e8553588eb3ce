package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

// TokenTTL is how long an issued token stays valid
const TokenTTL = 10 * time.Minute

const issuer = "inventory-service"

// Roles carried in the token. Editors may change the inventory, viewers
// only hold a token for the read endpoints.
const (
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
	ErrUnknownRole  = errors.New("unknown role")
)

// JWTClaims are the claims of an inventory access token
type JWTClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// CanWrite reports whether the token grants create, update and import
func (c *JWTClaims) CanWrite() bool {
	return c.Role == RoleEditor
}

// NormalizeRole maps an empty role to RoleEditor and rejects unknown ones
func NormalizeRole(role string) (string, error) {
	switch role {
	case "":
		return RoleEditor, nil
	case RoleEditor, RoleViewer:
		return role, nil
	default:
		return "", ErrUnknownRole
	}
}

// JWTManager issues and validates HS256 tokens for the inventory API
type JWTManager struct {
	secretKey []byte
	logger    *zap.Logger
	now       func() time.Time
}

func NewJWTManager(secretKey string, logger *zap.Logger) *JWTManager {
	return &JWTManager{
		secretKey: []byte(secretKey),
		logger:    logger,
		now:       time.Now,
	}
}

// GenerateToken returns a signed token for username with the given role,
// and the moment it expires
func (j *JWTManager) GenerateToken(username, role string) (string, time.Time, error) {
	role, err := NormalizeRole(role)
	if err != nil {
		return "", time.Time{}, err
	}

	issuedAt := j.now()
	expiresAt := issuedAt.Add(TokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, JWTClaims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})

	signed, err := token.SignedString(j.secretKey)
	if err != nil {
		j.logger.Error("Failed to sign token", zap.String("username", username), zap.Error(err))
		return "", time.Time{}, err
	}

	j.logger.Debug("Token issued",
		zap.String("username", username),
		zap.String("role", role),
		zap.Time("expires_at", expiresAt),
	)
	return signed, expiresAt, nil
}

// ValidateToken checks signature, expiry and issuer and returns the claims
func (j *JWTManager) ValidateToken(tokenString string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	token, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return j.secretKey, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		j.logger.Warn("Token expired", zap.Error(err))
		return nil, ErrExpiredToken
	case err != nil:
		j.logger.Warn("Invalid token", zap.Error(err))
		return nil, ErrInvalidToken
	case !token.Valid || !claims.VerifyIssuer(issuer, true):
		j.logger.Warn("Invalid token claims", zap.String("issuer", claims.Issuer))
		return nil, ErrInvalidToken
	}
	return claims, nil
}
