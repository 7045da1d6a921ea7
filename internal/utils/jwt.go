package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/example/okeetropics/internal/models"
)

// TokenIdentity is the principal a verified token resolves to.
type TokenIdentity struct {
	UserID uuid.UUID
	Name   string
	Role   models.Role
}

type tokenClaims struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken creates a signed JWT carrying the user's id, display name
// and role.
func GenerateToken(secret string, id TokenIdentity, ttl time.Duration) (string, error) {
	claims := &tokenClaims{
		UserID: id.UserID.String(),
		Name:   id.Name,
		Role:   string(id.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates the token signature and expiry and returns the
// embedded identity.
func ParseToken(secret, tokenString string) (TokenIdentity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return TokenIdentity{}, err
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return TokenIdentity{}, jwt.ErrTokenInvalidClaims
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return TokenIdentity{}, err
	}

	role := models.Role(claims.Role)
	if !role.Valid() {
		return TokenIdentity{}, jwt.ErrTokenInvalidClaims
	}

	return TokenIdentity{UserID: userID, Name: claims.Name, Role: role}, nil
}
