package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ZainRafiqueDev/task-manage-back-sub001/pkg/model"
)

var ErrInvalidToken = errors.New("invalid token")

// Principal is the authenticated actor threaded explicitly into every
// operation that needs to know who is acting.
type Principal struct {
	UserID uuid.UUID
	Name   string
	Role   model.Role
}

type AccessClaims struct {
	jwt.RegisteredClaims
	Name string     `json:"name,omitempty"`
	Role model.Role `json:"role"`
}

type TokenManager struct {
	signingKey []byte
	ttl        time.Duration
}

func NewTokenManager(signingKey []byte, ttl time.Duration) *TokenManager {
	return &TokenManager{signingKey: signingKey, ttl: ttl}
}

func (m *TokenManager) Generate(user *model.User) (string, error) {
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   user.ID.String(),
			Issuer:    "workforce",
		},
		Name: user.Name,
		Role: user.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.signingKey)
}

func (m *TokenManager) Validate(tokenString string) (*Principal, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, func(token *jwt.Token) (interface{}, error) {
		return m.signingKey, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*AccessClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if !model.IsValidRole(claims.Role) {
		return nil, ErrInvalidToken
	}

	return &Principal{UserID: userID, Name: claims.Name, Role: claims.Role}, nil
}
