package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sirajyamin/blink-graphql/internal/apperr"
	"github.com/sirajyamin/blink-graphql/internal/models"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	UserID string `json:"_id"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Manager signs and verifies authentication tokens (HS256, no expiry).
type Manager struct {
	secret []byte
}

func NewManager(secret string) *Manager {
	return &Manager{secret: []byte(secret)}
}

// Generate signs a token for u. The subject must have at least one
// verified channel and an active account; eligibility is checked here,
// before signing, so no caller can mint a token for a gated user.
func (m *Manager) Generate(u *models.User) (string, error) {
	if u == nil {
		return "", apperr.New(apperr.NotFound, "User not found")
	}
	if len(u.Verified) == 0 {
		return "", apperr.New(apperr.Unverified, "User not verified")
	}
	if u.AccountStatus != models.AccountActive {
		return "", apperr.New(apperr.Inactive, "User not active")
	}

	claims := &Claims{
		UserID: u.ID,
		Email:  u.Email,
		Phone:  u.Phone,
		Role:   u.Role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify parses and validates a token string and returns its claims.
func (m *Manager) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
