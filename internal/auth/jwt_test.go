package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sirajyamin/blink-graphql/internal/apperr"
	"github.com/sirajyamin/blink-graphql/internal/models"
)

func eligibleUser() *models.User {
	return &models.User{
		ID:            "u001",
		Email:         "asha@example.com",
		Phone:         "+911234500001",
		Role:          "admin",
		AccountStatus: models.AccountActive,
		Verified:      []string{models.ChannelEmail},
	}
}

func TestGenerateAndVerify(t *testing.T) {
	m := NewManager("test-secret")

	token, err := m.Generate(eligibleUser())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "u001", claims.UserID)
	assert.Equal(t, "asha@example.com", claims.Email)
	assert.Equal(t, "+911234500001", claims.Phone)
	assert.Equal(t, "admin", claims.Role)
}

func TestGenerateGating(t *testing.T) {
	m := NewManager("test-secret")

	_, err := m.Generate(nil)
	assert.True(t, apperr.IsKind(err, apperr.NotFound))

	u := eligibleUser()
	u.Verified = nil
	_, err = m.Generate(u)
	assert.True(t, apperr.IsKind(err, apperr.Unverified))

	u = eligibleUser()
	u.AccountStatus = "suspended"
	_, err = m.Generate(u)
	assert.True(t, apperr.IsKind(err, apperr.Inactive))
}

func TestVerifyRejectsBadTokens(t *testing.T) {
	m := NewManager("test-secret")

	_, err := m.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	// A token signed with a different secret must not verify.
	token, err := NewManager("other-secret").Generate(eligibleUser())
	require.NoError(t, err)
	_, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
