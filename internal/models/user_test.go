package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasVerified(t *testing.T) {
	u := &User{Verified: []string{ChannelEmail}}
	assert.True(t, u.HasVerified(ChannelEmail))
	assert.False(t, u.HasVerified(ChannelPhone))
	assert.False(t, (&User{}).HasVerified(ChannelEmail))
}

func TestPublicStripsSensitiveFields(t *testing.T) {
	u := &User{
		ID:        "u1",
		FirstName: "Asha",
		Email:     "asha@example.com",
		Phone:     "+911234500001",
		Password:  "hash",
		Salt:      "salt",
		OTP:       "123456",
		Role:      "admin",
		Verified:  []string{ChannelEmail},
	}

	p := u.Public()
	assert.Equal(t, "u1", p.ID)
	assert.Equal(t, "Asha", p.FirstName)
	assert.Empty(t, p.Password)
	assert.Empty(t, p.Salt)
	assert.Empty(t, p.OTP)
	assert.Empty(t, p.Phone)
	assert.Empty(t, p.Role)
	assert.Empty(t, p.Verified)
}
