package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestJWTService_RoundTrip(t *testing.T) {
	service := NewJWTService("test-secret", time.Hour)
	userID := uuid.New()

	token, err := service.Generate(userID)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := service.Validate(token)
	assert.NoError(t, err)

	parsed, err := claims.ParseUserID()
	assert.NoError(t, err)
	assert.Equal(t, userID, parsed)
}

func TestJWTService_Validate(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name  string
		token func() string
	}{
		{
			name: "expired token",
			token: func() string {
				expired := &JWTService{secret: []byte("test-secret"), expiry: -time.Minute}
				token, _ := expired.Generate(userID)
				return token
			},
		},
		{
			name: "wrong signing key",
			token: func() string {
				other := NewJWTService("other-secret", time.Hour)
				token, _ := other.Generate(userID)
				return token
			},
		},
		{
			name: "malformed token",
			token: func() string {
				return "not.a.jwt"
			},
		},
	}

	service := NewJWTService("test-secret", time.Hour)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := service.Validate(tt.token())
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Nil(t, claims)
		})
	}
}

func TestNewJWTService_DefaultExpiry(t *testing.T) {
	service := NewJWTService("test-secret", 0)
	assert.Equal(t, DefaultTokenExpiry, service.expiry)
}
