package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaker_GenerateAndParseToken(t *testing.T) {
	tokenTTL := 15 * time.Minute
	maker := NewJWTMaker("test_secret_key_1234567890", tokenTTL)

	tests := []struct {
		name  string
		email string
		role  string
	}{
		{name: "admin", email: "admin@gmail.com", role: RoleAdmin},
		{name: "customer", email: "ana@example.com", role: RoleCustomer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := maker.GenerateToken(tt.email, tt.role)
			require.NoError(t, err)
			assert.NotEmpty(t, token)

			claims, err := maker.ParseToken(token)
			require.NoError(t, err)

			assert.Equal(t, tt.email, claims.Email)
			assert.Equal(t, tt.role, claims.Role)
			assert.WithinDuration(t, time.Now(), claims.IssuedAt.Time, time.Second)
			assert.WithinDuration(t, time.Now().Add(tokenTTL), claims.ExpiresAt.Time, time.Second)
		})
	}
}

func TestMaker_ParseToken_Invalid(t *testing.T) {
	maker := NewJWTMaker("secret", time.Minute)
	other := NewJWTMaker("another-secret", time.Minute)
	expired := NewJWTMaker("secret", -time.Minute)

	foreign, err := other.GenerateToken("a@b.c", RoleAdmin)
	require.NoError(t, err)
	stale, err := expired.GenerateToken("a@b.c", RoleAdmin)
	require.NoError(t, err)
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{Email: "a@b.c"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not.a.token"},
		{name: "empty", token: ""},
		{name: "wrong secret", token: foreign},
		{name: "expired", token: stale},
		{name: "alg none", token: none},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := maker.ParseToken(tt.token)
			require.Error(t, err)
			assert.Nil(t, claims)
			assert.Contains(t, err.Error(), "jwt.ParseToken")
		})
	}
}

func TestMaker_GenerateToken_EmptySecret(t *testing.T) {
	_, err := NewJWTMaker("", time.Minute).GenerateToken("a@b.c", RoleAdmin)
	require.Error(t, err)
}
