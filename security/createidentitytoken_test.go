package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("0123456789abcdef0123456789abcdef")

func TestCreateAndParseIdentityToken(t *testing.T) {
	token, err := CreateIdentityToken(&ServiceIdentity{Subject: "portal-web", Name: "Portal", Provider: "service"}, secret, time.Hour)
	require.NoError(t, err)

	claims, err := ParseIdentityToken(token, secret)
	require.NoError(t, err)

	assert.Equal(t, "portal-web", claims.Subject)
	assert.Equal(t, "Portal", claims.UniqueName)
	assert.Equal(t, "service", claims.Provider)
	assert.Equal(t, Issuer, claims.Issuer)
}

func TestParseIdentityTokenRejects(t *testing.T) {
	expired, err := CreateIdentityToken(&ServiceIdentity{Subject: "x"}, secret, -time.Minute)
	require.NoError(t, err)

	foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    "someone-else",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(secret)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Issuer: Issuer}).SignedString(secret)
	require.NoError(t, err)

	valid, err := CreateIdentityToken(&ServiceIdentity{Subject: "x"}, secret, time.Hour)
	require.NoError(t, err)

	tests := map[string]struct {
		token  string
		secret []byte
	}{
		"expired":      {expired, secret},
		"wrong issuer": {foreign, secret},
		"no expiry":    {noExpiry, secret},
		"wrong secret": {valid, []byte("another-secret-another-secret-xx")},
		"garbage":      {"not.a.token", secret},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseIdentityToken(tt.token, tt.secret)
			assert.Error(t, err)
		})
	}
}

func TestCreateIdentityTokenNeedsSecret(t *testing.T) {
	_, err := CreateIdentityToken(&ServiceIdentity{Subject: "x"}, nil, time.Hour)
	assert.Error(t, err)
}
