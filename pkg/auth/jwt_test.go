package auth_test

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/narwhalmedia/catalog/pkg/auth"
)

const (
	testSecret = "test-secret"
	testIssuer = "http://localhost:8443/realms/catalog"
)

func newClaims(issuer string, ttl time.Duration, roles ...string) auth.Claims {
	now := time.Now()
	return auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		PreferredUsername: "admin",
		RealmAccess:       auth.RealmAccess{Roles: roles},
	}
}

func signHS256(t *testing.T, secret string, claims auth.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestTokenValidator_HS256(t *testing.T) {
	v, err := auth.NewTokenValidator(testSecret, "", testIssuer)
	require.NoError(t, err)

	claims, err := v.Validate(signHS256(t, testSecret, newClaims(testIssuer, time.Minute, auth.DefaultRequiredRole)))
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, []string{auth.DefaultRequiredRole}, claims.Roles())
	assert.True(t, claims.HasRole(auth.DefaultRequiredRole))
}

func TestTokenValidator_Rejects(t *testing.T) {
	v, err := auth.NewTokenValidator(testSecret, "", testIssuer)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"wrong secret", signHS256(t, "other", newClaims(testIssuer, time.Minute))},
		{"expired", signHS256(t, testSecret, newClaims(testIssuer, -time.Minute))},
		{"wrong issuer", signHS256(t, testSecret, newClaims("someone-else", time.Minute))},
		{"garbage", "not.a.token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Validate(tt.token)
			assert.Error(t, err)
		})
	}
}

func TestTokenValidator_RS256(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	publicPEM := string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))

	v, err := auth.NewTokenValidator("", publicPEM, "")
	require.NoError(t, err)

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, newClaims(testIssuer, time.Minute, "admin-catalog")).SignedString(key)
	require.NoError(t, err)

	claims, err := v.Validate(signed)
	require.NoError(t, err)
	assert.True(t, claims.HasRole("admin-catalog"))

	// An HMAC token must not be accepted by an RSA validator.
	_, err = v.Validate(signHS256(t, publicPEM, newClaims(testIssuer, time.Minute)))
	assert.Error(t, err)
}

func TestNewTokenValidator_RequiresKey(t *testing.T) {
	_, err := auth.NewTokenValidator("", "", "")
	assert.Error(t, err)

	_, err = auth.NewTokenValidator("", "not a pem", "")
	assert.Error(t, err)
}
