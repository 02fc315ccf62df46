package auth

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the access token claims issued by the identity provider.
// Roles come from the realm_access claim.
type Claims struct {
	jwt.RegisteredClaims

	PreferredUsername string      `json:"preferred_username,omitempty"`
	Email             string      `json:"email,omitempty"`
	RealmAccess       RealmAccess `json:"realm_access"`
}

type RealmAccess struct {
	Roles []string `json:"roles"`
}

func (c *Claims) Roles() []string {
	return c.RealmAccess.Roles
}

func (c *Claims) HasRole(role string) bool {
	return slices.Contains(c.RealmAccess.Roles, role)
}

// TokenValidator verifies bearer tokens signed with a shared HMAC secret
// or, when a public key is configured, with RS256.
type TokenValidator struct {
	secret    []byte
	publicKey *rsa.PublicKey
	parser    *jwt.Parser
}

// NewTokenValidator builds a validator. publicKeyPEM takes precedence over
// secret; issuer is checked when non-empty.
func NewTokenValidator(secret, publicKeyPEM, issuer string) (*TokenValidator, error) {
	v := &TokenValidator{}
	methods := []string{}

	switch {
	case publicKeyPEM != "":
		key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(publicKeyPEM))
		if err != nil {
			return nil, fmt.Errorf("failed to parse public key: %w", err)
		}
		v.publicKey = key
		methods = append(methods, jwt.SigningMethodRS256.Alg())
	case secret != "":
		v.secret = []byte(secret)
		methods = append(methods, jwt.SigningMethodHS256.Alg())
	default:
		return nil, errors.New("either a secret or a public key is required")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods(methods),
		jwt.WithExpirationRequired(),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	v.parser = jwt.NewParser(opts...)
	return v, nil
}

// Validate parses and validates a JWT token.
func (v *TokenValidator) Validate(tokenString string) (*Claims, error) {
	token, err := v.parser.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if v.publicKey != nil {
			return v.publicKey, nil
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}
