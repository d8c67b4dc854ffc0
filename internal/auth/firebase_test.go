package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const project = "highrollers-test"

func testKeys(t *testing.T) (*rsa.PrivateKey, *FirebaseVerifier) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	v := NewFirebaseVerifierWithKeys(project, func(*jwt.Token) (any, error) {
		return &key.PublicKey, nil
	})
	return key, v
}

func sign(t *testing.T, key *rsa.PrivateKey, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"iss":   "https://securetoken.google.com/" + project,
		"aud":   project,
		"sub":   "uid-123",
		"email": "player@example.com",
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
}

func TestVerifyValidToken(t *testing.T) {
	key, v := testKeys(t)

	id, err := v.Verify(context.Background(), sign(t, key, validClaims()))
	require.NoError(t, err)
	assert.Equal(t, &Identity{UserID: "uid-123", Email: "player@example.com"}, id)
}

func TestVerifyRejects(t *testing.T) {
	key, v := testKeys(t)
	other, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token func() string
	}{
		{name: "empty", token: func() string { return "" }},
		{name: "garbage", token: func() string { return "not.a.jwt" }},
		{name: "wrong issuer", token: func() string {
			c := validClaims()
			c["iss"] = "https://securetoken.google.com/other"
			return sign(t, key, c)
		}},
		{name: "wrong audience", token: func() string {
			c := validClaims()
			c["aud"] = "other"
			return sign(t, key, c)
		}},
		{name: "expired", token: func() string {
			c := validClaims()
			c["exp"] = time.Now().Add(-time.Minute).Unix()
			return sign(t, key, c)
		}},
		{name: "no expiry", token: func() string {
			c := validClaims()
			delete(c, "exp")
			return sign(t, key, c)
		}},
		{name: "no subject", token: func() string {
			c := validClaims()
			delete(c, "sub")
			return sign(t, key, c)
		}},
		{name: "other key", token: func() string { return sign(t, other, validClaims()) }},
		{name: "hmac", token: func() string {
			s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, validClaims()).SignedString([]byte("secret"))
			require.NoError(t, err)
			return s
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(context.Background(), tt.token())
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestNewFirebaseVerifierNeedsProject(t *testing.T) {
	_, err := NewFirebaseVerifier("")
	assert.ErrorIs(t, err, ErrNoProject)
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", BearerToken("Bearer abc"))
	assert.Equal(t, "abc", BearerToken("bearer abc"))
	assert.Empty(t, BearerToken("Basic abc"))
	assert.Empty(t, BearerToken("Bearer "))
}
