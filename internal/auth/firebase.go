// Package auth verifies Firebase ID tokens issued to signed-in players.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// GoogleJWKS serves the public keys Firebase signs ID tokens with.
const GoogleJWKS = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"

var (
	ErrInvalidToken = errors.New("auth: invalid token")
	ErrNoProject    = errors.New("auth: FIREBASE_PROJECT_ID is not set")
)

type Identity struct {
	UserID string `json:"userId"`
	Email  string `json:"email,omitempty"`
}

// Verifier turns a bearer token into an identity.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// VerifierFunc adapts a function to Verifier.
type VerifierFunc func(ctx context.Context, token string) (*Identity, error)

func (f VerifierFunc) Verify(ctx context.Context, token string) (*Identity, error) {
	return f(ctx, token)
}

type FirebaseVerifier struct {
	projectID string
	keyfunc   jwt.Keyfunc
}

// NewFirebaseVerifier fetches and keeps refreshing Google's signing keys.
func NewFirebaseVerifier(projectID string) (*FirebaseVerifier, error) {
	if projectID == "" {
		return nil, ErrNoProject
	}
	jwks, err := keyfunc.NewDefault([]string{GoogleJWKS})
	if err != nil {
		return nil, fmt.Errorf("load signing keys: %w", err)
	}
	return NewFirebaseVerifierWithKeys(projectID, jwks.Keyfunc), nil
}

// NewFirebaseVerifierWithKeys uses kf to look up signing keys.
func NewFirebaseVerifierWithKeys(projectID string, kf jwt.Keyfunc) *FirebaseVerifier {
	return &FirebaseVerifier{projectID: projectID, keyfunc: kf}
}

func (v *FirebaseVerifier) Verify(_ context.Context, tokenString string) (*Identity, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	token, err := jwt.Parse(tokenString, v.keyfunc,
		jwt.WithIssuer("https://securetoken.google.com/"+v.projectID),
		jwt.WithAudience(v.projectID),
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	email, _ := claims["email"].(string)
	return &Identity{UserID: sub, Email: email}, nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
