package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/quizdash/quizdash/internal/domain"
)

// Gate verifies a bearer token and resolves it to a stored identity before
// a connection is allowed anywhere near a room.
type Gate struct {
	secret     []byte
	identities domain.IdentityStore
}

func NewGate(secret string, identities domain.IdentityStore) *Gate {
	return &Gate{
		secret:     []byte(secret),
		identities: identities,
	}
}

// Admit validates the token and returns the identity it belongs to.
// Returns domain.ErrUnauthenticated for any token problem and
// domain.ErrIdentityNotFound when the subject no longer exists.
func (g *Gate) Admit(ctx context.Context, tokenString string) (*domain.Identity, error) {
	if tokenString == "" {
		return nil, domain.ErrUnauthenticated
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return g.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return nil, domain.ErrUnauthenticated
	}

	if claims.Subject == "" {
		return nil, domain.ErrUnauthenticated
	}

	ident, err := g.identities.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrIdentityNotFound) {
			return nil, domain.ErrIdentityNotFound
		}
		return nil, err
	}

	return ident, nil
}

// TokenFromRequest extracts the credential from the Authorization header or,
// for WebSocket upgrades where headers are awkward for browser clients, the
// "token" query parameter.
func TokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if after, ok := strings.CutPrefix(header, "Bearer "); ok {
			return after
		}
	}
	return r.URL.Query().Get("token")
}

// IssueToken signs a short-lived HS256 token for the given identity. Used by
// tests and local tooling; production tokens come from the identity provider.
func (g *Gate) IssueToken(subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(g.secret)
}
