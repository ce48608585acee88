package httpapi

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// tokenIssuer is the iss claim on every token this service signs.
const tokenIssuer = "drm"

// DefaultTokenTTL is the lifetime of tokens issued without an explicit TTL.
const DefaultTokenTTL = 24 * time.Hour

// Authentication errors.
var (
	ErrSecretEmpty   = errors.New("jwt secret must not be empty")
	ErrIdentityEmpty = errors.New("identity must not be empty")
	ErrInvalidToken  = errors.New("invalid token")
)

// Authenticator signs and verifies HS256 bearer tokens. The token subject is
// the signer identity that instructions run as.
type Authenticator struct {
	secret []byte
	now    func() time.Time
}

// NewAuthenticator returns an Authenticator keyed by secret.
func NewAuthenticator(secret string) (*Authenticator, error) {
	if secret == "" {
		return nil, ErrSecretEmpty
	}
	return &Authenticator{secret: []byte(secret), now: time.Now}, nil
}

// Issue returns a signed token for identity valid for ttl. A non-positive
// ttl uses DefaultTokenTTL.
func (a *Authenticator) Issue(identity string, ttl time.Duration) (string, error) {
	if identity == "" {
		return "", ErrIdentityEmpty
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generating token id: %w", err)
	}
	now := a.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        id.String(),
		Issuer:    tokenIssuer,
		Subject:   identity,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})
	return token.SignedString(a.secret)
}

// Verify checks raw and returns its subject.
func (a *Authenticator) Verify(raw string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(30*time.Second),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
