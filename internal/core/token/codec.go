// Package token encodes and decodes the signed bearer tokens handed out at
// login. Tokens are HS256 JWTs carrying the username as subject and the role
// the user held at issue time. Nothing about a token is stored server-side:
// validity is decided by the signature and the expiry alone.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/videocatalog/video-metadata-service/internal/core/domain"
)

// MinSecretLength is the shortest HS256 secret accepted outside tests.
const MinSecretLength = 32

// Claims is the token payload.
type Claims struct {
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Codec issues and parses tokens with a single process-wide secret.
// It holds no mutable state and is safe for concurrent use.
type Codec struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// Option customises a Codec.
type Option func(*Codec)

// WithIssuer sets the iss claim on issued tokens and requires it on parse.
func WithIssuer(issuer string) Option {
	return func(c *Codec) { c.issuer = issuer }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) { c.now = now }
}

// NewCodec builds a Codec. The secret must be non-empty.
func NewCodec(secret string, opts ...Option) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("token: empty signing secret")
	}
	c := &Codec{secret: []byte(secret), now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Issue signs a token for subject valid for ttl from now.
func (c *Codec) Issue(subject string, role domain.Role, ttl time.Duration) (string, *Claims, error) {
	if subject == "" || role == "" {
		return "", nil, errors.New("token: subject and role are required")
	}
	if ttl <= 0 {
		return "", nil, fmt.Errorf("token: non-positive ttl %s", ttl)
	}

	now := c.now()
	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    c.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", nil, fmt.Errorf("token: sign: %w", err)
	}
	return signed, claims, nil
}

// Parse verifies raw and returns its claims.
//
// A token whose signature verifies but whose expiry has passed yields
// domain.ErrTokenExpired. Every other failure (bad signature, wrong algorithm,
// malformed structure, missing claims, foreign issuer) yields
// domain.ErrInvalidToken.
func (c *Codec) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, c.key,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)

	// jwt/v5 checks the signature before the time-based claims, so an expiry
	// error here means the signature was good.
	expired := err != nil && errors.Is(err, jwt.ErrTokenExpired) &&
		!errors.Is(err, jwt.ErrTokenSignatureInvalid) &&
		!errors.Is(err, jwt.ErrTokenNotValidYet)
	if err != nil && !expired {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", domain.ErrInvalidToken)
	}
	if _, ok := domain.ParseRole(string(claims.Role)); !ok {
		return nil, fmt.Errorf("%w: missing or unknown role", domain.ErrInvalidToken)
	}
	if c.issuer != "" && claims.Issuer != c.issuer {
		return nil, fmt.Errorf("%w: unexpected issuer %q", domain.ErrInvalidToken, claims.Issuer)
	}

	if expired {
		return nil, fmt.Errorf("%w: expired at %s", domain.ErrTokenExpired, claims.ExpiresAt.Time.UTC().Format(time.RFC3339))
	}
	return claims, nil
}

func (c *Codec) key(_ *jwt.Token) (interface{}, error) {
	return c.secret, nil
}
