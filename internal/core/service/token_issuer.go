package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/coursehub/account-service/internal/core/domain"
)

// TokenLifetime is the fixed validity window of every issued token.
const TokenLifetime = 7 * 24 * time.Hour

// MinSigningKeyBytes is the shortest accepted HMAC-SHA-256 key.
const MinSigningKeyBytes = 32

// AccessClaims is the claim set embedded in a bearer token. Policies are
// carried as role claims so downstream middleware can check them generically.
type AccessClaims struct {
	jwt.RegisteredClaims
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"role,omitempty"`
}

// TokenOptions carries the process-wide signing configuration.
type TokenOptions struct {
	SigningKey string
	Issuer     string
	Audience   string
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

func (o TokenOptions) validate() error {
	if o.SigningKey == "" {
		return domain.ErrMissingSigningKey
	}
	if len(o.SigningKey) < MinSigningKeyBytes {
		return fmt.Errorf("%w: %d bytes, need at least %d", domain.ErrWeakSigningKey, len(o.SigningKey), MinSigningKeyBytes)
	}
	return nil
}

func (o TokenOptions) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// TokenIssuer signs HS256 bearer tokens.
type TokenIssuer struct {
	opts TokenOptions
	key  []byte
}

// NewTokenIssuer fails when the signing key is missing or too short.
func NewTokenIssuer(opts TokenOptions) (*TokenIssuer, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &TokenIssuer{opts: opts, key: []byte(opts.SigningKey)}, nil
}

// Issue signs a token for identity embedding one role claim per policy. The
// claims are a snapshot; later role changes do not affect issued tokens.
func (t *TokenIssuer) Issue(identity *domain.Identity, policies domain.PolicySet) (string, error) {
	now := t.opts.now().UTC().Truncate(time.Second)
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			Issuer:    t.opts.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenLifetime)),
		},
		Username: identity.Username,
		Email:    identity.Email,
		Roles:    policies.Sorted(),
	}
	if t.opts.Audience != "" {
		claims.Audience = jwt.ClaimStrings{t.opts.Audience}
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// TokenVerifier checks tokens produced by a TokenIssuer sharing the same key.
type TokenVerifier struct {
	opts TokenOptions
	key  []byte
}

func NewTokenVerifier(opts TokenOptions) (*TokenVerifier, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &TokenVerifier{opts: opts, key: []byte(opts.SigningKey)}, nil
}

// Verify parses tokenString, checking signature, algorithm, expiry and, when
// configured, issuer and audience. Every failure wraps domain.ErrInvalidToken.
func (v *TokenVerifier) Verify(tokenString string) (*AccessClaims, error) {
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(v.opts.now),
	}
	if v.opts.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(v.opts.Issuer))
	}
	if v.opts.Audience != "" {
		parserOpts = append(parserOpts, jwt.WithAudience(v.opts.Audience))
	}

	claims := &AccessClaims{}
	tkn, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return v.key, nil
	}, parserOpts...)
	if err != nil {
		return nil, errors.Join(domain.ErrInvalidToken, err)
	}
	if !tkn.Valid {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}
