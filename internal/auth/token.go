package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/auth-service/internal/config"
	"github.com/spec-kit/auth-service/internal/domain"
	apperrors "github.com/spec-kit/auth-service/pkg/util/errorutil"
)

const keyIDHeader = "kid"

var (
	errKeyMismatch     = errors.New("token signed for a different key")
	errMalformedClaims = errors.New("malformed token claims")
)

// SigningKey is the secret material of one signing domain.
type SigningKey struct {
	secret []byte
	id     string
}

// NewSigningKey derives a key and its public fingerprint from a secret.
func NewSigningKey(secret string) SigningKey {
	sum := sha256.Sum256([]byte(secret))
	return SigningKey{secret: []byte(secret), id: hex.EncodeToString(sum[:8])}
}

// ID returns the fingerprint carried in the token header.
func (k SigningKey) ID() string {
	return k.id
}

// Keys holds the independent access and refresh signing keys.
type Keys struct {
	Access  SigningKey
	Refresh SigningKey
}

// NewKeys builds signing keys from auth configuration.
func NewKeys(cfg config.AuthConfig) Keys {
	return Keys{
		Access:  NewSigningKey(cfg.AccessSigningKey),
		Refresh: NewSigningKey(cfg.RefreshSigningKey),
	}
}

// Claims describes the JWT payload: sub, exp and type only.
type Claims struct {
	Type domain.TokenType `json:"type"`
	jwt.RegisteredClaims
}

// Validate is invoked by the jwt validator after signature verification.
func (c *Claims) Validate() error {
	if c.Subject == "" {
		return fmt.Errorf("%w: missing subject", errMalformedClaims)
	}
	if !c.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", errMalformedClaims, c.Type)
	}
	return nil
}

// Option configures a TokenCodec.
type Option func(*TokenCodec)

// WithClock overrides the time source used for issuance and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(c *TokenCodec) {
		if now != nil {
			c.now = now
		}
	}
}

// TokenCodec encodes and decodes signed, expiring tokens.
type TokenCodec struct {
	method jwt.SigningMethod
	now    func() time.Time
}

// NewTokenCodec builds a codec for one of the allowed HMAC algorithms.
func NewTokenCodec(algorithm string, opts ...Option) (*TokenCodec, error) {
	if !config.IsSupportedAlgorithm(algorithm) {
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("signing algorithm %q not registered", algorithm)
	}

	codec := &TokenCodec{method: method, now: time.Now}
	for _, opt := range opts {
		opt(codec)
	}
	return codec, nil
}

// Algorithm returns the JOSE algorithm identifier in use.
func (c *TokenCodec) Algorithm() string {
	return c.method.Alg()
}

// Now returns the codec's current time.
func (c *TokenCodec) Now() time.Time {
	return c.now()
}

// Encode signs claim with key.
func (c *TokenCodec) Encode(claim domain.TokenClaim, key SigningKey) (string, error) {
	if claim.Subject == "" {
		return "", errors.New("token subject is required")
	}
	if !claim.Type.Valid() {
		return "", fmt.Errorf("unknown token type %q", claim.Type)
	}

	claims := &Claims{
		Type: claim.Type,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claim.Subject,
			ExpiresAt: jwt.NewNumericDate(claim.ExpiresAt),
		},
	}

	token := jwt.NewWithClaims(c.method, claims)
	token.Header[keyIDHeader] = key.id
	return token.SignedString(key.secret)
}

// Decode verifies tokenStr against key and returns its claim.
func (c *TokenCodec) Decode(tokenStr string, key SigningKey) (domain.TokenClaim, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if kid, ok := token.Header[keyIDHeader]; ok && kid != key.id {
			return nil, errKeyMismatch
		}
		return key.secret, nil
	},
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return domain.TokenClaim{}, classify(err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return domain.TokenClaim{}, apperrors.ErrInvalidSignature
	}

	return domain.TokenClaim{
		Subject:   claims.Subject,
		ExpiresAt: claims.ExpiresAt.Time.UTC(),
		Type:      claims.Type,
	}, nil
}

// keyID returns the unverified kid header of tokenStr, if any.
func (c *TokenCodec) keyID(tokenStr string) string {
	token, _, err := jwt.NewParser().ParseUnverified(tokenStr, &Claims{})
	if err != nil {
		return ""
	}
	kid, _ := token.Header[keyIDHeader].(string)
	return kid
}

func classify(err error) error {
	switch {
	case errors.Is(err, errKeyMismatch):
		return apperrors.Wrap(apperrors.ErrWrongKey, err)
	case errors.Is(err, errMalformedClaims):
		return apperrors.Wrap(apperrors.ErrInvalidSignature, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return apperrors.Wrap(apperrors.ErrExpired, err)
	default:
		return apperrors.Wrap(apperrors.ErrInvalidSignature, err)
	}
}
