package auth

import (
	"time"

	"github.com/spec-kit/auth-service/internal/domain"
)

// TokenIssuer builds access and refresh tokens for a subject.
type TokenIssuer struct {
	codec      *TokenCodec
	keys       Keys
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenIssuer builds an issuer. Non-positive TTLs fall back to 30 minutes and 7 days.
func NewTokenIssuer(codec *TokenCodec, keys Keys, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	if accessTTL <= 0 {
		accessTTL = 30 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &TokenIssuer{codec: codec, keys: keys, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// AccessTTL returns the lifetime of issued access tokens.
func (i *TokenIssuer) AccessTTL() time.Duration {
	return i.accessTTL
}

// RefreshTTL returns the lifetime of issued refresh tokens.
func (i *TokenIssuer) RefreshTTL() time.Duration {
	return i.refreshTTL
}

// IssueAccessToken signs an access token for subjectID with the access key.
func (i *TokenIssuer) IssueAccessToken(subjectID string) (string, time.Time, error) {
	return i.issue(subjectID, domain.TokenTypeAccess, i.accessTTL, i.keys.Access)
}

// IssueRefreshToken signs a refresh token for subjectID with the refresh key.
func (i *TokenIssuer) IssueRefreshToken(subjectID string) (string, time.Time, error) {
	return i.issue(subjectID, domain.TokenTypeRefresh, i.refreshTTL, i.keys.Refresh)
}

func (i *TokenIssuer) issue(subjectID string, tokenType domain.TokenType, ttl time.Duration, key SigningKey) (string, time.Time, error) {
	// exp travels as whole seconds; truncate so the returned expiry matches the token.
	expiresAt := i.codec.Now().Add(ttl).Truncate(time.Second).UTC()
	token, err := i.codec.Encode(domain.TokenClaim{
		Subject:   subjectID,
		ExpiresAt: expiresAt,
		Type:      tokenType,
	}, key)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}
