package auth

import (
	"errors"

	"github.com/spec-kit/auth-service/internal/domain"
	apperrors "github.com/spec-kit/auth-service/pkg/util/errorutil"
)

// TokenVerifier validates presented tokens for a given context.
type TokenVerifier struct {
	codec *TokenCodec
	keys  Keys
}

// NewTokenVerifier builds a verifier holding both signing keys.
func NewTokenVerifier(codec *TokenCodec, keys Keys) *TokenVerifier {
	return &TokenVerifier{codec: codec, keys: keys}
}

// VerifyAccess accepts only access tokens signed with the access key.
func (v *TokenVerifier) VerifyAccess(token string) (domain.TokenClaim, error) {
	return v.verify(token, domain.TokenTypeAccess, v.keys.Access, v.keys.Refresh)
}

// VerifyRefresh accepts only refresh tokens signed with the refresh key.
func (v *TokenVerifier) VerifyRefresh(token string) (domain.TokenClaim, error) {
	return v.verify(token, domain.TokenTypeRefresh, v.keys.Refresh, v.keys.Access)
}

func (v *TokenVerifier) verify(token string, expected domain.TokenType, key, other SigningKey) (domain.TokenClaim, error) {
	claim, err := v.codec.Decode(token, key)
	if err != nil {
		// A token from the sibling domain is a type mismatch, not an unknown key.
		// The unverified kid only refines the error code; the token is rejected either way.
		if errors.Is(err, apperrors.ErrWrongKey) && v.codec.keyID(token) == other.ID() {
			return domain.TokenClaim{}, apperrors.Wrap(apperrors.ErrWrongTokenType, err)
		}
		return domain.TokenClaim{}, err
	}
	if claim.Type != expected {
		return domain.TokenClaim{}, apperrors.ErrWrongTokenType
	}
	return claim, nil
}
