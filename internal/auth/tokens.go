package auth

import (
	"github.com/spec-kit/auth-service/internal/config"
)

// NewTokenServices wires a codec, issuer and verifier from auth configuration.
func NewTokenServices(cfg config.AuthConfig, opts ...Option) (*TokenIssuer, *TokenVerifier, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	codec, err := NewTokenCodec(cfg.SigningAlgorithm, opts...)
	if err != nil {
		return nil, nil, err
	}
	keys := NewKeys(cfg)
	return NewTokenIssuer(codec, keys, cfg.AccessTTL(), cfg.RefreshTTL()), NewTokenVerifier(codec, keys), nil
}
