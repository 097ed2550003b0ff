package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/auth-service/internal/config"
	apperrors "github.com/spec-kit/auth-service/pkg/util/errorutil"
)

// maxSecretBytes is the longest input bcrypt accepts.
const maxSecretBytes = 72

// CredentialHasher hashes and verifies secrets.
type CredentialHasher interface {
	Hash(secret string) (string, error)
	Verify(secret, digest string) bool
}

// BcryptHasher is a CredentialHasher backed by bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher with the given work factor.
func NewBcryptHasher(cost int) (*BcryptHasher, error) {
	if cost < config.MinHashCost || cost > config.MaxHashCost {
		return nil, fmt.Errorf("bcrypt cost %d outside [%d, %d]", cost, config.MinHashCost, config.MaxHashCost)
	}
	return &BcryptHasher{cost: cost}, nil
}

// Cost returns the configured work factor.
func (h *BcryptHasher) Cost() int {
	return h.cost
}

// Hash hashes a plaintext secret with a fresh salt.
func (h *BcryptHasher) Hash(secret string) (string, error) {
	if len(secret) > maxSecretBytes {
		return "", apperrors.NewValidationError("password too long", map[string]any{"max_bytes": maxSecretBytes})
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether secret matches digest. Malformed digests never match,
// nor do secrets longer than Hash accepts: bcrypt would compare only their prefix.
func (h *BcryptHasher) Verify(secret, digest string) bool {
	if len(secret) > maxSecretBytes {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(secret)) == nil
}
