package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/auth-service/pkg/util/errorutil"
)

func TestNewBcryptHasherBounds(t *testing.T) {
	for _, cost := range []int{0, 4, 9, 16, 31} {
		_, err := NewBcryptHasher(cost)
		assert.Error(t, err, "cost %d", cost)
	}
	for _, cost := range []int{10, 12, 15} {
		h, err := NewBcryptHasher(cost)
		require.NoError(t, err)
		assert.Equal(t, cost, h.Cost())
	}
}

func TestHashIsSaltedAndVerifies(t *testing.T) {
	h, err := NewBcryptHasher(10)
	require.NoError(t, err)

	first, err := h.Hash("pw123456")
	require.NoError(t, err)
	second, err := h.Hash("pw123456")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, h.Verify("pw123456", first))
	assert.True(t, h.Verify("pw123456", second))
	assert.False(t, h.Verify("wrong-password", first))
}

func TestVerifyMalformedDigest(t *testing.T) {
	h, err := NewBcryptHasher(10)
	require.NoError(t, err)

	tests := []struct {
		name   string
		digest string
	}{
		{name: "empty", digest: ""},
		{name: "garbage", digest: "invalidhash"},
		{name: "truncated", digest: "$2a$10$abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.False(t, h.Verify("pw123456", tt.digest))
			})
		})
	}
}

func TestHashRejectsOverlongSecret(t *testing.T) {
	h, err := NewBcryptHasher(10)
	require.NoError(t, err)

	_, err = h.Hash(strings.Repeat("a", 73))
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeValidation, apperrors.KindOf(err))
}

func TestVerifyRejectsSecretsSharingMaxLengthPrefix(t *testing.T) {
	h, err := NewBcryptHasher(10)
	require.NoError(t, err)

	secret := strings.Repeat("a", 72)
	digest, err := h.Hash(secret)
	require.NoError(t, err)

	assert.True(t, h.Verify(secret, digest))
	assert.False(t, h.Verify(secret+"-not-my-password", digest))
	assert.False(t, h.Verify(secret+"a", digest))
}
