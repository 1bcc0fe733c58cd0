package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBcryptHasher(t *testing.T) {
	hasher := NewBcryptHasher()

	t.Run("HashIsNotPlaintext", func(t *testing.T) {
		hash, err := hasher.Hash("password123")
		assert.NoError(t, err)
		assert.NotEqual(t, "password123", hash)
		assert.True(t, strings.HasPrefix(hash, "$2"))
	})

	t.Run("VerifyMatch", func(t *testing.T) {
		hash, err := hasher.Hash("password123")
		assert.NoError(t, err)
		assert.True(t, hasher.Verify("password123", hash))
	})

	t.Run("VerifyMismatch", func(t *testing.T) {
		hash, err := hasher.Hash("password123")
		assert.NoError(t, err)
		assert.False(t, hasher.Verify("wrongpassword", hash))
	})

	t.Run("MalformedHashIsJustAMismatch", func(t *testing.T) {
		assert.False(t, hasher.Verify("password123", "not-a-bcrypt-hash"))
	})
}
