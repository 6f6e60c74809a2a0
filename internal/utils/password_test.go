package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestNewBcryptHasher(t *testing.T) {
	assert.Equal(t, bcrypt.MinCost, NewBcryptHasher(bcrypt.MinCost).cost)
	assert.Equal(t, PasswordCost, NewBcryptHasher(0).cost)
	assert.Equal(t, PasswordCost, NewBcryptHasher(bcrypt.MaxCost+1).cost)
}

func TestBcryptHasher_Hash(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	t.Run("produces bcrypt hash", func(t *testing.T) {
		hash, err := hasher.Hash("password123")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(hash, "$2a$"))
	})

	t.Run("same password produces different hashes (salt)", func(t *testing.T) {
		hash1, err := hasher.Hash("samepassword")
		require.NoError(t, err)
		hash2, err := hasher.Hash("samepassword")
		require.NoError(t, err)
		assert.NotEqual(t, hash1, hash2)
	})

	t.Run("rejects empty password", func(t *testing.T) {
		_, err := hasher.Hash("")
		assert.ErrorIs(t, err, ErrEmptyPassword)
	})
}

func TestBcryptHasher_ProductionCost(t *testing.T) {
	hash, err := NewBcryptHasher(PasswordCost).Hash("correct horse")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, 12, cost)
}

func TestBcryptHasher_Verify(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)
	hash, err := hasher.Hash("correctpassword")
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		hash     string
		want     bool
	}{
		{name: "correct password", password: "correctpassword", hash: hash, want: true},
		{name: "wrong password", password: "wrongpassword", hash: hash},
		{name: "empty password", password: "", hash: hash},
		{name: "malformed hash", password: "correctpassword", hash: "not-a-hash"},
		{name: "empty hash", password: "correctpassword", hash: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hasher.Verify(tt.password, tt.hash))
		})
	}
}
