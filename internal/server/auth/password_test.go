package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("Abcdef1!", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "Abcdef1!", hash)

	ok, err := CheckPassword(hash, "Abcdef1!")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = CheckPassword(hash, "Abcdef1?")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPassword_DefaultCost(t *testing.T) {
	hash, err := HashPassword("Abcdef1!", 0)
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, DefaultCost, cost)
}

func TestHashPassword_SaltedPerCall(t *testing.T) {
	a, err := HashPassword("Abcdef1!", bcrypt.MinCost)
	require.NoError(t, err)
	b, err := HashPassword("Abcdef1!", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	ok, err := CheckPassword("not-a-hash", "x")
	assert.Error(t, err)
	assert.False(t, ok)
}
