package auth

import (
	"strings"
	"testing"

	"github.com/dmitrijs2005/visitkeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_FreshSaltEachTime(t *testing.T) {
	t.Parallel()

	h1, err := HashPassword("secret1", bcrypt.MinCost)
	require.NoError(t, err)
	h2, err := HashPassword("secret1", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
	assert.NotContains(t, h1, "secret1")

	for _, h := range []string{h1, h2} {
		ok, err := CheckPassword(h, "secret1")
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestHashPassword_CostEmbedded(t *testing.T) {
	t.Parallel()

	h, err := HashPassword("secret1", 5)
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(h))
	require.NoError(t, err)
	assert.Equal(t, 5, cost)

	h, err = HashPassword("secret1", 0)
	require.NoError(t, err)
	cost, err = bcrypt.Cost([]byte(h))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}

func TestHashPassword_TooLong(t *testing.T) {
	t.Parallel()

	_, err := HashPassword(strings.Repeat("x", 73), bcrypt.MinCost)
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestCheckPassword_Mismatch(t *testing.T) {
	t.Parallel()

	h, err := HashPassword("secret1", bcrypt.MinCost)
	require.NoError(t, err)

	ok, err := CheckPassword(h, "secret2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	t.Parallel()

	ok, err := CheckPassword("short", "secret1")
	require.NoError(t, err)
	assert.False(t, ok)
}
