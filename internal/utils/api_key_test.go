package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAPIKey(t *testing.T) {
	key, err := GenerateAPIKey(32)
	require.NoError(t, err)
	assert.Len(t, key, 64)

	other, err := GenerateAPIKey(32)
	require.NoError(t, err)
	assert.NotEqual(t, key, other)

	_, err = GenerateAPIKey(0)
	assert.Error(t, err)
}

func TestHashAndCheckAPIKey(t *testing.T) {
	hash, err := HashAPIKey("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	assert.True(t, CheckAPIKeyHash("s3cret", hash))
	assert.False(t, CheckAPIKeyHash("wrong", hash))
	assert.False(t, CheckAPIKeyHash("s3cret", "not-a-hash"))
}
