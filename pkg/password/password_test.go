package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, Verify("correct horse battery staple", hash))
	assert.False(t, Verify("wrong password", hash))
}

func TestHashIsSalted(t *testing.T) {
	h1, err := Hash("same input")
	require.NoError(t, err)
	h2, err := Hash("same input")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}
