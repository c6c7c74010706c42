package passcode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHash_NeverEqualsRaw(t *testing.T) {
	h, err := Hash("secret")
	require.NoError(t, err)
	assert.NotEqual(t, "secret", h)
	assert.True(t, strings.HasPrefix(h, "$2a$"))
}

func TestHash_SaltedPerCall(t *testing.T) {
	h1, err := Hash("secret")
	require.NoError(t, err)
	h2, err := Hash("secret")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestVerify_RoundTrip(t *testing.T) {
	h, err := Hash("secret")
	require.NoError(t, err)
	assert.True(t, Verify("secret", h))
}

func TestVerify_MismatchReturnsFalse(t *testing.T) {
	h, err := Hash("secret")
	require.NoError(t, err)
	assert.False(t, Verify("wrong", h))
	assert.False(t, Verify("secret", "not-a-hash"))
}

func TestHash_TooLongFails(t *testing.T) {
	_, err := Hash(strings.Repeat("x", 73)) // bcrypt caps input at 72 bytes
	assert.Error(t, err)
}
