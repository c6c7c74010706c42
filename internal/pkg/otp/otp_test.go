package otp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RFC 4226 appendix D test vectors (HMAC-SHA1, secret "12345678901234567890").
func TestHOTPCode_RFC4226Vectors(t *testing.T) {
	secret := []byte("12345678901234567890")
	expected := []string{
		"755224", "287082", "359152", "969429", "338314",
		"254676", "287922", "162583", "399871", "520489",
	}
	for counter, want := range expected {
		assert.Equal(t, want, hotpCode(secret, int64(counter)), "counter %d", counter)
	}
}

func TestGenerate_SixNumericDigits(t *testing.T) {
	now := time.Now().Unix()
	code, err := Generate(now)
	require.NoError(t, err)
	require.Len(t, code, Digits)
	for _, c := range code {
		assert.True(t, c >= '0' && c <= '9', "code %q contains non-digit", code)
	}
}

func TestGenerate_FreshSecretPerCall(t *testing.T) {
	// Same time step but independent secrets: a collision across many calls
	// is possible but all-equal is not.
	now := time.Now().Unix()
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		code, err := Generate(now)
		require.NoError(t, err)
		seen[code] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestVerify_ExactMatch(t *testing.T) {
	assert.True(t, Verify("042531", "042531"))
}

func TestVerify_Mismatch(t *testing.T) {
	assert.False(t, Verify("042531", "042532"))
}

func TestVerify_WrongLengthOrEmptyStored(t *testing.T) {
	assert.False(t, Verify("42531", "042531"))
	assert.False(t, Verify("042531", ""))
	assert.False(t, Verify("", ""))
}
