// Package otp issues and checks the 6-digit one-time codes used for
// signup verification. Each code is derived from a fresh random secret and
// the current 30-second time step, so the expected value cannot be
// re-derived later: the generated code must be persisted alongside the user
// together with an explicit expiry timestamp.
package otp

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/binary"
	"fmt"
)

const (
	Digits = 6

	secretBytes = 20
	period      = 30 // seconds per time step
)

// Generate returns a 6-digit numeric code for the given Unix time.
func Generate(nowUnix int64) (string, error) {
	secret := make([]byte, secretBytes)
	if _, err := rand.Read(secret); err != nil {
		return "", fmt.Errorf("generate otp secret: %w", err)
	}
	return hotpCode(secret, nowUnix/period), nil
}

// Verify compares a presented code against the stored one in constant time.
// Expiry is the caller's responsibility; the code carries no window of its own.
func Verify(presented, stored string) bool {
	if len(presented) != Digits || stored == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(presented), []byte(stored)) == 1
}

// hotpCode is the RFC 4226 dynamic truncation of HMAC-SHA1(secret, counter).
func hotpCode(secret []byte, counter int64) string {
	var msg [8]byte
	binary.BigEndian.PutUint64(msg[:], uint64(counter))

	mac := hmac.New(sha1.New, secret)
	_, _ = mac.Write(msg[:])
	sum := mac.Sum(nil)

	offset := sum[len(sum)-1] & 0x0f
	bin := (int(sum[offset])&0x7f)<<24 |
		(int(sum[offset+1])&0xff)<<16 |
		(int(sum[offset+2])&0xff)<<8 |
		(int(sum[offset+3]) & 0xff)

	mod := 1
	for i := 0; i < Digits; i++ {
		mod *= 10
	}
	return fmt.Sprintf("%0*d", Digits, bin%mod)
}
