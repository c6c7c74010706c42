package passcode

import "golang.org/x/crypto/bcrypt"

// cost matches bcrypt.DefaultCost (10 rounds); kept explicit so the
// work factor does not drift silently with library upgrades.
const cost = 10

// Hash returns a salted one-way digest of the raw passcode.
// Errors only on underlying crypto failure (e.g. passcode longer than 72 bytes).
func Hash(raw string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(raw), cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Verify reports whether raw matches the stored hash. The salt is embedded
// in the hash and the comparison is constant-time. A mismatch is not an error.
func Verify(raw, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw)) == nil
}
