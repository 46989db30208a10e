package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// hashCost is deliberately above bcrypt's minimum so brute-forcing stolen
// digests stays expensive.
const hashCost = 10

// Hash returns a salted bcrypt digest of the plaintext. The salt is random
// per call, so hashing the same plaintext twice yields different digests.
func Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), hashCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches the stored digest. Malformed
// digests verify as false rather than surfacing an error; the comparison
// inside bcrypt is constant time.
func Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
