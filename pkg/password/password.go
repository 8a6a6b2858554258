// Package password wraps bcrypt behind a small hasher with a configurable
// work factor. A hash takes tens of milliseconds at the default cost;
// callers on latency-sensitive paths must budget for it.
package password

import "golang.org/x/crypto/bcrypt"

// DefaultCost matches the salt rounds the service has always used.
const DefaultCost = 12

// Hasher produces and verifies salted one-way password digests.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher with the given bcrypt cost. Costs outside
// bcrypt's legal range fall back to DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash returns a salted digest of plaintext. The salt is unique per call,
// so hashing the same plaintext twice yields different digests.
func (h *Hasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches digest. A mismatch is a normal
// false result, not an error.
func (h *Hasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
