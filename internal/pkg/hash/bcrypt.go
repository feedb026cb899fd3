package hash

import (
	"crypto/sha256"
	"encoding/base64"

	"golang.org/x/crypto/bcrypt"
)

// bcryptMaxInput is the number of input bytes bcrypt accepts.
const bcryptMaxInput = 72

// Bcrypt implements Hash using bcrypt.
//
// Pepper is appended to the plaintext before hashing/verifying. Keep it in
// configuration, never in the database. Inputs longer than bcrypt's 72 byte
// limit are pre-digested with SHA-256 so long passwords stay distinct.
type Bcrypt struct {
	cost   int
	pepper string
}

// NewBcrypt returns a bcrypt-based hasher. A cost outside bcrypt's range falls back to bcrypt.DefaultCost.
func NewBcrypt(cost int, pepper string) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{cost: cost, pepper: pepper}
}

// Hash hashes plaintext using bcrypt.
func (h *Bcrypt) Hash(plaintext string) ([]byte, error) {
	return bcrypt.GenerateFromPassword(h.input(plaintext), h.cost)
}

// Verify returns true when plaintext matches the hashed value.
func (h *Bcrypt) Verify(hashed, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), h.input(plaintext)) == nil
}

func (h *Bcrypt) input(plaintext string) []byte {
	in := []byte(plaintext + h.pepper)
	if len(in) <= bcryptMaxInput {
		return in
	}
	sum := sha256.Sum256(in)
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}
