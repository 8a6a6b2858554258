package mongo

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

var errSealedTooShort = errors.New("sealed payload too short")

// payloadSealer encrypts session payloads before they are persisted, so a
// dump of the sessions collection exposes nothing beyond tokens and expiry
// timestamps. XChaCha20-Poly1305 with a random nonce prefixed to the
// ciphertext; the key is derived from the configured secret with
// HKDF-SHA256 so secrets of any length are acceptable.
type payloadSealer struct {
	key []byte
}

func newPayloadSealer(secret string) (*payloadSealer, error) {
	key := make([]byte, chacha20poly1305.KeySize)
	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte("session payload"))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("derive session key: %w", err)
	}
	return &payloadSealer{key: key}, nil
}

func (s *payloadSealer) seal(plaintext []byte) ([]byte, error) {
	c, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, c.NonceSize(), c.NonceSize()+len(plaintext)+c.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("nonce: %w", err)
	}
	return c.Seal(nonce, nonce, plaintext, nil), nil
}

func (s *payloadSealer) open(sealed []byte) ([]byte, error) {
	c, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return nil, err
	}
	if len(sealed) < c.NonceSize() {
		return nil, errSealedTooShort
	}

	nonce, ciphertext := sealed[:c.NonceSize()], sealed[c.NonceSize():]
	return c.Open(nil, nonce, ciphertext, nil)
}
