package bip324

import (
	"encoding/binary"
	"math"

	"golang.org/x/crypto/chacha20poly1305"
)

var rekeyNoncePrefix = [4]byte{0xff, 0xff, 0xff, 0xff}

// FSChaCha20Poly1305 is a forward-secure ChaCha20-Poly1305 AEAD stream
// used for packet bodies. Every RekeyInterval messages the key is
// replaced by AEAD-encrypting 32 zero bytes under a nonce whose low 4
// bytes are fixed to 0xFFFFFFFF, so the rekey draw can never collide
// with a message nonce.
type FSChaCha20Poly1305 struct {
	key            [32]byte
	messageCounter uint32
}

// NewFSChaCha20Poly1305 seeds a body cipher from a directional packet key.
func NewFSChaCha20Poly1305(key [32]byte) *FSChaCha20Poly1305 {
	return &FSChaCha20Poly1305{key: key}
}

func (c *FSChaCha20Poly1305) nonce() [12]byte {
	var nonce [12]byte
	binary.LittleEndian.PutUint32(nonce[0:4], c.messageCounter%RekeyInterval)
	binary.LittleEndian.PutUint32(nonce[4:8], c.messageCounter/RekeyInterval)
	return nonce
}

// Encrypt seals plaintext under aad, returning ciphertext||tag, then
// advances the message counter and rekeys at the interval boundary.
func (c *FSChaCha20Poly1305) Encrypt(aad, plaintext []byte) ([]byte, error) {
	if c.messageCounter == math.MaxUint32 {
		return nil, ErrCounterExhausted
	}

	aead, err := chacha20poly1305.New(c.key[:])
	if err != nil {
		return nil, ErrEncryption
	}
	nonce := c.nonce()
	ciphertext := aead.Seal(nil, nonce[:], plaintext, aad)

	if err := c.maybeRekey(aead, nonce, aad); err != nil {
		return nil, err
	}
	c.messageCounter++
	return ciphertext, nil
}

// Decrypt opens ciphertext||tag under aad. Failure is reported
// uniformly as ErrDecryption regardless of whether the tag mismatched
// or the input was malformed, and is constant-time with respect to
// tag contents because the underlying AEAD primitive performs a
// constant-time comparison.
func (c *FSChaCha20Poly1305) Decrypt(aad, ciphertext []byte) ([]byte, error) {
	if len(ciphertext) < chacha20poly1305.Overhead {
		return nil, ErrDecryption
	}
	if c.messageCounter == math.MaxUint32 {
		return nil, ErrCounterExhausted
	}

	aead, err := chacha20poly1305.New(c.key[:])
	if err != nil {
		return nil, ErrEncryption
	}
	nonce := c.nonce()
	plaintext, err := aead.Open(nil, nonce[:], ciphertext, aad)
	if err != nil {
		return nil, ErrDecryption
	}

	if err := c.maybeRekey(aead, nonce, aad); err != nil {
		return nil, err
	}
	c.messageCounter++
	return plaintext, nil
}

// maybeRekey runs once per RekeyInterval-th message, just after that
// message has been processed under the current key.
func (c *FSChaCha20Poly1305) maybeRekey(aead interface {
	Seal(dst, nonce, plaintext, aad []byte) []byte
}, nonce [12]byte, aad []byte) error {
	if (c.messageCounter+1)%RekeyInterval != 0 {
		return nil
	}

	rekeyNonce := nonce
	copy(rekeyNonce[0:4], rekeyNoncePrefix[:])

	var zero [32]byte
	next := aead.Seal(nil, rekeyNonce[:], zero[:], aad)
	// Seal appends a 16-byte tag; the new key is the 32-byte ciphertext,
	// tag discarded.
	copy(c.key[:], next[:32])
	return nil
}
