package bip324

import (
	rtchacha "golang.org/x/crypto/chacha20"
)

// newChaChaCipher builds a plain (unauthenticated) ChaCha20 stream
// seeked to the given block counter, the same construction
// FSChaCha20 uses for both its length-field keystream and its rekey
// draw.
func newChaChaCipher(key [32]byte, nonce [rtchacha.NonceSize]byte, blockCounter uint32) *rtchacha.Cipher {
	cipher, err := rtchacha.NewUnauthenticatedCipher(key[:], nonce[:])
	if err != nil {
		// Key and nonce are fixed-size arrays above; NewUnauthenticatedCipher
		// only fails on wrong-length inputs.
		panic("bip324: failed to instantiate chacha20: " + err.Error())
	}
	cipher.SetCounter(blockCounter)
	return cipher
}
