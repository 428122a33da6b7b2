package bip324

import "encoding/binary"

// FSChaCha20 is a forward-secure, unauthenticated ChaCha20 stream used
// for the 3-byte packet length field. Lengths are small and already
// implicitly authenticated by the body AEAD, so a plain stream cipher
// avoids paying a 16-byte tag on every packet; rekeying every
// RekeyInterval chunks bounds keystream reuse under a fixed key.
type FSChaCha20 struct {
	key          [32]byte
	blockCounter uint32
	chunkCounter uint32
}

// NewFSChaCha20 seeds a length cipher from a directional length key.
func NewFSChaCha20(key [32]byte) *FSChaCha20 {
	return &FSChaCha20{key: key}
}

// Crypt XORs the 3-byte chunk in place with the current keystream and
// advances the cipher's counters, rekeying at the RekeyInterval
// boundary. It never fails.
func (c *FSChaCha20) Crypt(chunk *[3]byte) {
	var nonce [12]byte
	binary.LittleEndian.PutUint32(nonce[4:8], c.chunkCounter/RekeyInterval)

	cipher := newChaChaCipher(c.key, nonce, c.blockCounter)
	cipher.XORKeyStream(chunk[:], chunk[:])
	c.blockCounter += ChaCha20BlocksPerChunk

	if (c.chunkCounter+1)%RekeyInterval == 0 {
		cipher.SetCounter(c.blockCounter)
		var nextKey [32]byte
		cipher.XORKeyStream(nextKey[:], nextKey[:])
		c.key = nextKey
		c.blockCounter = 0
	}
	c.chunkCounter++
}
