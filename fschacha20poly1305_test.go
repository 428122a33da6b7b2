package bip324

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFSChaCha20Poly1305Lockstep(t *testing.T) {
	var key [32]byte
	for i := range key {
		key[i] = byte(i)
	}

	sender := NewFSChaCha20Poly1305(key)
	receiver := NewFSChaCha20Poly1305(key)

	for i := 0; i < RekeyInterval+10; i++ {
		aad := []byte("aad")
		plaintext := []byte("hello from message")
		ciphertext, err := sender.Encrypt(aad, plaintext)
		require.NoError(t, err)

		decrypted, err := receiver.Decrypt(aad, ciphertext)
		require.NoError(t, err)
		require.Equal(t, plaintext, decrypted)

		require.Equal(t, sender.key, receiver.key)
		require.Equal(t, sender.messageCounter, receiver.messageCounter)
	}
}

func TestFSChaCha20Poly1305RekeyAtBoundary(t *testing.T) {
	var key [32]byte
	for i := range key {
		key[i] = byte(i + 1)
	}

	cipher := NewFSChaCha20Poly1305(key)
	for i := 0; i < RekeyInterval-1; i++ {
		_, err := cipher.Encrypt(nil, []byte("msg"))
		require.NoError(t, err)
	}

	keyBefore := cipher.key
	_, err := cipher.Encrypt(nil, []byte("boundary message"))
	require.NoError(t, err)
	require.NotEqual(t, keyBefore, cipher.key)
	require.Equal(t, uint32(RekeyInterval), cipher.messageCounter)
}

func TestFSChaCha20Poly1305TamperedTagFails(t *testing.T) {
	var key [32]byte
	cipher := NewFSChaCha20Poly1305(key)
	ciphertext, err := cipher.Encrypt(nil, []byte("payload"))
	require.NoError(t, err)

	ciphertext[len(ciphertext)-1] ^= 0xFF

	other := NewFSChaCha20Poly1305(key)
	_, err = other.Decrypt(nil, ciphertext)
	require.ErrorIs(t, err, ErrDecryption)
}

func TestFSChaCha20Poly1305ShortCiphertextRejected(t *testing.T) {
	var key [32]byte
	cipher := NewFSChaCha20Poly1305(key)
	_, err := cipher.Decrypt(nil, []byte("short"))
	require.ErrorIs(t, err, ErrDecryption)
}
