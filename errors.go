package bip324

import "errors"

// Input-shape errors, returned synchronously before any cryptographic
// operation is attempted.
var (
	// ErrInvalidLength is returned by Hkdf.Expand when the requested
	// output is longer than 255 hash blocks.
	ErrInvalidLength = errors.New("bip324: hkdf output length exceeds 255 hash blocks")

	// ErrPacketTooShort is returned when a packet body length falls
	// outside [1, MaxBodyLength] on encode or decode, or when the
	// handshake's version packet is truncated. A ciphertext too short to
	// contain a tag is reported as ErrDecryption instead.
	ErrPacketTooShort = errors.New("bip324: packet body length out of range")
)

// Cryptographic failures. Decryption failures must be treated as
// constant-time with respect to tag contents by callers: the AEAD
// primitive itself performs the constant-time tag comparison.
var (
	// ErrEncryption is returned when the AEAD primitive reports a
	// failure on seal. In practice this indicates a programming error
	// (e.g. a oversized plaintext) rather than an attacker-controlled
	// condition.
	ErrEncryption = errors.New("bip324: encryption failed")

	// ErrDecryption is returned on AEAD tag mismatch or malformed
	// ciphertext.
	ErrDecryption = errors.New("bip324: decryption failed")

	// ErrCounterExhausted is returned once a FSChaCha20Poly1305
	// message counter would wrap past its 32-bit range. The session
	// must be torn down; nonces are not reused.
	ErrCounterExhausted = errors.New("bip324: message counter exhausted")
)

// Protocol failures during handshake. Fatal: the session cannot
// recover and the transport must be closed.
var (
	// ErrInvalidPublicKey is returned when a peer's 64-byte encoded
	// point does not decode to a valid curve point.
	ErrInvalidPublicKey = errors.New("bip324: invalid ellswift-encoded public key")

	// ErrGarbageTerminatorNotFound is returned when no occurrence of
	// the expected 16-byte garbage terminator is found within
	// MaxGarbageLength bytes of the second handshake message.
	ErrGarbageTerminatorNotFound = errors.New("bip324: garbage terminator not found within bound")

	// ErrUnexpectedState is returned when a Handshake method is called
	// out of order relative to its state machine.
	ErrUnexpectedState = errors.New("bip324: handshake method called out of order")
)
