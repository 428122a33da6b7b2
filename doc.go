// Package bip324 implements the cryptographic core of a BIP324 v2
// transport: the ElligatorSwift/ECDH handshake, HKDF-SHA256 key
// derivation, and the forward-secure FSChaCha20 / FSChaCha20Poly1305
// packet layer used between peers on the Bitcoin P2P network.
//
// The package is a library, not a transport. Callers own the socket,
// read and write the bytes described by each step, and drive the
// Handshake state machine and PacketHandler synchronously between I/O
// operations.
package bip324

const (
	// RekeyInterval is the number of chunks (FSChaCha20) or messages
	// (FSChaCha20Poly1305) processed under one key before a
	// deterministic rekey.
	RekeyInterval = 224

	// ChaCha20BlocksPerChunk is the number of ChaCha20 blocks consumed
	// by FSChaCha20 for each 3-byte length chunk it encrypts.
	ChaCha20BlocksPerChunk = 3

	// HeaderIgnoreBit marks a packet as a decoy to be discarded by the
	// receiver once authenticated.
	HeaderIgnoreBit = 0x01

	// MaxGarbageLength is the largest amount of garbage permitted
	// before the second handshake message's garbage terminator.
	MaxGarbageLength = 4095

	// GarbageTerminatorLength is the width of the key-dependent marker
	// that ends the garbage preceding the version packet.
	GarbageTerminatorLength = 16

	// MaxHKDFOutputBlocks bounds HKDF-Expand output to 255 hash blocks,
	// per RFC 5869's single-byte counter.
	MaxHKDFOutputBlocks = 255

	hashLength = 32
)
