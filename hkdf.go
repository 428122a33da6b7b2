package bip324

import (
	"crypto/hmac"
	"crypto/sha256"
)

// Hkdf is an HMAC-SHA256-based Extract-and-Expand Key Derivation
// Function (RFC 5869), scoped to the BIP324 use case: a single
// extract step followed by any number of expand calls against the
// same pseudorandom key.
//
// SHA-256/HMAC are treated as primitives (spec.md §1) and supplied by
// crypto/hmac and crypto/sha256; the extract/expand algorithm itself
// is this package's responsibility.
type Hkdf struct {
	prk [hashLength]byte
}

// ExtractHKDF runs the HKDF-Extract step: PRK = HMAC-SHA256(salt, ikm).
// There is no failure mode; HMAC accepts any key length.
func ExtractHKDF(salt, ikm []byte) Hkdf {
	mac := hmac.New(sha256.New, salt)
	mac.Write(ikm)

	var h Hkdf
	copy(h.prk[:], mac.Sum(nil))
	return h
}

// Expand fills okm with HKDF-Expand output bound to info. It fails
// with ErrInvalidLength iff len(okm) exceeds 255 hash blocks, since
// the per-RFC block counter is a single byte.
func (h Hkdf) Expand(info []byte, okm []byte) error {
	if len(okm) > MaxHKDFOutputBlocks*hashLength {
		return ErrInvalidLength
	}

	var previous []byte
	counter := byte(1)
	for written := 0; written < len(okm); written += hashLength {
		mac := hmac.New(sha256.New, h.prk[:])
		mac.Write(previous)
		mac.Write(info)
		mac.Write([]byte{counter})

		t := mac.Sum(nil)
		n := copy(okm[written:], t)
		previous = t[:n]
		counter++
	}
	return nil
}
