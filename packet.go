package bip324

import (
	"encoding/binary"
	"fmt"
)

// MaxBodyLength bounds the plaintext body length (header byte plus
// contents) a decoder will accept, matching the 3-byte length field's
// representable range and BIP324's stated cap.
const MaxBodyLength = 1<<24 - 1

// Encrypter is the send-direction half of a PacketHandler: one
// FSChaCha20 length cipher and one FSChaCha20Poly1305 body cipher,
// advanced exactly once per packet sent. It shares no mutable state
// with the Decrypter half, so the two can be driven by independent
// reader/writer goroutines after Split.
type Encrypter struct {
	length *FSChaCha20
	body   *FSChaCha20Poly1305
}

// Decrypter is the receive-direction half of a PacketHandler.
type Decrypter struct {
	length *FSChaCha20
	body   *FSChaCha20Poly1305
}

// PacketHandler encodes and decodes the length-prefixed, AEAD-sealed
// packets exchanged after a completed handshake.
type PacketHandler struct {
	Encrypter *Encrypter
	Decrypter *Decrypter
}

func newPacketHandler(sendLengthKey, sendPacketKey, recvLengthKey, recvPacketKey [32]byte) *PacketHandler {
	return &PacketHandler{
		Encrypter: &Encrypter{
			length: NewFSChaCha20(sendLengthKey),
			body:   NewFSChaCha20Poly1305(sendPacketKey),
		},
		Decrypter: &Decrypter{
			length: NewFSChaCha20(recvLengthKey),
			body:   NewFSChaCha20Poly1305(recvPacketKey),
		},
	}
}

// Split tears the handler into its independent halves so a reader
// task can own the Decrypter and a writer task the Encrypter.
func (h *PacketHandler) Split() (*Encrypter, *Decrypter) {
	return h.Encrypter, h.Decrypter
}

// Encode seals contents into a wire packet, using aad = the 3-byte
// encrypted length as spec.md §4.6 requires for every ordinary packet.
func (e *Encrypter) Encode(contents []byte, decoy bool) ([]byte, error) {
	encLength, err := e.encryptedLength(contents)
	if err != nil {
		return nil, err
	}
	return e.encode(contents, decoy, encLength, encLength[:])
}

// EncodeFirst seals the handshake's version packet, using the
// sender's own garbage bytes as AAD instead of the encrypted length,
// per spec.md §4.5: the receiver reconstructs this same AAD from the
// garbage it scanned off the wire.
func (e *Encrypter) EncodeFirst(contents []byte, ownGarbage []byte) ([]byte, error) {
	encLength, err := e.encryptedLength(contents)
	if err != nil {
		return nil, err
	}
	return e.encode(contents, false, encLength, ownGarbage)
}

func (e *Encrypter) encryptedLength(contents []byte) ([3]byte, error) {
	bodyLen := len(contents) + 1
	if bodyLen > MaxBodyLength {
		return [3]byte{}, fmt.Errorf("%w: %d", ErrPacketTooShort, bodyLen)
	}

	var lengthBytes [3]byte
	putUint24LE(&lengthBytes, uint32(bodyLen))
	e.length.Crypt(&lengthBytes)
	return lengthBytes, nil
}

func (e *Encrypter) encode(contents []byte, decoy bool, encLength [3]byte, bodyAAD []byte) ([]byte, error) {
	header := byte(0)
	if decoy {
		header = HeaderIgnoreBit
	}

	body := make([]byte, 0, 1+len(contents))
	body = append(body, header)
	body = append(body, contents...)

	ciphertext, err := e.body.Encrypt(bodyAAD, body)
	if err != nil {
		return nil, err
	}

	wire := make([]byte, 0, len(encLength)+len(ciphertext))
	wire = append(wire, encLength[:]...)
	wire = append(wire, ciphertext...)
	return wire, nil
}

// DecodeLength decrypts a copy of the 3-byte encrypted length prefix
// as read off the wire, returning the declared plaintext body length
// (header byte included). encLength itself is left untouched: the
// caller must pass the same still-encrypted bytes to Decode as AAD,
// and must then read exactly length+16 more bytes for the AEAD
// ciphertext and tag. The length cipher advances exactly once per
// call, in lockstep with the sender's single encrypting Crypt call.
func (d *Decrypter) DecodeLength(encLength [3]byte) (int, error) {
	buf := encLength
	d.length.Crypt(&buf)

	length := int(uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16)
	if length < 1 || length > MaxBodyLength {
		return 0, fmt.Errorf("%w: %d", ErrPacketTooShort, length)
	}
	return length, nil
}

// Decode opens an ordinary packet's ciphertext||tag, using aad = the
// still-encrypted length prefix, the same bytes passed to DecodeLength.
func (d *Decrypter) Decode(encLength [3]byte, ciphertext []byte) (ReceivedMessage, error) {
	return d.decode(ciphertext, encLength[:])
}

// DecodeFirst opens the handshake's version packet, using the peer's
// garbage bytes (scanned off the wire ahead of the terminator) as AAD.
func (d *Decrypter) DecodeFirst(ciphertext []byte, remoteGarbage []byte) (ReceivedMessage, error) {
	return d.decode(ciphertext, remoteGarbage)
}

func (d *Decrypter) decode(ciphertext []byte, aad []byte) (ReceivedMessage, error) {
	plaintext, err := d.body.Decrypt(aad, ciphertext)
	if err != nil {
		return ReceivedMessage{}, err
	}
	if len(plaintext) == 0 {
		return ReceivedMessage{}, ErrPacketTooShort
	}

	decoy := plaintext[0]&HeaderIgnoreBit != 0
	if decoy {
		return ReceivedMessage{IsDecoy: true}, nil
	}
	return ReceivedMessage{Message: plaintext[1:]}, nil
}

func putUint24LE(b *[3]byte, v uint32) {
	var full [4]byte
	binary.LittleEndian.PutUint32(full[:], v)
	copy(b[:], full[:3])
}
