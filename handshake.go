package bip324

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"

	"github.com/yourusername/bip324/internal/ellswift"
	"github.com/yourusername/bip324/internal/telemetry"
)

// HandshakeState tags where a Handshake is in its key-agreement
// sequence (spec.md §4.5).
type HandshakeState int

const (
	// StateAwaitingMaterials is entered by NewHandshake: the local
	// ECDH point has been generated and written out, and the peer's
	// point is expected next.
	StateAwaitingMaterials HandshakeState = iota
	// StateAwaitingVersion is entered once session keys are derived
	// and the local garbage/terminator/version packet message has
	// been produced; the peer's garbage and version packet are
	// expected next.
	StateAwaitingVersion
	// StateComplete is entered once the peer's garbage terminator has
	// been found and its version packet authenticated.
	StateComplete
)

// Handshake drives the two-message key-agreement state machine that
// produces a PacketHandler. It performs no I/O itself: the caller
// reads and writes the bytes described by each method between calls,
// per spec.md §5 ("no suspension inside new, complete_materials, or
// authenticate_garbage_and_version").
type Handshake struct {
	role         Role
	magic        NetworkMagic
	localGarbage []byte

	sk         ellswift.PrivateKey
	localPoint ellswift.PublicKey

	state HandshakeState
	keys  SessionKeyMaterial

	// encrypter/decrypter are created the moment session keys are
	// derived and carried through to the returned PacketHandler
	// unmodified, so the version packet's encode/decode consumes the
	// same counters subsequent packets continue from.
	encrypter *Encrypter
	decrypter *Decrypter

	logger *slog.Logger
}

// NewHandshake generates a fresh ECDH keypair and returns the 64-byte
// ElligatorSwift-encoded public point to send as the first handshake
// message. localGarbage, if non-empty, is arbitrary application
// padding prepended to the second handshake message and bound into
// the peer's first AEAD call as AAD.
func NewHandshake(role Role, magic NetworkMagic, localGarbage []byte, rand io.Reader, logger *slog.Logger) (*Handshake, [64]byte, error) {
	if logger == nil {
		logger = telemetry.Nop()
	}

	sk, pub, err := ellswift.Generate(rand)
	if err != nil {
		return nil, [64]byte{}, fmt.Errorf("bip324: generate handshake key: %w", err)
	}

	h := &Handshake{
		role:         role,
		magic:        magic,
		localGarbage: append([]byte(nil), localGarbage...),
		sk:           sk,
		localPoint:   pub,
		state:        StateAwaitingMaterials,
		logger:       logger,
	}
	logger.Debug("handshake started", telemetry.KeyRole, role.String(), telemetry.KeyState, "awaiting_materials")
	return h, pub.Bytes(), nil
}

// CompleteMaterials consumes the peer's 64-byte encoded point, derives
// the session keys, and returns the bytes to send as the second
// handshake message: localGarbage || own garbage terminator ||
// encrypted version packet.
func (h *Handshake) CompleteMaterials(remote [64]byte) ([]byte, error) {
	if h.state != StateAwaitingMaterials {
		return nil, ErrUnexpectedState
	}

	remotePub := ellswift.FromBytes(remote)
	sharedSecret, err := h.sk.ECDH(remotePub)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPublicKey, err)
	}

	transcript := h.transcript(h.localPoint.Bytes(), remotePub.Bytes())
	keys, err := deriveSessionKeys(sharedSecret, transcript, h.magic)
	if err != nil {
		return nil, err
	}
	h.keys = keys

	sendLengthKey, sendPacketKey := h.outgoingKeys()
	recvLengthKey, recvPacketKey := h.incomingKeys()
	h.encrypter = &Encrypter{length: NewFSChaCha20(sendLengthKey), body: NewFSChaCha20Poly1305(sendPacketKey)}
	h.decrypter = &Decrypter{length: NewFSChaCha20(recvLengthKey), body: NewFSChaCha20Poly1305(recvPacketKey)}

	ownTerminator := h.outgoingGarbageTerminator()
	versionPacket, err := h.encrypter.EncodeFirst(nil, h.localGarbage)
	if err != nil {
		return nil, fmt.Errorf("bip324: encode version packet: %w", err)
	}

	message := make([]byte, 0, len(h.localGarbage)+len(ownTerminator)+len(versionPacket))
	message = append(message, h.localGarbage...)
	message = append(message, ownTerminator[:]...)
	message = append(message, versionPacket...)

	h.state = StateAwaitingVersion
	h.logger.Debug("handshake materials complete",
		telemetry.KeyRole, h.role.String(),
		telemetry.KeyState, "awaiting_version",
		telemetry.KeySessionID, fmt.Sprintf("%x", h.keys.SessionID[:8]))
	return message, nil
}

// AuthenticateGarbageAndVersion scans remote for the peer's garbage
// terminator (bounded to MaxGarbageLength bytes of garbage), decrypts
// the version packet that follows using the scanned garbage as AAD,
// and on success returns the PacketHandler for all subsequent traffic.
func (h *Handshake) AuthenticateGarbageAndVersion(remote []byte) (*PacketHandler, error) {
	if h.state != StateAwaitingVersion {
		return nil, ErrUnexpectedState
	}

	terminator := h.incomingGarbageTerminator()
	offset, found := ScanGarbageTerminator(remote, terminator)
	if !found {
		h.logger.Warn("garbage terminator not found", telemetry.KeyRole, h.role.String())
		return nil, ErrGarbageTerminatorNotFound
	}
	remoteGarbage := remote[:offset]
	rest := remote[offset+GarbageTerminatorLength:]

	if len(rest) < 3 {
		return nil, fmt.Errorf("%w: version packet truncated", ErrPacketTooShort)
	}
	var encLength [3]byte
	copy(encLength[:], rest[:3])
	bodyLen, err := h.decrypter.DecodeLength(encLength)
	if err != nil {
		return nil, err
	}
	if len(rest) < 3+bodyLen+16 {
		return nil, fmt.Errorf("%w: version packet truncated", ErrPacketTooShort)
	}

	if _, err := h.decrypter.DecodeFirst(rest[3:3+bodyLen+16], remoteGarbage); err != nil {
		h.logger.Warn("version packet authentication failed", telemetry.KeyRole, h.role.String())
		return nil, err
	}

	h.state = StateComplete
	h.logger.Debug("handshake complete", telemetry.KeyRole, h.role.String(), telemetry.KeyState, "complete")
	return &PacketHandler{Encrypter: h.encrypter, Decrypter: h.decrypter}, nil
}

// SessionKeys returns the derived key material once available (after
// CompleteMaterials), for callers that want the session id for
// logging or peer identification.
func (h *Handshake) SessionKeys() SessionKeyMaterial {
	return h.keys
}

// State reports the current state machine position.
func (h *Handshake) State() HandshakeState {
	return h.state
}

// transcript builds initiator_pub||responder_pub per spec.md §4.4,
// each half the first 32 bytes (the x-coordinate) of that party's
// 64-byte encoded point, in initiator-then-responder order.
func (h *Handshake) transcript(localPoint, remotePoint [64]byte) [64]byte {
	if h.role == RoleInitiator {
		return concatPoints(localPoint, remotePoint)
	}
	return concatPoints(remotePoint, localPoint)
}

func concatPoints(initiator, responder [64]byte) [64]byte {
	var t [64]byte
	copy(t[:32], initiator[:32])
	copy(t[32:], responder[:32])
	return t
}

func (h *Handshake) outgoingKeys() (lengthKey, packetKey [32]byte) {
	if h.role == RoleInitiator {
		return h.keys.InitiatorLengthKey, h.keys.InitiatorPacketKey
	}
	return h.keys.ResponderLengthKey, h.keys.ResponderPacketKey
}

func (h *Handshake) incomingKeys() (lengthKey, packetKey [32]byte) {
	if h.role == RoleInitiator {
		return h.keys.ResponderLengthKey, h.keys.ResponderPacketKey
	}
	return h.keys.InitiatorLengthKey, h.keys.InitiatorPacketKey
}

func (h *Handshake) outgoingGarbageTerminator() [16]byte {
	if h.role == RoleInitiator {
		return h.keys.InitiatorGarbageTerminator
	}
	return h.keys.ResponderGarbageTerminator
}

func (h *Handshake) incomingGarbageTerminator() [16]byte {
	if h.role == RoleInitiator {
		return h.keys.ResponderGarbageTerminator
	}
	return h.keys.InitiatorGarbageTerminator
}

// ScanGarbageTerminator slides a 16-byte window across buf looking
// for the first occurrence of terminator, bounded to MaxGarbageLength
// bytes of candidate garbage (spec.md §4.5). It is safe to call
// repeatedly as buf grows with each incremental socket read; the
// caller refills buf and re-scans rather than this function blocking
// on I/O itself (spec.md §9, resolving the fixed-read-size open
// question against a bounded incremental scan instead).
func ScanGarbageTerminator(buf []byte, terminator [16]byte) (offset int, found bool) {
	limit := len(buf) - GarbageTerminatorLength
	if limit > MaxGarbageLength {
		limit = MaxGarbageLength
	}
	for k := 0; k <= limit; k++ {
		if bytes.Equal(buf[k:k+GarbageTerminatorLength], terminator[:]) {
			return k, true
		}
	}
	return 0, false
}
