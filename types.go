package bip324

// NetworkMagic identifies which Bitcoin network a handshake is bound
// to; it is folded into the HKDF salt so sessions on different
// networks can never share derived keys.
type NetworkMagic [4]byte

// Standard Bitcoin network magics, supplementing spec.md's generic
// "4 bytes" with the concrete values the original implementation
// distinguishes.
var (
	MainnetMagic = NetworkMagic{0xf9, 0xbe, 0xb4, 0xd9}
	TestnetMagic = NetworkMagic{0x0b, 0x11, 0x09, 0x07}
	SignetMagic  = NetworkMagic{0x0a, 0x03, 0xcf, 0x40}
	RegtestMagic = NetworkMagic{0xfa, 0xbf, 0xb5, 0xda}
)

// Role is which side of the handshake a party is playing.
type Role int

const (
	// RoleInitiator started the handshake with a peer.
	RoleInitiator Role = iota
	// RoleResponder is responding to a handshake.
	RoleResponder
)

func (r Role) String() string {
	if r == RoleResponder {
		return "responder"
	}
	return "initiator"
}

// SessionKeyMaterial holds every key derived from a completed ECDH,
// immutable after construction by deriveSessionKeys.
type SessionKeyMaterial struct {
	// SessionID uniquely identifies this connection; safe to log or
	// surface to the application.
	SessionID [32]byte

	InitiatorLengthKey [32]byte
	InitiatorPacketKey [32]byte
	ResponderLengthKey [32]byte
	ResponderPacketKey [32]byte

	InitiatorGarbageTerminator [16]byte
	ResponderGarbageTerminator [16]byte
}

// ReceivedMessage is the result of decoding one packet. A decoy packet
// (header's ignore bit set) carries IsDecoy = true and a nil Message;
// the contents must not be inspected further.
type ReceivedMessage struct {
	Message []byte
	IsDecoy bool
}
