package bip324

// HKDF salt and info labels, matching BIP324's key-derivation schedule.
const (
	hkdfSaltPrefix = "bitcoin_v2_shared_secret"

	infoInitiatorLengthKey = "initiator_L"
	infoInitiatorPacketKey = "initiator_P"
	infoResponderLengthKey = "responder_L"
	infoResponderPacketKey = "responder_P"
	infoSessionID          = "session_id"
	infoGarbageTerminators = "garbage_terminators"
)

// deriveSessionKeys implements spec.md §4.4: extract a PRK from the
// ECDH shared secret and the handshake transcript, then expand it
// into every directional key, the session id, and both garbage
// terminators.
//
// transcript must be initiatorPoint||responderPoint, each half the
// first 32 bytes of that party's 64-byte ElligatorSwift encoding.
func deriveSessionKeys(sharedSecret [32]byte, transcript [64]byte, magic NetworkMagic) (SessionKeyMaterial, error) {
	salt := make([]byte, 0, len(hkdfSaltPrefix)+len(magic))
	salt = append(salt, hkdfSaltPrefix...)
	salt = append(salt, magic[:]...)

	ikm := make([]byte, 0, 32+64)
	ikm = append(ikm, sharedSecret[:]...)
	ikm = append(ikm, transcript[:]...)

	hkdf := ExtractHKDF(salt, ikm)

	var keys SessionKeyMaterial
	if err := hkdf.Expand([]byte(infoInitiatorLengthKey), keys.InitiatorLengthKey[:]); err != nil {
		return SessionKeyMaterial{}, err
	}
	if err := hkdf.Expand([]byte(infoInitiatorPacketKey), keys.InitiatorPacketKey[:]); err != nil {
		return SessionKeyMaterial{}, err
	}
	if err := hkdf.Expand([]byte(infoResponderLengthKey), keys.ResponderLengthKey[:]); err != nil {
		return SessionKeyMaterial{}, err
	}
	if err := hkdf.Expand([]byte(infoResponderPacketKey), keys.ResponderPacketKey[:]); err != nil {
		return SessionKeyMaterial{}, err
	}
	if err := hkdf.Expand([]byte(infoSessionID), keys.SessionID[:]); err != nil {
		return SessionKeyMaterial{}, err
	}

	var terminators [32]byte
	if err := hkdf.Expand([]byte(infoGarbageTerminators), terminators[:]); err != nil {
		return SessionKeyMaterial{}, err
	}
	copy(keys.InitiatorGarbageTerminator[:], terminators[:16])
	copy(keys.ResponderGarbageTerminator[:], terminators[16:])

	return keys, nil
}
