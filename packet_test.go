package bip324

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func samplePacketHandlers() (*PacketHandler, *PacketHandler) {
	var lengthKey, packetKey [32]byte
	for i := range lengthKey {
		lengthKey[i] = byte(i)
		packetKey[i] = byte(i + 100)
	}

	// Symmetric for this unit test: "a" sends on (lengthKey, packetKey)
	// and receives on the same pair "b" sends with.
	var otherLengthKey, otherPacketKey [32]byte
	for i := range otherLengthKey {
		otherLengthKey[i] = byte(200 + i)
		otherPacketKey[i] = byte(50 + i)
	}

	a := newPacketHandler(lengthKey, packetKey, otherLengthKey, otherPacketKey)
	b := newPacketHandler(otherLengthKey, otherPacketKey, lengthKey, packetKey)
	return a, b
}

func TestPacketRoundTrip(t *testing.T) {
	a, b := samplePacketHandlers()

	contents := []byte("a non-decoy message payload")
	wire, err := a.Encrypter.Encode(contents, false)
	require.NoError(t, err)

	var encLength [3]byte
	copy(encLength[:], wire[:3])
	length, err := b.Decrypter.DecodeLength(encLength)
	require.NoError(t, err)
	require.Equal(t, len(contents)+1, length)

	msg, err := b.Decrypter.Decode(encLength, wire[3:])
	require.NoError(t, err)
	require.False(t, msg.IsDecoy)
	require.Equal(t, contents, msg.Message)
}

func TestPacketDecoyDiscarded(t *testing.T) {
	a, b := samplePacketHandlers()

	wire, err := a.Encrypter.Encode([]byte("ignored contents"), true)
	require.NoError(t, err)

	var encLength [3]byte
	copy(encLength[:], wire[:3])
	_, err = b.Decrypter.DecodeLength(encLength)
	require.NoError(t, err)

	msg, err := b.Decrypter.Decode(encLength, wire[3:])
	require.NoError(t, err)
	require.True(t, msg.IsDecoy)
	require.Nil(t, msg.Message)
}

func TestPacketLengthFieldIsAlwaysThreeBytes(t *testing.T) {
	a, _ := samplePacketHandlers()

	wire, err := a.Encrypter.Encode([]byte("x"), false)
	require.NoError(t, err)
	// 3-byte length || 1-byte header || 1-byte contents || 16-byte tag.
	require.Len(t, wire, 3+1+1+16)
}

func TestPacketManyInOrderRoundTrip(t *testing.T) {
	a, b := samplePacketHandlers()

	for i := 0; i < RekeyInterval+5; i++ {
		contents := []byte{byte(i), byte(i >> 8)}
		wire, err := a.Encrypter.Encode(contents, i%7 == 0)
		require.NoError(t, err)

		var encLength [3]byte
		copy(encLength[:], wire[:3])
		length, err := b.Decrypter.DecodeLength(encLength)
		require.NoError(t, err)
		require.Equal(t, len(contents)+1, length)

		msg, err := b.Decrypter.Decode(encLength, wire[3:])
		require.NoError(t, err)
		if i%7 == 0 {
			require.True(t, msg.IsDecoy)
		} else {
			require.Equal(t, contents, msg.Message)
		}
	}
}

func TestPacketSplitIndependentDirections(t *testing.T) {
	a, b := samplePacketHandlers()
	encA, decA := a.Split()
	_, decB := b.Split()

	wire, err := encA.Encode([]byte("split works"), false)
	require.NoError(t, err)

	var encLength [3]byte
	copy(encLength[:], wire[:3])
	_, err = decB.DecodeLength(encLength)
	require.NoError(t, err)
	msg, err := decB.Decode(encLength, wire[3:])
	require.NoError(t, err)
	require.Equal(t, []byte("split works"), msg.Message)

	// decA belongs to the opposite direction and was never advanced.
	require.NotNil(t, decA)
}
