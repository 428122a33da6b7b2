package ellswift

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestECDHAgreement(t *testing.T) {
	aliceSK, alicePub, err := Generate(rand.Reader)
	require.NoError(t, err)

	bobSK, bobPub, err := Generate(rand.Reader)
	require.NoError(t, err)

	aliceShared, err := aliceSK.ECDH(bobPub)
	require.NoError(t, err)

	bobShared, err := bobSK.ECDH(alicePub)
	require.NoError(t, err)

	require.Equal(t, aliceShared, bobShared)
}

func TestEncodedLen(t *testing.T) {
	_, pub, err := Generate(rand.Reader)
	require.NoError(t, err)

	b := pub.Bytes()
	require.Len(t, b, EncodedLen)
}

func TestFromBytesRoundTrip(t *testing.T) {
	_, pub, err := Generate(rand.Reader)
	require.NoError(t, err)

	round := FromBytes(pub.Bytes())
	require.Equal(t, pub, round)
}
