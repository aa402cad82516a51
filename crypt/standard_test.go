package crypt

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestArcFourRoundTrip(t *testing.T) {
	key := []byte("Key")
	plain := []byte("Plaintext")
	cipher := rc4(key, plain)
	require.NotEqual(t, plain, cipher, "RC4 output equals plaintext; cipher did nothing")
	back := rc4(key, cipher)
	require.Equal(t, plain, back, "RC4 is not self-inverse")
}

func TestDeriveKeyR2to4Deterministic(t *testing.T) {
	p := Params{
		V: 1, R: 3,
		O:        bytes.Repeat([]byte{0x11}, 32),
		P:        -4,
		FileID:   []byte("some-file-id"),
		KeyBytes: 16,
		Password: "secret",
	}
	k1 := deriveKeyR2to4(p)
	k2 := deriveKeyR2to4(p)
	require.Equal(t, k1, k2, "key derivation must be deterministic")
	require.Len(t, k1, 16)

	p2 := p
	p2.Password = "different"
	k3 := deriveKeyR2to4(p2)
	require.NotEqual(t, k1, k3, "different passwords must produce different keys")
}

func TestNewHandlerUnsupportedRevision(t *testing.T) {
	_, err := NewHandler(Params{R: 1})
	require.ErrorIs(t, err, ErrUnsupportedRevision)

	_, err = NewHandler(Params{R: 7})
	require.ErrorIs(t, err, ErrUnsupportedRevision)
}

func TestHandlerIdentityMethodIsNoOp(t *testing.T) {
	h, err := NewHandler(Params{
		R: 4, V: 4,
		O:        bytes.Repeat([]byte{0x01}, 32),
		P:        -44,
		FileID:   []byte("id"),
		KeyBytes: 16,
		Method:   MethodIdentity,
		Password: "",
	})
	require.NoError(t, err)

	data := []byte("stream bytes")
	out, err := h.DecryptStream(3, 0, data)
	require.NoError(t, err)
	require.Equal(t, data, out, "identity method must not alter data")
}

func TestHandlerRC4RoundTripViaObjectKey(t *testing.T) {
	h, err := NewHandler(Params{
		R: 3, V: 2,
		O:        bytes.Repeat([]byte{0x22}, 32),
		P:        -4,
		FileID:   []byte("file-id-bytes"),
		KeyBytes: 16,
		Method:   MethodRC4,
		Password: "owner",
	})
	require.NoError(t, err)

	plain := []byte("Hello, encrypted PDF world!")
	// RC4 is its own inverse under the same key/keystream position, so
	// decrypting twice under the same object key recovers the plaintext.
	enc, err := h.DecryptStream(5, 0, plain)
	require.NoError(t, err)
	dec, err := h.DecryptStream(5, 0, enc)
	require.NoError(t, err)
	require.Equal(t, plain, dec)
}

func TestAESCBCDecryptEmptyPayload(t *testing.T) {
	out, err := aesCBCDecrypt(bytes.Repeat([]byte{0x01}, 16), nil)
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestAESCBCDecryptShortPayload(t *testing.T) {
	_, err := aesCBCDecrypt(bytes.Repeat([]byte{0x01}, 16), []byte{1, 2, 3})
	require.Error(t, err)
}
