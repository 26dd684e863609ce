package crypto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSignAndVerify(t *testing.T) {
	priv, err := GenerateKey()
	require.NoError(t, err)
	pubHex := PubKeyHex(priv.PubKey())

	data := map[string]uint64{"alice": 30, "bob": 970}
	sig, err := Sign(priv, data)
	require.NoError(t, err)

	require.True(t, VerifySignature(pubHex, data, sig))
}

func TestVerifyFailsClosed(t *testing.T) {
	priv, err := GenerateKey()
	require.NoError(t, err)
	pubHex := PubKeyHex(priv.PubKey())

	data := map[string]uint64{"alice": 30}
	sig, err := Sign(priv, data)
	require.NoError(t, err)

	// Tampered data.
	require.False(t, VerifySignature(pubHex, map[string]uint64{"alice": 31}, sig))

	// Wrong key.
	other, err := GenerateKey()
	require.NoError(t, err)
	require.False(t, VerifySignature(PubKeyHex(other.PubKey()), data, sig))

	// Malformed key and missing signature.
	require.False(t, VerifySignature("not-hex", data, sig))
	require.False(t, VerifySignature(pubHex, data, nil))
}

func TestSignatureWireForm(t *testing.T) {
	priv, err := GenerateKey()
	require.NoError(t, err)

	sig, err := Sign(priv, "payload")
	require.NoError(t, err)

	b, err := json.Marshal(sig)
	require.NoError(t, err)

	// The wire form is a two-element array of decimal strings; numeric
	// encoding would corrupt the 256-bit components.
	var parts [2]string
	require.NoError(t, json.Unmarshal(b, &parts))

	var restored Signature
	require.NoError(t, json.Unmarshal(b, &restored))
	require.Zero(t, sig.R.Cmp(restored.R))
	require.Zero(t, sig.S.Cmp(restored.S))
}

func TestParsePubKeyHexRoundTrip(t *testing.T) {
	priv, err := GenerateKey()
	require.NoError(t, err)

	pub, err := ParsePubKeyHex(PubKeyHex(priv.PubKey()))
	require.NoError(t, err)
	require.True(t, priv.PubKey().IsEqual(pub))
}
