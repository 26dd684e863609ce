// Copyright 2026 Zenith Network
// This file is part of the gzen library.
//
// The gzen library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The gzen library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the gzen library. If not, see <http://www.gnu.org/licenses/>.

package crypto

import (
	cryptoecdsa "crypto/ecdsa"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"
)

// Signature is a secp256k1 ECDSA signature over the SHA-256 digest of a
// canonically JSON-encoded value. The components travel as decimal strings on
// the wire: r and s exceed 2^53 and would be corrupted by JSON number
// encoding.
type Signature struct {
	R *big.Int
	S *big.Int
}

// MarshalJSON renders the signature as a two-element array of decimal strings.
func (sig *Signature) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{sig.R.String(), sig.S.String()})
}

// UnmarshalJSON parses the decimal-string wire form.
func (sig *Signature) UnmarshalJSON(input []byte) error {
	var parts [2]string
	if err := json.Unmarshal(input, &parts); err != nil {
		return err
	}
	r, ok := new(big.Int).SetString(parts[0], 10)
	if !ok {
		return errors.New("crypto: malformed signature r component")
	}
	s, ok := new(big.Int).SetString(parts[1], 10)
	if !ok {
		return errors.New("crypto: malformed signature s component")
	}
	sig.R, sig.S = r, s
	return nil
}

// GenerateKey creates a fresh secp256k1 private key.
func GenerateKey() (*btcec.PrivateKey, error) {
	return btcec.NewPrivateKey()
}

// PubKeyHex encodes a public key as lowercase hex of its uncompressed SEC1
// serialization. This is the wire form embedded in transaction inputs.
func PubKeyHex(pub *btcec.PublicKey) string {
	return hex.EncodeToString(pub.SerializeUncompressed())
}

// ParsePubKeyHex decodes a public key from its hex wire form.
func ParsePubKeyHex(s string) (*btcec.PublicKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	return btcec.ParsePubKey(b)
}

// digest canonicalizes data as JSON and hashes it. encoding/json sorts map
// keys, so signer and verifier serialize identically.
func digest(data interface{}) ([]byte, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(b)
	return sum[:], nil
}

// Sign signs the canonical serialization of data with the given private key.
func Sign(priv *btcec.PrivateKey, data interface{}) (*Signature, error) {
	h, err := digest(data)
	if err != nil {
		return nil, err
	}
	r, s, err := cryptoecdsa.Sign(rand.Reader, priv.ToECDSA(), h)
	if err != nil {
		return nil, err
	}
	return &Signature{R: r, S: s}, nil
}

// VerifySignature reports whether sig is a valid signature of data under the
// hex-encoded public key. It fails closed: any malformed key, unserializable
// data or missing signature yields false.
func VerifySignature(pubHex string, data interface{}, sig *Signature) bool {
	if sig == nil || sig.R == nil || sig.S == nil {
		return false
	}
	pub, err := ParsePubKeyHex(pubHex)
	if err != nil {
		return false
	}
	h, err := digest(data)
	if err != nil {
		return false
	}
	return cryptoecdsa.Verify(pub.ToECDSA(), h, sig.R, sig.S)
}
