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

// Package crypto bundles the digest and signature primitives the chain is
// built on: the canonical block/transaction digest, the binary expansion used
// by proof-of-work checks and secp256k1 ECDSA signing.
package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// CryptoHash returns the lowercase hex SHA-256 digest of the given values.
// Each value is JSON-encoded and the encodings are sorted lexicographically
// before concatenation, so the digest is insensitive to argument order. The
// sort is part of the consensus rules: every node must hash identically.
func CryptoHash(values ...interface{}) string {
	encoded := make([]string, 0, len(values))
	for _, v := range values {
		b, err := json.Marshal(v)
		if err != nil {
			panic(fmt.Sprintf("crypto: unhashable value %T: %v", v, err))
		}
		encoded = append(encoded, string(b))
	}
	sort.Strings(encoded)

	sum := sha256.Sum256([]byte(strings.Join(encoded, "")))
	return hex.EncodeToString(sum[:])
}

const hexDigits = "0123456789abcdef"

var nibbleBits = [16]string{
	"0000", "0001", "0010", "0011",
	"0100", "0101", "0110", "0111",
	"1000", "1001", "1010", "1011",
	"1100", "1101", "1110", "1111",
}

// HexToBinary expands a lowercase hex string into its binary digit string,
// four bits per nibble, zero-padded. Proof-of-work counts leading zero bits
// (not nibbles) in this expansion. Malformed input yields no bits for the
// offending characters, so difficulty checks fail closed.
func HexToBinary(s string) string {
	var b strings.Builder
	b.Grow(len(s) * 4)
	for i := 0; i < len(s); i++ {
		n := strings.IndexByte(hexDigits, s[i])
		if n < 0 {
			continue
		}
		b.WriteString(nibbleBits[n])
	}
	return b.String()
}
