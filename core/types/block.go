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

// Package types holds the chain's primitive records: blocks, transactions and
// their wire encodings.
package types

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/zen-network/gzen/params"
)

// Nonce is the proof-of-work counter. The genesis block carries an opaque
// string sentinel instead of a counter, so the wire form is either a JSON
// number or a JSON string; the type round-trips both.
type Nonce struct {
	counter  uint64
	sentinel string
}

// IntNonce wraps a mining counter value.
func IntNonce(n uint64) Nonce { return Nonce{counter: n} }

// StringNonce wraps an opaque sentinel, as carried by the genesis block.
func StringNonce(s string) Nonce { return Nonce{sentinel: s} }

// Uint64 returns the counter value; zero for sentinel nonces.
func (n Nonce) Uint64() uint64 { return n.counter }

func (n Nonce) MarshalJSON() ([]byte, error) {
	if n.sentinel != "" {
		return json.Marshal(n.sentinel)
	}
	return []byte(strconv.FormatUint(n.counter, 10)), nil
}

func (n *Nonce) UnmarshalJSON(input []byte) error {
	*n = Nonce{}
	if len(input) > 0 && input[0] == '"' {
		return json.Unmarshal(input, &n.sentinel)
	}
	return json.Unmarshal(input, &n.counter)
}

// Block is a sealed unit of storage: it links to its parent by hash and
// carries the transactions included by its miner. Blocks are immutable once
// mined; tampering is detectable because the hash covers every other field.
type Block struct {
	Timestamp  int64          `json:"timestamp"` // nanoseconds, captured at solution time
	LastHash   string         `json:"last_hash"`
	Hash       string         `json:"hash"`
	Data       []*Transaction `json:"data"`
	Difficulty int            `json:"difficulty"` // leading zero bits required of Hash
	Nonce      Nonce          `json:"nonce"`
}

// Genesis returns the fixed first block shared by all nodes. It is the only
// block whose hash is not derived from its contents.
func Genesis() *Block {
	return &Block{
		Timestamp:  params.GenesisTimestamp,
		LastHash:   params.GenesisLastHash,
		Hash:       params.GenesisHash,
		Data:       []*Transaction{},
		Difficulty: params.GenesisDifficulty,
		Nonce:      StringNonce(params.GenesisNonce),
	}
}

// IsGenesis reports whether b equals the genesis block field for field.
func (b *Block) IsGenesis() bool {
	return b.Timestamp == params.GenesisTimestamp &&
		b.LastHash == params.GenesisLastHash &&
		b.Hash == params.GenesisHash &&
		len(b.Data) == 0 &&
		b.Difficulty == params.GenesisDifficulty &&
		b.Nonce == StringNonce(params.GenesisNonce)
}

func (b *Block) String() string {
	return fmt.Sprintf("Block(hash: %.10s…, last: %.10s…, txs: %d, difficulty: %d)",
		b.Hash, b.LastHash, len(b.Data), b.Difficulty)
}
