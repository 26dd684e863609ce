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

// Package pow implements the proof-of-work engine: the mining loop, the
// adaptive difficulty rule and block verification.
//
// A block's hash must expand to at least Difficulty leading zero bits.
// Difficulty moves by at most one per block: up when the block is mined less
// than params.MineRate after its parent, down (floored at 1) otherwise.
package pow

import (
	"errors"
	"time"

	"github.com/zen-network/gzen/core/types"
	"github.com/zen-network/gzen/crypto"
	"github.com/zen-network/gzen/params"
)

// Package-level sentinel errors.
var (
	ErrBadLastHash    = errors.New("pow: block last hash does not match parent hash")
	ErrBadProofOfWork = errors.New("pow: block hash does not meet the difficulty requirement")
	ErrDifficultyJump = errors.New("pow: difficulty moved by more than one")
	ErrHashTamper     = errors.New("pow: block hash does not match block contents")
)

// MineBlock mines a block on top of last carrying the given transactions. It
// searches nonces until the block hash meets the difficulty requirement,
// refreshing the timestamp and difficulty every iteration, so the difficulty
// may change mid-search as wall time passes.
func MineBlock(last *types.Block, data []*types.Transaction) *types.Block {
	if data == nil {
		data = []*types.Transaction{}
	}
	timestamp := time.Now().UnixNano()
	lastHash := last.Hash
	difficulty := AdjustDifficulty(last, timestamp)
	var nonce uint64

	hash := sealHash(timestamp, lastHash, data, difficulty, nonce)
	for !hasLeadingZeroBits(hash, difficulty) {
		nonce++
		timestamp = time.Now().UnixNano()
		difficulty = AdjustDifficulty(last, timestamp)
		hash = sealHash(timestamp, lastHash, data, difficulty, nonce)
	}

	return &types.Block{
		Timestamp:  timestamp,
		LastHash:   lastHash,
		Hash:       hash,
		Data:       data,
		Difficulty: difficulty,
		Nonce:      types.IntNonce(nonce),
	}
}

// AdjustDifficulty computes the difficulty for a block mined at newTimestamp
// on top of last. Quickly mined blocks raise the difficulty, slowly mined
// blocks lower it, floored at 1.
func AdjustDifficulty(last *types.Block, newTimestamp int64) int {
	if newTimestamp-last.Timestamp < params.MineRate {
		return last.Difficulty + 1
	}
	if last.Difficulty-1 > 0 {
		return last.Difficulty - 1
	}
	return 1
}

// VerifyBlock checks the invariants linking block to its parent: the parent
// hash reference, the proof of work, the bounded difficulty step and the
// integrity of the hash itself.
func VerifyBlock(last, block *types.Block) error {
	if block.LastHash != last.Hash {
		return ErrBadLastHash
	}
	if !hasLeadingZeroBits(block.Hash, block.Difficulty) {
		return ErrBadProofOfWork
	}
	if step := last.Difficulty - block.Difficulty; step > 1 || step < -1 {
		return ErrDifficultyJump
	}
	if crypto.CryptoHash(block.Timestamp, block.LastHash, block.Data, block.Difficulty, block.Nonce) != block.Hash {
		return ErrHashTamper
	}
	return nil
}

func sealHash(timestamp int64, lastHash string, data []*types.Transaction, difficulty int, nonce uint64) string {
	return crypto.CryptoHash(timestamp, lastHash, data, difficulty, types.IntNonce(nonce))
}

func hasLeadingZeroBits(hash string, difficulty int) bool {
	binary := crypto.HexToBinary(hash)
	if difficulty > len(binary) {
		return false
	}
	for i := 0; i < difficulty; i++ {
		if binary[i] != '0' {
			return false
		}
	}
	return true
}
