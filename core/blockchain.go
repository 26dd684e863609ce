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

// Package core maintains the node's chain and its pending transaction pool.
package core

import (
	"fmt"
	"sync"

	mapset "github.com/deckarep/golang-set"
	log "github.com/inconshreveable/log15"

	"github.com/zen-network/gzen/consensus/pow"
	"github.com/zen-network/gzen/core/types"
	"github.com/zen-network/gzen/wallet"
)

// Blockchain is the node's ordered sequence of blocks, rooted at genesis.
// Access follows a single-writer, multi-reader discipline; the proof-of-work
// search itself never runs under the lock.
type Blockchain struct {
	mu    sync.RWMutex
	chain []*types.Block
}

// NewBlockchain creates a chain holding only the genesis block.
func NewBlockchain() *Blockchain {
	return &Blockchain{chain: []*types.Block{types.Genesis()}}
}

// Blocks returns a snapshot of the chain. The returned slice is the caller's
// to keep; the blocks themselves are shared and must not be mutated.
func (bc *Blockchain) Blocks() []*types.Block {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	return append([]*types.Block(nil), bc.chain...)
}

// Len returns the current chain length.
func (bc *Blockchain) Len() int {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	return len(bc.chain)
}

// Tip returns the last block of the chain.
func (bc *Blockchain) Tip() *types.Block {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	return bc.chain[len(bc.chain)-1]
}

// AddBlock mines a block carrying data on the current tip and appends it.
// The CPU-bound search runs outside the lock; if the tip moved while mining,
// the freshly mined block is dropped with ErrStaleTip.
func (bc *Blockchain) AddBlock(data []*types.Transaction) (*types.Block, error) {
	bc.mu.RLock()
	tip := bc.chain[len(bc.chain)-1]
	bc.mu.RUnlock()

	block := pow.MineBlock(tip, data)

	bc.mu.Lock()
	defer bc.mu.Unlock()
	if bc.chain[len(bc.chain)-1].Hash != block.LastHash {
		return nil, ErrStaleTip
	}
	bc.chain = append(bc.chain, block)
	return block, nil
}

// ReplaceChain swaps the local chain for incoming if it is strictly longer
// and valid in full. Equal length is a no-op failure: ties keep the local
// view.
func (bc *Blockchain) ReplaceChain(incoming []*types.Block) error {
	bc.mu.Lock()
	defer bc.mu.Unlock()

	if len(incoming) <= len(bc.chain) {
		return fmt.Errorf("%w: have %d blocks, got %d", ErrChainNotLonger, len(bc.chain), len(incoming))
	}
	if err := ValidateChain(incoming); err != nil {
		return fmt.Errorf("cannot replace chain: %w", err)
	}
	bc.chain = append([]*types.Block(nil), incoming...)
	log.Info("Replaced local chain", "blocks", len(bc.chain), "head", bc.chain[len(bc.chain)-1].Hash)
	return nil
}

// ValidateChain checks a chain in full: the genesis identity, every
// block-to-parent link and the transaction history.
func ValidateChain(chain []*types.Block) error {
	if len(chain) == 0 || !chain[0].IsGenesis() {
		return ErrBadGenesis
	}
	for i := 1; i < len(chain); i++ {
		if err := pow.VerifyBlock(chain[i-1], chain[i]); err != nil {
			return fmt.Errorf("block %d: %w", i, err)
		}
	}
	return ValidateTransactionChain(chain)
}

// ValidateTransactionChain enforces the chain-wide transaction rules: unique
// ids, at most one reward per block, input amounts matching the sender's
// balance at the block's height, and per-transaction validity.
func ValidateTransactionChain(chain []*types.Block) error {
	seen := mapset.NewSet()
	for i, block := range chain {
		rewardSeen := false
		for _, tx := range block.Data {
			if seen.Contains(tx.ID) {
				return fmt.Errorf("%w: id %s appears more than once", ErrReplayedTransaction, tx.ID)
			}
			seen.Add(tx.ID)

			if tx.IsReward() {
				if rewardSeen {
					return fmt.Errorf("%w: more than one reward in block %s", types.ErrInvalidReward, block.Hash)
				}
				rewardSeen = true
			} else if in, ok := tx.Input.(*types.SignedInput); ok {
				historic := wallet.CalculateBalance(chain[:i], in.Address)
				if in.Amount != historic {
					return fmt.Errorf("%w: transaction %s declares %d, balance was %d",
						ErrHistoricalBalance, tx.ID, in.Amount, historic)
				}
			}

			if err := types.ValidateTransaction(tx); err != nil {
				return fmt.Errorf("block %d: %w", i, err)
			}
		}
	}
	return nil
}
