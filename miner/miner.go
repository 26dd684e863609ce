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

// Package miner assembles new blocks from the pending transaction pool.
package miner

import (
	log "github.com/inconshreveable/log15"

	"github.com/zen-network/gzen/core"
	"github.com/zen-network/gzen/core/types"
	"github.com/zen-network/gzen/wallet"
)

// BlockBroadcaster announces freshly mined blocks to peers.
type BlockBroadcaster interface {
	BroadcastBlock(*types.Block) error
}

// Miner drains the pool, appends its own reward transaction, runs the
// proof-of-work search and announces the result.
type Miner struct {
	chain       *core.Blockchain
	pool        *core.TransactionPool
	wallet      *wallet.Wallet
	broadcaster BlockBroadcaster
}

// New creates a miner. broadcaster may be nil for isolated nodes.
func New(chain *core.Blockchain, pool *core.TransactionPool, w *wallet.Wallet, broadcaster BlockBroadcaster) *Miner {
	return &Miner{chain: chain, pool: pool, wallet: w, broadcaster: broadcaster}
}

// Mine builds and appends one block: pending transactions (invalid ones,
// rewards, ones already on the chain and ones whose input amount is not the
// sender's current chain balance are skipped, not fatal) plus this miner's
// reward. On success the block is broadcast and included transactions are
// evicted from the pool.
func (m *Miner) Mine() (*types.Block, error) {
	pending := m.pool.PendingTransactions()
	chain := m.chain.Blocks()
	onChain := make(map[string]bool)
	for _, block := range chain {
		for _, tx := range block.Data {
			onChain[tx.ID] = true
		}
	}
	data := make([]*types.Transaction, 0, len(pending)+1)
	for _, tx := range pending {
		if err := types.ValidateTransaction(tx); err != nil {
			log.Warn("Skipping invalid pool transaction", "id", tx.ID, "err", err)
			continue
		}
		if in, ok := tx.Input.(*types.SignedInput); !ok || onChain[tx.ID] || in.Amount != wallet.CalculateBalance(chain, in.Address) {
			log.Warn("Skipping pool transaction the chain would reject", "id", tx.ID)
			continue
		}
		data = append(data, tx)
	}
	data = append(data, types.NewRewardTransaction(m.wallet))

	block, err := m.chain.AddBlock(data)
	if err != nil {
		return nil, err
	}
	log.Info("Mined new block", "hash", block.Hash, "txs", len(block.Data), "difficulty", block.Difficulty)

	if m.broadcaster != nil {
		if err := m.broadcaster.BroadcastBlock(block); err != nil {
			log.Warn("Block broadcast failed", "hash", block.Hash, "err", err)
		}
	}
	m.pool.ClearBlockTransactions(m.chain.Blocks())
	return block, nil
}
