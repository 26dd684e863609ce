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

package core

import (
	"sync"

	"github.com/zen-network/gzen/core/types"
)

// TransactionPool is the mempool of pending transactions, keyed by id, with a
// sender-address index for in-flight lookups. Local creation, the broadcast
// receiver and the mining clear step all serialize through its lock.
type TransactionPool struct {
	mu       sync.RWMutex
	pending  map[string]*types.Transaction // tx id -> transaction
	byAuthor map[string]string             // sender address -> tx id
}

// NewTransactionPool creates an empty pool.
func NewTransactionPool() *TransactionPool {
	return &TransactionPool{
		pending:  make(map[string]*types.Transaction),
		byAuthor: make(map[string]string),
	}
}

// SetTransaction inserts or overwrites a transaction by id. Overwrite is
// intentional: an updated transaction keeps its id and supersedes the prior
// version.
func (p *TransactionPool) SetTransaction(tx *types.Transaction) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pending[tx.ID] = tx
	if in, ok := tx.Input.(*types.SignedInput); ok {
		p.byAuthor[in.Address] = tx.ID
	}
}

// ExistingTransaction returns the pending transaction authored by the given
// address, or nil.
func (p *TransactionPool) ExistingTransaction(address string) *types.Transaction {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if id, ok := p.byAuthor[address]; ok {
		return p.pending[id]
	}
	return nil
}

// PendingTransactions returns a snapshot of the pool's transactions.
func (p *TransactionPool) PendingTransactions() []*types.Transaction {
	p.mu.RLock()
	defer p.mu.RUnlock()
	txs := make([]*types.Transaction, 0, len(p.pending))
	for _, tx := range p.pending {
		txs = append(txs, tx)
	}
	return txs
}

// Len returns the number of pending transactions.
func (p *TransactionPool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.pending)
}

// ClearBlockTransactions evicts every pool transaction whose id appears in a
// block of the given chain.
func (p *TransactionPool) ClearBlockTransactions(chain []*types.Block) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, block := range chain {
		for _, tx := range block.Data {
			pending, ok := p.pending[tx.ID]
			if !ok {
				continue
			}
			delete(p.pending, tx.ID)
			if in, ok := pending.Input.(*types.SignedInput); ok && p.byAuthor[in.Address] == tx.ID {
				delete(p.byAuthor, in.Address)
			}
		}
	}
}
