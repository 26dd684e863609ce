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

// Package wallet implements the miner's wallet: a secp256k1 keypair, a short
// opaque address and on-demand balance computation over the chain.
package wallet

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/google/uuid"

	"github.com/zen-network/gzen/core/types"
	"github.com/zen-network/gzen/crypto"
	"github.com/zen-network/gzen/params"
)

// ChainReader gives the wallet read-only access to the node's chain for
// balance computation. The chain does not own wallets; this is a
// back-reference only.
type ChainReader interface {
	Blocks() []*types.Block
}

// Wallet holds a keypair and authorizes transactions. The private key never
// leaves the wallet. Balance is computed on demand from the backing chain;
// a wallet without one reports the starting balance.
type Wallet struct {
	address string
	priv    *btcec.PrivateKey
	chain   ChainReader
}

// New creates a wallet with a fresh keypair and a random 8-character address.
// chain may be nil for detached wallets (tests, seed data).
func New(chain ChainReader) (*Wallet, error) {
	priv, err := crypto.GenerateKey()
	if err != nil {
		return nil, err
	}
	return &Wallet{
		address: uuid.NewString()[:8],
		priv:    priv,
		chain:   chain,
	}, nil
}

// Address returns the wallet's short opaque address.
func (w *Wallet) Address() string { return w.address }

// PublicKeyHex returns the hex wire form of the wallet's public key.
func (w *Wallet) PublicKeyHex() string { return crypto.PubKeyHex(w.priv.PubKey()) }

// Balance computes the wallet's current balance from the backing chain.
func (w *Wallet) Balance() uint64 {
	if w.chain == nil {
		return params.StartingBalance
	}
	return CalculateBalance(w.chain.Blocks(), w.address)
}

// Sign signs the canonical serialization of data with the wallet's key.
func (w *Wallet) Sign(data interface{}) (*crypto.Signature, error) {
	return crypto.Sign(w.priv, data)
}

// Verify reports whether sig is a valid signature of data under the given
// public key. Fails closed on any malformed input.
func Verify(pubHex string, data interface{}, sig *crypto.Signature) bool {
	return crypto.VerifySignature(pubHex, data, sig)
}

// CalculateBalance scans the chain in order and tracks the address's running
// balance. A block in which the address authored a transaction resets the
// running balance before that block's credits are added: a sender's output
// already encodes its post-spend balance as a self-entry. An address that
// never appears holds the starting balance.
func CalculateBalance(chain []*types.Block, address string) uint64 {
	balance := params.StartingBalance
	for _, block := range chain {
		sent := false
		for _, tx := range block.Data {
			if in, ok := tx.Input.(*types.SignedInput); ok && in.Address == address {
				sent = true
				break
			}
		}
		if sent {
			balance = 0
		}
		for _, tx := range block.Data {
			if amount, ok := tx.Output[address]; ok {
				balance += amount
			}
		}
	}
	return balance
}
