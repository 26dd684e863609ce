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

import "errors"

var (
	// ErrBadGenesis is returned when a chain does not start with the
	// genesis block.
	ErrBadGenesis = errors.New("chain must start with the genesis block")

	// ErrChainNotLonger is returned by ReplaceChain when the incoming
	// chain does not strictly exceed the local one in length.
	ErrChainNotLonger = errors.New("incoming chain must be longer")

	// ErrReplayedTransaction is returned when a transaction id appears
	// more than once across a chain.
	ErrReplayedTransaction = errors.New("replayed transaction")

	// ErrHistoricalBalance is returned when a transaction's declared input
	// amount does not match the sender's balance at the time the
	// containing block was mined.
	ErrHistoricalBalance = errors.New("transaction input amount does not match historical balance")

	// ErrStaleTip is returned by AddBlock when the chain tip advanced
	// while the block was being mined.
	ErrStaleTip = errors.New("chain tip advanced while mining")
)
