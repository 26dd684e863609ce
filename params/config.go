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

package params

import "time"

// Consensus-relevant protocol constants. Every node on the network must share
// these values bit-for-bit.
const (
	StartingBalance uint64 = 1000 // Balance granted to every fresh wallet.
	MiningReward    uint64 = 50   // Amount paid to the miner of a block.

	// MineRate is the target inter-block interval in nanoseconds. The
	// difficulty rule steers the network toward one block per MineRate.
	MineRate int64 = 4 * int64(time.Second)

	// MiningRewardInputAddress marks the input of a mining reward
	// transaction. It is a well-known sentinel, not a spendable address.
	MiningRewardInputAddress = "*--official-mining-reward--*"
)

// Genesis block fields. The genesis block is the only block whose hash is not
// derived from its contents; peers accept it by identity comparison.
const (
	GenesisTimestamp  int64 = 1
	GenesisLastHash         = "genesis_last_hash"
	GenesisHash             = "genesis_hash"
	GenesisDifficulty       = 3
	GenesisNonce            = "genesis_nonce"
)

// Networking defaults.
const (
	RootPort = 5050 // Port the root node serves on; peers bootstrap from it.
)
