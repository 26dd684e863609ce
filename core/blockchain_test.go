package core_test

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"

	"github.com/zen-network/gzen/consensus/pow"
	"github.com/zen-network/gzen/core"
	"github.com/zen-network/gzen/core/types"
	"github.com/zen-network/gzen/wallet"
)

func newWallet(t *testing.T) *wallet.Wallet {
	t.Helper()
	w, err := wallet.New(nil)
	require.NoError(t, err)
	return w
}

func addBlock(t *testing.T, bc *core.Blockchain, data []*types.Transaction) *types.Block {
	t.Helper()
	block, err := bc.AddBlock(data)
	require.NoError(t, err)
	return block
}

func TestNewBlockchainStartsAtGenesis(t *testing.T) {
	bc := core.NewBlockchain()
	require.Equal(t, 1, bc.Len())
	require.True(t, bc.Blocks()[0].IsGenesis())
	require.Equal(t, "genesis_hash", bc.Tip().Hash)
}

func TestAddBlockLinksChain(t *testing.T) {
	bc := core.NewBlockchain()
	addBlock(t, bc, nil)
	addBlock(t, bc, nil)

	chain := bc.Blocks()
	require.Len(t, chain, 3)
	require.Equal(t, chain[1].Hash, chain[2].LastHash)
	require.NoError(t, core.ValidateChain(chain))
}

func TestValidateChainGrownByMining(t *testing.T) {
	// Any chain produced by repeated mining validates, transactions
	// included.
	bc := core.NewBlockchain()
	miner := newWallet(t)
	for i := 0; i < 3; i++ {
		sender, err := wallet.New(bc)
		require.NoError(t, err)
		tx, err := types.NewTransaction(sender, "shop", 10)
		require.NoError(t, err)
		addBlock(t, bc, []*types.Transaction{tx, types.NewRewardTransaction(miner)})
	}
	if err := core.ValidateChain(bc.Blocks()); err != nil {
		t.Fatalf("mined chain failed validation: %v\n%s", err, spew.Sdump(bc.Blocks()))
	}
}

func TestValidateChainBadGenesis(t *testing.T) {
	bc := core.NewBlockchain()
	chain := bc.Blocks()
	chain[0].Difficulty = 99
	require.ErrorIs(t, core.ValidateChain(chain), core.ErrBadGenesis)
}

func TestValidateChainDetectsTamper(t *testing.T) {
	bc := core.NewBlockchain()
	miner := newWallet(t)
	addBlock(t, bc, []*types.Transaction{types.NewRewardTransaction(miner)})
	addBlock(t, bc, nil)

	chain := bc.Blocks()
	chain[1].Data = []*types.Transaction{types.NewRewardTransaction(newWallet(t))}
	require.ErrorIs(t, core.ValidateChain(chain), pow.ErrHashTamper)
}

func TestReplaceChain(t *testing.T) {
	a := core.NewBlockchain()
	b := core.NewBlockchain()
	addBlock(t, a, nil)
	addBlock(t, b, nil)
	addBlock(t, b, nil)

	// Longer valid chain wins.
	require.NoError(t, a.ReplaceChain(b.Blocks()))
	require.Equal(t, b.Blocks(), a.Blocks())

	// Shorter or equal is a no-op failure.
	short := core.NewBlockchain()
	addBlock(t, short, nil)
	before := a.Blocks()
	require.ErrorIs(t, a.ReplaceChain(short.Blocks()), core.ErrChainNotLonger)
	require.ErrorIs(t, a.ReplaceChain(a.Blocks()), core.ErrChainNotLonger)
	require.Equal(t, before, a.Blocks())
}

func TestReplaceChainRejectsInvalid(t *testing.T) {
	a := core.NewBlockchain()
	b := core.NewBlockchain()
	addBlock(t, b, nil)
	addBlock(t, b, nil)

	incoming := b.Blocks()
	incoming[1].Timestamp++ // breaks the seal
	err := a.ReplaceChain(incoming)
	require.ErrorIs(t, err, pow.ErrHashTamper)
	require.Equal(t, 1, a.Len())
}

func TestTransactionChainRejectsReplayedID(t *testing.T) {
	bc := core.NewBlockchain()
	sender := newWallet(t)
	tx, err := types.NewTransaction(sender, "alice", 10)
	require.NoError(t, err)

	addBlock(t, bc, []*types.Transaction{tx})
	addBlock(t, bc, []*types.Transaction{tx})

	require.ErrorIs(t, core.ValidateChain(bc.Blocks()), core.ErrReplayedTransaction)
}

func TestTransactionChainRejectsDoubleReward(t *testing.T) {
	bc := core.NewBlockchain()
	addBlock(t, bc, []*types.Transaction{
		types.NewRewardTransaction(newWallet(t)),
		types.NewRewardTransaction(newWallet(t)),
	})
	require.ErrorIs(t, core.ValidateChain(bc.Blocks()), types.ErrInvalidReward)
}

func TestTransactionChainRejectsStaleBalance(t *testing.T) {
	bc := core.NewBlockchain()
	sender := newWallet(t) // detached: always signs with the starting balance

	tx1, err := types.NewTransaction(sender, "alice", 10)
	require.NoError(t, err)
	addBlock(t, bc, []*types.Transaction{tx1})

	// After the first spend the sender's on-chain balance is 990, but the
	// detached wallet signs for 1000 again: a replay of stale funds.
	tx2, err := types.NewTransaction(sender, "alice", 10)
	require.NoError(t, err)
	addBlock(t, bc, []*types.Transaction{tx2})

	require.ErrorIs(t, core.ValidateChain(bc.Blocks()), core.ErrHistoricalBalance)
}
