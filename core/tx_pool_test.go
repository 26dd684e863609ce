package core_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zen-network/gzen/core"
	"github.com/zen-network/gzen/core/types"
)

func TestPoolSetAndLookup(t *testing.T) {
	pool := core.NewTransactionPool()
	sender := newWallet(t)

	tx, err := types.NewTransaction(sender, "alice", 10)
	require.NoError(t, err)
	pool.SetTransaction(tx)

	require.Equal(t, 1, pool.Len())
	require.Same(t, tx, pool.ExistingTransaction(sender.Address()))
	require.Nil(t, pool.ExistingTransaction("stranger"))
}

func TestPoolOverwriteKeepsID(t *testing.T) {
	pool := core.NewTransactionPool()
	sender := newWallet(t)

	tx, err := types.NewTransaction(sender, "alice", 10)
	require.NoError(t, err)
	pool.SetTransaction(tx)

	// An updated transaction keeps its id and supersedes the pooled
	// version.
	require.NoError(t, tx.Update(sender, "bob", 20))
	pool.SetTransaction(tx)

	require.Equal(t, 1, pool.Len())
	require.Equal(t, uint64(20), pool.ExistingTransaction(sender.Address()).Output["bob"])
}

func TestPoolSnapshot(t *testing.T) {
	pool := core.NewTransactionPool()
	for i := 0; i < 3; i++ {
		tx, err := types.NewTransaction(newWallet(t), "alice", 5)
		require.NoError(t, err)
		pool.SetTransaction(tx)
	}
	require.Len(t, pool.PendingTransactions(), 3)
}

func TestClearBlockTransactions(t *testing.T) {
	bc := core.NewBlockchain()
	pool := core.NewTransactionPool()
	mined := newWallet(t)
	pending := newWallet(t)

	minedTx, err := types.NewTransaction(mined, "alice", 10)
	require.NoError(t, err)
	pendingTx, err := types.NewTransaction(pending, "bob", 10)
	require.NoError(t, err)
	pool.SetTransaction(minedTx)
	pool.SetTransaction(pendingTx)

	addBlock(t, bc, []*types.Transaction{minedTx})
	pool.ClearBlockTransactions(bc.Blocks())

	require.Equal(t, 1, pool.Len())
	require.Nil(t, pool.ExistingTransaction(mined.Address()))
	require.Same(t, pendingTx, pool.ExistingTransaction(pending.Address()))
}
