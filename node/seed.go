package node

import (
	"math/rand"

	log "github.com/inconshreveable/log15"

	"github.com/zen-network/gzen/core/types"
	"github.com/zen-network/gzen/wallet"
)

const (
	seedBlocks       = 10
	seedTxsPerBlock  = 2
	seedPoolTxs      = 3
	seedAmountFloor  = 2
	seedAmountJitter = 49 // amounts land in [2, 50]
)

// seedData mines demo blocks of wallet-to-wallet transfers and pre-populates
// the pool, so a fresh development network has something to show.
func (n *Node) seedData() error {
	for i := 0; i < seedBlocks; i++ {
		data := make([]*types.Transaction, 0, seedTxsPerBlock)
		for j := 0; j < seedTxsPerBlock; j++ {
			tx, err := randomTransaction()
			if err != nil {
				return err
			}
			data = append(data, tx)
		}
		if _, err := n.chain.AddBlock(data); err != nil {
			return err
		}
	}

	for i := 0; i < seedPoolTxs; i++ {
		tx, err := randomTransaction()
		if err != nil {
			return err
		}
		if err := n.service.BroadcastTransaction(tx); err != nil {
			log.Warn("Seed transaction broadcast failed", "id", tx.ID, "err", err)
		}
		n.pool.SetTransaction(tx)
	}

	log.Info("Seeded demo data", "blocks", seedBlocks, "pooled", seedPoolTxs)
	return nil
}

// randomTransaction transfers a random amount between two throwaway wallets.
func randomTransaction() (*types.Transaction, error) {
	sender, err := wallet.New(nil)
	if err != nil {
		return nil, err
	}
	receiver, err := wallet.New(nil)
	if err != nil {
		return nil, err
	}
	amount := uint64(seedAmountFloor + rand.Intn(seedAmountJitter))
	return types.NewTransaction(sender, receiver.Address(), amount)
}
