package pubsub

import (
	"encoding/json"
	"errors"

	log "github.com/inconshreveable/log15"

	"github.com/zen-network/gzen/core"
	"github.com/zen-network/gzen/core/types"
)

// Service wires a Broadcaster to the chain and pool: it serializes outgoing
// blocks and transactions and applies incoming ones.
type Service struct {
	chain  *core.Blockchain
	pool   *core.TransactionPool
	bus    Broadcaster
	resync func() // full-chain fallback when applying a broadcast block fails
}

// NewService creates a service over the given bus.
func NewService(chain *core.Blockchain, pool *core.TransactionPool, bus Broadcaster) *Service {
	return &Service{chain: chain, pool: pool, bus: bus}
}

// SetResync installs the fallback invoked when a broadcast block cannot be
// applied, typically a full-chain fetch from the root node.
func (s *Service) SetResync(f func()) { s.resync = f }

// Start subscribes the apply handlers on the consensus channels.
func (s *Service) Start() {
	s.bus.Subscribe(BlockChannel, s.handleBlock)
	s.bus.Subscribe(TransactionChannel, s.handleTransaction)
	s.bus.Subscribe(TestChannel, func(payload []byte) {
		log.Debug("Test channel message", "payload", string(payload))
	})
}

// Close shuts the underlying bus down.
func (s *Service) Close() error { return s.bus.Close() }

// BroadcastBlock announces a block to peers.
func (s *Service) BroadcastBlock(block *types.Block) error {
	payload, err := json.Marshal(block)
	if err != nil {
		return err
	}
	return s.bus.Publish(BlockChannel, payload)
}

// BroadcastTransaction announces a pending transaction to peers.
func (s *Service) BroadcastTransaction(tx *types.Transaction) error {
	payload, err := json.Marshal(tx)
	if err != nil {
		return err
	}
	return s.bus.Publish(TransactionChannel, payload)
}

// handleBlock treats an incoming block as a hypothesis: the local chain
// extended by it is offered to ReplaceChain. Failure usually means missing
// intermediate blocks, so the service falls back to a full resync.
func (s *Service) handleBlock(payload []byte) {
	var block types.Block
	if err := json.Unmarshal(payload, &block); err != nil {
		log.Warn("Dropping malformed broadcast block", "err", err)
		return
	}

	potential := append(s.chain.Blocks(), &block)
	if err := s.chain.ReplaceChain(potential); err != nil {
		if errors.Is(err, core.ErrChainNotLonger) {
			log.Debug("Ignoring broadcast block", "hash", block.Hash, "err", err)
			return
		}
		log.Warn("Cannot apply broadcast block, resyncing", "hash", block.Hash, "err", err)
		if s.resync != nil {
			s.resync()
		}
		return
	}

	s.pool.ClearBlockTransactions(s.chain.Blocks())
	log.Info("Extended chain with broadcast block", "hash", block.Hash, "blocks", s.chain.Len())
}

func (s *Service) handleTransaction(payload []byte) {
	var tx types.Transaction
	if err := json.Unmarshal(payload, &tx); err != nil {
		log.Warn("Dropping malformed broadcast transaction", "err", err)
		return
	}
	s.pool.SetTransaction(&tx)
	log.Debug("Pooled broadcast transaction", "id", tx.ID)
}
