package node

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	log "github.com/inconshreveable/log15"

	"github.com/zen-network/gzen/core/types"
)

// fetchTimeout bounds every chain fetch from the root node.
const fetchTimeout = 10 * time.Second

// fetchRootChain downloads the root node's full chain.
func (n *Node) fetchRootChain() ([]*types.Block, error) {
	client := &http.Client{Timeout: fetchTimeout}
	url := fmt.Sprintf("http://%s:%d/blockchain", n.cfg.RootHost, n.cfg.RootPort)
	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("root returned status %s", resp.Status)
	}
	var chain []*types.Block
	if err := json.NewDecoder(resp.Body).Decode(&chain); err != nil {
		return nil, err
	}
	return chain, nil
}

// syncWithRoot fetches the root chain and offers it to ReplaceChain.
// Failures are logged; the next trigger (poll tick, broadcast fallback)
// retries.
func (n *Node) syncWithRoot() {
	chain, err := n.fetchRootChain()
	if err != nil {
		log.Warn("Cannot fetch root chain", "root", n.cfg.RootHost, "err", err)
		return
	}
	if err := n.chain.ReplaceChain(chain); err != nil {
		log.Debug("Keeping local chain", "err", err)
		return
	}
	n.pool.ClearBlockTransactions(n.chain.Blocks())
	log.Info("Synchronized chain from root", "blocks", n.chain.Len())
}
