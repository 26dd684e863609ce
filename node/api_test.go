package node

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zen-network/gzen/core/types"
	"github.com/zen-network/gzen/miner"
	"github.com/zen-network/gzen/params"
	"github.com/zen-network/gzen/pubsub"
)

// newTestNode wires a node on an in-process bus, skipping Start's network
// setup.
func newTestNode(t *testing.T) (*Node, *httptest.Server) {
	t.Helper()
	n, err := New(DefaultConfig)
	require.NoError(t, err)

	n.service = pubsub.NewService(n.chain, n.pool, pubsub.NewLoopbackHub().NewClient())
	n.service.Start()
	n.miner = miner.New(n.chain, n.pool, n.wallet, n.service)

	srv := httptest.NewServer(n.router())
	t.Cleanup(srv.Close)
	return n, srv
}

func getJSON(t *testing.T, url string, out interface{}) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestBlockchainRoutes(t *testing.T) {
	_, srv := newTestNode(t)

	var chain []*types.Block
	getJSON(t, srv.URL+"/blockchain", &chain)
	require.Len(t, chain, 1)
	require.True(t, chain[0].IsGenesis())

	var length int
	getJSON(t, srv.URL+"/blockchain/length", &length)
	require.Equal(t, 1, length)
}

func TestTransactAndMine(t *testing.T) {
	n, srv := newTestNode(t)

	resp := postJSON(t, srv.URL+"/wallet/transact", map[string]interface{}{
		"recipient": "alice", "amount": 100,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tx types.Transaction
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tx))
	require.Equal(t, uint64(100), tx.Output["alice"])

	// A second transact folds into the same pending transaction.
	resp = postJSON(t, srv.URL+"/wallet/transact", map[string]interface{}{
		"recipient": "bob", "amount": 50,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var pending []*types.Transaction
	getJSON(t, srv.URL+"/transactions", &pending)
	require.Len(t, pending, 1)
	require.Equal(t, uint64(50), pending[0].Output["bob"])

	var mined types.Block
	getJSON(t, srv.URL+"/blockchain/mine", &mined)
	require.Len(t, mined.Data, 2) // the transaction plus the miner's reward

	getJSON(t, srv.URL+"/transactions", &pending)
	require.Empty(t, pending, "mining must clear included transactions")

	var length int
	getJSON(t, srv.URL+"/blockchain/length", &length)
	require.Equal(t, 2, length)

	// The node's wallet spent 150 and earned the block reward.
	var info struct {
		Address string `json:"address"`
		Balance uint64 `json:"balance"`
	}
	getJSON(t, srv.URL+"/wallet/info", &info)
	require.Equal(t, n.wallet.Address(), info.Address)
	require.Equal(t, params.StartingBalance-150+params.MiningReward, info.Balance)
}

func TestTransactRejectsOverspend(t *testing.T) {
	_, srv := newTestNode(t)

	resp := postJSON(t, srv.URL+"/wallet/transact", map[string]interface{}{
		"recipient": "alice", "amount": params.StartingBalance + 1,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postJSON(t, srv.URL+"/wallet/transact", map[string]interface{}{"amount": 5})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode, "missing recipient")
}

func TestBlockchainRange(t *testing.T) {
	n, srv := newTestNode(t)
	for i := 0; i < 3; i++ {
		_, err := n.chain.AddBlock(nil)
		require.NoError(t, err)
	}

	var blocks []*types.Block
	getJSON(t, fmt.Sprintf("%s/blockchain/range?start=0&end=2", srv.URL), &blocks)
	require.Len(t, blocks, 2)
	require.Equal(t, n.chain.Tip().Hash, blocks[0].Hash, "range is served newest-first")

	// Out-of-bounds indices clamp instead of failing.
	getJSON(t, fmt.Sprintf("%s/blockchain/range?start=2&end=50", srv.URL), &blocks)
	require.Len(t, blocks, 2)

	resp, err := http.Get(srv.URL + "/blockchain/range?start=x&end=2")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestKnownAddresses(t *testing.T) {
	n, srv := newTestNode(t)

	tx, err := types.NewTransaction(n.wallet, "alice", 25)
	require.NoError(t, err)
	n.pool.SetTransaction(tx)
	_, err = n.miner.Mine()
	require.NoError(t, err)

	var addresses []string
	getJSON(t, srv.URL+"/known-addresses", &addresses)
	require.Contains(t, addresses, "alice")
	require.Contains(t, addresses, n.wallet.Address())
}
