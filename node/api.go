package node

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"

	mapset "github.com/deckarep/golang-set"
	log "github.com/inconshreveable/log15"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"

	"github.com/zen-network/gzen/core/types"
)

// router builds the HTTP/JSON API. All payloads are JSON; large integers
// (signature components) are already string-encoded by the wire types, so the
// standard encoder is safe.
func (n *Node) router() http.Handler {
	mux := httprouter.New()
	mux.GET("/", n.handleWelcome)
	mux.GET("/blockchain", n.handleBlockchain)
	mux.GET("/blockchain/range", n.handleBlockchainRange)
	mux.GET("/blockchain/length", n.handleBlockchainLength)
	mux.GET("/blockchain/mine", n.handleMine)
	mux.POST("/wallet/transact", n.handleTransact)
	mux.GET("/wallet/info", n.handleWalletInfo)
	mux.GET("/known-addresses", n.handleKnownAddresses)
	mux.GET("/transactions", n.handleTransactions)
	if n.hub != nil {
		mux.Handler(http.MethodGet, "/pubsub", n.hub)
	}

	c := cors.New(cors.Options{
		AllowedOrigins: n.cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	})
	return c.Handler(mux)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn("Cannot encode HTTP response", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (n *Node) handleWelcome(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, "Welcome to the blockchain")
}

func (n *Node) handleBlockchain(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, n.chain.Blocks())
}

// handleBlockchainRange serves the chain newest-first, sliced [start:end).
// Indices clamp to the chain bounds.
func (n *Node) handleBlockchainRange(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	q := r.URL.Query()
	start, err := strconv.Atoi(q.Get("start"))
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid start parameter"))
		return
	}
	end, err := strconv.Atoi(q.Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid end parameter"))
		return
	}

	blocks := n.chain.Blocks()
	reversed := make([]*types.Block, 0, len(blocks))
	for i := len(blocks) - 1; i >= 0; i-- {
		reversed = append(reversed, blocks[i])
	}

	if start < 0 {
		start = 0
	}
	if end > len(reversed) {
		end = len(reversed)
	}
	if start > end {
		start = end
	}
	writeJSON(w, http.StatusOK, reversed[start:end])
}

func (n *Node) handleBlockchainLength(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, n.chain.Len())
}

func (n *Node) handleMine(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	block, err := n.miner.Mine()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, block)
}

type transactRequest struct {
	Recipient string `json:"recipient"`
	Amount    uint64 `json:"amount"`
}

// handleTransact creates the caller's pending transaction or folds another
// transfer into the existing one, then pools and broadcasts it.
func (n *Node) handleTransact(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req transactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}
	if req.Recipient == "" {
		writeError(w, http.StatusBadRequest, errors.New("recipient is required"))
		return
	}

	tx := n.pool.ExistingTransaction(n.wallet.Address())
	var err error
	if tx != nil {
		err = tx.Update(n.wallet, req.Recipient, req.Amount)
	} else {
		tx, err = types.NewTransaction(n.wallet, req.Recipient, req.Amount)
	}
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, types.ErrInsufficientBalance) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err)
		return
	}

	if err := n.service.BroadcastTransaction(tx); err != nil {
		log.Warn("Transaction broadcast failed", "id", tx.ID, "err", err)
	}
	n.pool.SetTransaction(tx)
	writeJSON(w, http.StatusOK, tx)
}

func (n *Node) handleWalletInfo(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"address": n.wallet.Address(),
		"balance": n.wallet.Balance(),
	})
}

// handleKnownAddresses serves the union of all recipient addresses appearing
// in chain outputs.
func (n *Node) handleKnownAddresses(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	known := mapset.NewSet()
	for _, block := range n.chain.Blocks() {
		for _, tx := range block.Data {
			for address := range tx.Output {
				known.Add(address)
			}
		}
	}

	addresses := make([]string, 0, known.Cardinality())
	for _, v := range known.ToSlice() {
		addresses = append(addresses, v.(string))
	}
	sort.Strings(addresses)
	writeJSON(w, http.StatusOK, addresses)
}

func (n *Node) handleTransactions(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, n.pool.PendingTransactions())
}
