// Package node assembles a full gzen node: chain, transaction pool, wallet,
// miner, broadcast bus and the HTTP/JSON API, plus the bootstrap, seeding and
// root-polling behaviors driven by configuration.
package node

import (
	"context"
	"fmt"
	"math/rand"
	"net"
	"net/http"
	"time"

	log "github.com/inconshreveable/log15"

	"github.com/zen-network/gzen/core"
	"github.com/zen-network/gzen/miner"
	"github.com/zen-network/gzen/pubsub"
	"github.com/zen-network/gzen/wallet"
)

// Peer nodes pick a random port in this range, leaving the root port free.
const (
	peerPortMin = 5051
	peerPortMax = 6000
)

// Node is a running gzen instance.
type Node struct {
	cfg Config

	chain   *core.Blockchain
	pool    *core.TransactionPool
	wallet  *wallet.Wallet
	miner   *miner.Miner
	service *pubsub.Service
	hub     *pubsub.Hub

	httpSrv *http.Server
	quit    chan struct{}
}

// New wires up a node from its configuration. Start must be called before
// the node serves or gossips.
func New(cfg Config) (*Node, error) {
	chain := core.NewBlockchain()
	pool := core.NewTransactionPool()
	w, err := wallet.New(chain)
	if err != nil {
		return nil, fmt.Errorf("cannot create wallet: %w", err)
	}

	n := &Node{
		cfg:    cfg,
		chain:  chain,
		pool:   pool,
		wallet: w,
		quit:   make(chan struct{}),
	}
	if !cfg.Peer {
		// The root node hosts the broadcast hub for the network.
		n.hub = pubsub.NewHub()
	}
	return n, nil
}

// Wallet returns the node's own wallet.
func (n *Node) Wallet() *wallet.Wallet { return n.wallet }

// Chain returns the node's blockchain.
func (n *Node) Chain() *core.Blockchain { return n.chain }

// Pool returns the node's transaction pool.
func (n *Node) Pool() *core.TransactionPool { return n.pool }

// Start brings the node up: HTTP API first (the root's hub must be reachable
// before anyone dials the bus), then the bus connection, then the configured
// bootstrap behaviors.
func (n *Node) Start() error {
	if n.cfg.Peer {
		n.cfg.Port = peerPortMin + rand.Intn(peerPortMax-peerPortMin+1)
	}

	ln, err := net.Listen("tcp", fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port))
	if err != nil {
		return err
	}
	n.httpSrv = &http.Server{Handler: n.router()}
	go func() {
		if err := n.httpSrv.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server failed", "err", err)
		}
	}()
	log.Info("HTTP server started", "addr", ln.Addr(), "wallet", n.wallet.Address())

	bus, err := n.dialBus()
	if err != nil {
		return fmt.Errorf("cannot join broadcast bus: %w", err)
	}
	n.service = pubsub.NewService(n.chain, n.pool, bus)
	n.service.SetResync(n.syncWithRoot)
	n.service.Start()
	n.miner = miner.New(n.chain, n.pool, n.wallet, n.service)

	if n.cfg.Peer {
		n.syncWithRoot()
	}
	if n.cfg.SeedData {
		if err := n.seedData(); err != nil {
			return fmt.Errorf("cannot seed demo data: %w", err)
		}
	}
	if n.cfg.PollRoot {
		go n.pollLoop()
	}
	return nil
}

// dialBus connects to the broadcast bus per configuration. The root node
// dials its own hub so that its publishes reach peers through the same path.
func (n *Node) dialBus() (pubsub.Broadcaster, error) {
	if n.cfg.BusURL == "none" {
		return pubsub.NewLoopbackHub().NewClient(), nil
	}
	url := n.cfg.BusURL
	if url == "" {
		if n.cfg.Peer {
			url = fmt.Sprintf("ws://%s:%d/pubsub", n.cfg.RootHost, n.cfg.RootPort)
		} else {
			// The root dials its own hub so its publishes reach peers
			// through the same path.
			url = fmt.Sprintf("ws://localhost:%d/pubsub", n.cfg.Port)
		}
	}
	return pubsub.Dial(url)
}

// Stop shuts the node down.
func (n *Node) Stop() error {
	close(n.quit)
	if n.service != nil {
		n.service.Close()
	}
	if n.httpSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return n.httpSrv.Shutdown(ctx)
	}
	return nil
}

// pollLoop periodically offers the root node's chain to ReplaceChain.
func (n *Node) pollLoop() {
	interval := n.cfg.PollInterval
	if interval <= 0 {
		interval = DefaultConfig.PollInterval
	}
	log.Info("Polling root chain", "root", n.cfg.RootHost, "interval", interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			n.syncWithRoot()
		case <-n.quit:
			return
		}
	}
}
