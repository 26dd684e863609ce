package node

import (
	"time"

	"github.com/zen-network/gzen/params"
)

// Config collects the tunable knobs of a node. The zero value is not usable;
// start from DefaultConfig.
type Config struct {
	// Host and Port the HTTP API listens on. Peer nodes override Port with
	// a random high port at startup.
	Host string
	Port int

	// RootHost and RootPort locate the root node used for chain bootstrap,
	// the broadcast hub and polling.
	RootHost string
	RootPort int

	// Peer marks this node as a non-root peer: it picks a random port and
	// syncs its chain from the root before serving.
	Peer bool

	// SeedData populates the chain with demo blocks and the pool with demo
	// transactions at startup.
	SeedData bool

	// PollRoot enables periodically fetching the root node's chain and
	// offering it to ReplaceChain.
	PollRoot     bool
	PollInterval time.Duration

	// BusURL overrides the websocket bus endpoint. Empty means the root
	// node's /pubsub; the literal "none" disables networking entirely and
	// uses an in-process bus.
	BusURL string

	// CORSOrigins are the origins allowed on the HTTP API.
	CORSOrigins []string
}

// DefaultConfig holds the settings of a root node on the standard port.
var DefaultConfig = Config{
	Host:         "0.0.0.0",
	Port:         params.RootPort,
	RootHost:     "localhost",
	RootPort:     params.RootPort,
	PollInterval: 15 * time.Second,
	CORSOrigins:  []string{"http://localhost:3000"},
}
