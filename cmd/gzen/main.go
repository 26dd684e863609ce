// gzen is the command-line entry point into the zen network: a proof-of-work
// cryptocurrency node with an HTTP/JSON API and a websocket broadcast bus.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/inconshreveable/log15"
	"github.com/urfave/cli/v2"

	"github.com/zen-network/gzen/node"
	"github.com/zen-network/gzen/params"
)

var (
	configFileFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
	hostFlag = &cli.StringFlag{
		Name:  "http.host",
		Usage: "Host interface the HTTP API listens on",
		Value: node.DefaultConfig.Host,
	}
	portFlag = &cli.IntFlag{
		Name:  "http.port",
		Usage: "Port the HTTP API listens on (peers override with a random high port)",
		Value: node.DefaultConfig.Port,
	}
	rootHostFlag = &cli.StringFlag{
		Name:    "root.host",
		Usage:   "Host of the root node used for bootstrap, bus and polling",
		Value:   node.DefaultConfig.RootHost,
		EnvVars: []string{"ROOT_HOST"},
	}
	rootPortFlag = &cli.IntFlag{
		Name:  "root.port",
		Usage: "Port of the root node",
		Value: node.DefaultConfig.RootPort,
	}
	peerFlag = &cli.BoolFlag{
		Name:    "peer",
		Usage:   "Run as a peer: random port, chain bootstrapped from the root node",
		EnvVars: []string{"PEER"},
	}
	seedFlag = &cli.BoolFlag{
		Name:    "seed",
		Usage:   "Populate the chain and pool with demo data",
		EnvVars: []string{"SEED_DATA"},
	}
	pollRootFlag = &cli.BoolFlag{
		Name:    "poll.root",
		Usage:   "Periodically fetch the root node's chain and adopt it if longer",
		EnvVars: []string{"POLL_ROOT"},
	}
	pollIntervalFlag = &cli.IntFlag{
		Name:    "poll.interval",
		Usage:   "Root polling interval in seconds",
		Value:   int(node.DefaultConfig.PollInterval / time.Second),
		EnvVars: []string{"POLL_INTERVAL"},
	}
	busURLFlag = &cli.StringFlag{
		Name:  "bus.url",
		Usage: "Websocket bus endpoint (default: the root node's /pubsub; \"none\" disables networking)",
	}
	verbosityFlag = &cli.IntFlag{
		Name:  "verbosity",
		Usage: "Logging verbosity: 0=crit, 1=error, 2=warn, 3=info, 4=debug",
		Value: 3,
	}
)

func main() {
	app := &cli.App{
		Name:    "gzen",
		Usage:   "proof-of-work cryptocurrency node",
		Version: params.VersionWithMeta,
		Flags: []cli.Flag{
			configFileFlag,
			hostFlag,
			portFlag,
			rootHostFlag,
			rootPortFlag,
			peerFlag,
			seedFlag,
			pollRootFlag,
			pollIntervalFlag,
			busURLFlag,
			verbosityFlag,
		},
		Action: run,
		Commands: []*cli.Command{
			versionCommand,
			dumpConfigCommand,
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	setupLogging(ctx.Int(verbosityFlag.Name))

	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}

	n, err := node.New(cfg)
	if err != nil {
		return err
	}
	if err := n.Start(); err != nil {
		return err
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	log.Info("Shutting down")
	return n.Stop()
}

func setupLogging(verbosity int) {
	lvl := log.LvlInfo
	switch {
	case verbosity <= 0:
		lvl = log.LvlCrit
	case verbosity == 1:
		lvl = log.LvlError
	case verbosity == 2:
		lvl = log.LvlWarn
	case verbosity == 3:
		lvl = log.LvlInfo
	default:
		lvl = log.LvlDebug
	}
	log.Root().SetHandler(log.LvlFilterHandler(lvl, log.StderrHandler))
}
