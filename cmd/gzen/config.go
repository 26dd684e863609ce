package main

import (
	"fmt"
	"os"
	"time"

	"github.com/naoina/toml"
	"github.com/urfave/cli/v2"

	"github.com/zen-network/gzen/node"
)

// makeConfig builds the node configuration: defaults, then the TOML config
// file if given, then explicit command-line flags on top.
func makeConfig(ctx *cli.Context) (node.Config, error) {
	cfg := node.DefaultConfig

	if path := ctx.String(configFileFlag.Name); path != "" {
		if err := loadConfigFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("cannot load config file %s: %w", path, err)
		}
	}

	if ctx.IsSet(hostFlag.Name) {
		cfg.Host = ctx.String(hostFlag.Name)
	}
	if ctx.IsSet(portFlag.Name) {
		cfg.Port = ctx.Int(portFlag.Name)
	}
	if ctx.IsSet(rootHostFlag.Name) {
		cfg.RootHost = ctx.String(rootHostFlag.Name)
	}
	if ctx.IsSet(rootPortFlag.Name) {
		cfg.RootPort = ctx.Int(rootPortFlag.Name)
	}
	if ctx.IsSet(peerFlag.Name) {
		cfg.Peer = ctx.Bool(peerFlag.Name)
	}
	if ctx.IsSet(seedFlag.Name) {
		cfg.SeedData = ctx.Bool(seedFlag.Name)
	}
	if ctx.IsSet(pollRootFlag.Name) {
		cfg.PollRoot = ctx.Bool(pollRootFlag.Name)
	}
	if ctx.IsSet(pollIntervalFlag.Name) {
		cfg.PollInterval = time.Duration(ctx.Int(pollIntervalFlag.Name)) * time.Second
	}
	if ctx.IsSet(busURLFlag.Name) {
		cfg.BusURL = ctx.String(busURLFlag.Name)
	}
	return cfg, nil
}

func loadConfigFile(path string, cfg *node.Config) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewDecoder(f).Decode(cfg)
}

var dumpConfigCommand = &cli.Command{
	Action:      dumpConfig,
	Name:        "dumpconfig",
	Usage:       "Print the effective configuration as TOML",
	ArgsUsage:   " ",
	Description: `The dumpconfig command shows configuration values after flags and the config file are applied.`,
}

func dumpConfig(ctx *cli.Context) error {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	out, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(out)
	return err
}
