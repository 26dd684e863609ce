package main

import (
	"fmt"
	"runtime"

	"github.com/urfave/cli/v2"

	"github.com/zen-network/gzen/params"
)

var versionCommand = &cli.Command{
	Action:    version,
	Name:      "version",
	Usage:     "Print version numbers",
	ArgsUsage: " ",
	Description: `
The output of this command is supposed to be machine-readable.
`,
}

func version(*cli.Context) error {
	fmt.Println("gzen")
	fmt.Println("Version:", params.VersionWithMeta)
	fmt.Println("Architecture:", runtime.GOARCH)
	fmt.Println("Go Version:", runtime.Version())
	fmt.Println("Operating System:", runtime.GOOS)
	return nil
}
