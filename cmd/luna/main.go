package main

import (
	"fmt"
	"os"

	"github.com/nspcc-dev/luna-contract/common"
	"github.com/urfave/cli"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "luna"
	app.Usage = "LUNA token ledger tool"
	app.Version = fmt.Sprintf("%d.%d.%d", common.Version/1_000_000, common.Version/1_000%1_000, common.Version%1_000)
	app.Commands = []cli.Command{
		invokeCommand,
		upgradeCommand,
		dumpCommand,
		restoreCommand,
		balanceCommand,
	}
	return app
}
