package main

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/nspcc-dev/luna-contract/rpc/luna"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"
	"github.com/urfave/cli"
)

var balanceCommand = cli.Command{
	Name:      "balance",
	Usage:     "Get balance of the account in the LUNA contract deployed to Neo network",
	ArgsUsage: "<account>",
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:  "rpc, r",
			Usage: "Network address of the Neo RPC server",
		},
		cli.StringFlag{
			Name:  "contract",
			Usage: "LE hex script hash of the LUNA contract",
		},
		cli.DurationFlag{
			Name:  "timeout, t",
			Usage: "Timeout of the RPC requests",
			Value: 15 * time.Second,
		},
	},
	Action: balance,
}

func balance(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.NewExitError("expected account", 1)
	}

	endpoint := ctx.String("rpc")
	if endpoint == "" {
		return cli.NewExitError("missing Neo RPC endpoint", 1)
	}

	contract, err := parseAccount(ctx.String("contract"))
	if err != nil {
		return cli.NewExitError(fmt.Errorf("contract: %w", err), 1)
	}

	acc, err := parseAccount(ctx.Args().First())
	if err != nil {
		return cli.NewExitError(fmt.Errorf("account: %w", err), 1)
	}

	timeout := ctx.Duration("timeout")

	c, err := rpcclient.New(context.Background(), endpoint, rpcclient.Options{
		DialTimeout:    timeout,
		RequestTimeout: timeout,
	})
	if err != nil {
		return cli.NewExitError(fmt.Errorf("RPC client dial: %w", err), 1)
	}
	defer c.Close()

	r := luna.NewReader(invoker.New(c, nil), contract)

	symbol, err := r.Symbol()
	if err != nil {
		return cli.NewExitError(fmt.Errorf("get token symbol: %w", err), 1)
	}

	decimals, err := r.Decimals()
	if err != nil {
		return cli.NewExitError(fmt.Errorf("get token decimals: %w", err), 1)
	}

	amount, err := r.BalanceOf(acc)
	if err != nil {
		return cli.NewExitError(fmt.Errorf("get balance: %w", err), 1)
	}

	fmt.Fprintf(ctx.App.Writer, "%s %s\n", formatAmount(amount, decimals), symbol)

	return nil
}

// formatAmount formats integer token amount as a decimal fraction.
func formatAmount(amount *big.Int, decimals int) string {
	if decimals <= 0 {
		return amount.String()
	}

	q, r := new(big.Int).QuoRem(new(big.Int).Abs(amount), new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil), new(big.Int))

	sign := ""
	if amount.Sign() < 0 {
		sign = "-"
	}

	return fmt.Sprintf("%s%s.%0*d", sign, q, decimals, r)
}
