package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/nspcc-dev/luna-contract/contracts"
	"github.com/nspcc-dev/luna-contract/dump"
	"github.com/nspcc-dev/luna-contract/host"
	"github.com/nspcc-dev/neo-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/trigger"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

var (
	configFlag = cli.StringFlag{
		Name:  "config, c",
		Usage: "Path to the host YAML configuration",
	}
	wifFlag = cli.StringSliceFlag{
		Name:  "wif, w",
		Usage: "WIF of the key signing the transaction, can be repeated",
	}
	callerFlag = cli.StringFlag{
		Name:  "caller",
		Usage: "Script hash of the calling contract, the call must be signed by its controller",
	}
	verifyFlag = cli.BoolFlag{
		Name:  "verify",
		Usage: "Use verification trigger",
	}
	labelFlag = cli.StringFlag{
		Name:  "label, l",
		Usage: "Label of the dump",
		Value: "local",
	}
)

var invokeCommand = cli.Command{
	Name:      "invoke",
	Usage:     "Invoke ledger operation on the local host",
	ArgsUsage: "<method> [type:value...]",
	Flags:     []cli.Flag{configFlag, wifFlag, callerFlag, verifyFlag},
	Action:    invoke,
}

var upgradeCommand = cli.Command{
	Name:      "upgrade",
	Usage:     "Upgrade ledger on the local host to the compiled contract",
	ArgsUsage: "<contract dir>",
	Flags:     []cli.Flag{configFlag, wifFlag},
	Action:    upgrade,
}

var dumpCommand = cli.Command{
	Name:      "dump",
	Usage:     "Dump local host state into directory",
	ArgsUsage: "<dir>",
	Flags:     []cli.Flag{configFlag, labelFlag},
	Action:    dumpState,
}

var restoreCommand = cli.Command{
	Name:      "restore",
	Usage:     "Restore local host state from the dump",
	ArgsUsage: "<dir> <height>",
	Flags:     []cli.Flag{configFlag, labelFlag},
	Action:    restoreState,
}

// openHost opens host configured by the command flags. Returned function
// must be called to release resources.
func openHost(ctx *cli.Context) (*host.Host, func(), error) {
	path := ctx.String("config")
	if path == "" {
		return nil, nil, cli.NewExitError("missing host configuration", 1)
	}

	cfg, err := host.LoadConfig(path)
	if err != nil {
		return nil, nil, cli.NewExitError(err, 1)
	}

	log, err := newLogger(cfg)
	if err != nil {
		return nil, nil, cli.NewExitError(err, 1)
	}

	h, err := host.Open(cfg, log)
	if err != nil {
		_ = log.Sync()
		return nil, nil, cli.NewExitError(fmt.Errorf("open host: %w", err), 1)
	}

	return h, func() {
		if err := h.Close(); err != nil {
			log.Warn("failed to close host storage", zap.Error(err))
		}
		_ = log.Sync()
	}, nil
}

func newLogger(cfg host.Config) (*zap.Logger, error) {
	lvl, err := cfg.Level()
	if err != nil {
		return nil, err
	}

	c := zap.NewProductionConfig()
	c.Level = zap.NewAtomicLevelAt(lvl)
	c.Encoding = "console"

	log, err := c.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	return log, nil
}

func readKeys(ctx *cli.Context) ([]*keys.PrivateKey, error) {
	wifs := ctx.StringSlice("wif")
	res := make([]*keys.PrivateKey, len(wifs))

	for i := range wifs {
		var err error

		res[i], err = keys.NewPrivateKeyFromWIF(wifs[i])
		if err != nil {
			return nil, fmt.Errorf("decode WIF #%d: %w", i, err)
		}
	}

	return res, nil
}

func sendTransaction(ctx *cli.Context, h *host.Host, tx *host.Transaction) error {
	signers, err := readKeys(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	for i := range signers {
		err = tx.Sign(h.Ledger(), signers[i])
		if err != nil {
			return cli.NewExitError(fmt.Errorf("sign transaction: %w", err), 1)
		}
	}

	res, err := h.Invoke(context.Background(), tx)
	if err != nil {
		return cli.NewExitError(fmt.Errorf("invoke: %w", err), 1)
	}

	return printResult(ctx.App.Writer, res)
}

func invoke(ctx *cli.Context) error {
	if !ctx.Args().Present() {
		return cli.NewExitError("missing method", 1)
	}

	args, err := parseArgs(ctx.Args().Tail())
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	tx := &host.Transaction{
		Trigger: trigger.Application,
		Method:  ctx.Args().First(),
		Args:    args,
	}

	if ctx.Bool("verify") {
		tx.Trigger = trigger.Verification
	}

	if s := ctx.String("caller"); s != "" {
		tx.Caller, err = parseAccount(s)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
	}

	h, closeHost, err := openHost(ctx)
	if err != nil {
		return err
	}
	defer closeHost()

	return sendTransaction(ctx, h, tx)
}

func upgrade(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.NewExitError("expected contract directory", 1)
	}

	c, err := contracts.ReadDir(ctx.Args().First())
	if err != nil {
		return cli.NewExitError(fmt.Errorf("read contract: %w", err), 1)
	}

	p, err := c.UpgradeParams()
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	h, closeHost, err := openHost(ctx)
	if err != nil {
		return err
	}
	defer closeHost()

	return sendTransaction(ctx, h, &host.Transaction{
		Trigger: trigger.Application,
		Method:  "upgrade",
		Args: []stackitem.Item{
			stackitem.NewByteArray(p.Script),
			stackitem.NewByteArray(p.ParameterList),
			stackitem.Make(int(p.ReturnType)),
			stackitem.Make(int(p.Properties)),
			stackitem.Make(p.Name),
			stackitem.Make(p.Version),
			stackitem.Make(p.Author),
			stackitem.Make(p.Email),
			stackitem.Make(p.Description),
		},
	})
}

type resultJSON struct {
	ID             string            `json:"id"`
	State          string            `json:"state"`
	FaultException string            `json:"exception,omitempty"`
	Stack          []json.RawMessage `json:"stack"`
	Events         []eventJSON       `json:"notifications"`
}

type eventJSON struct {
	Contract string          `json:"contract"`
	Name     string          `json:"eventname"`
	State    json.RawMessage `json:"state"`
}

func printResult(w io.Writer, res *host.Result) error {
	out := resultJSON{
		ID:             res.ID.String(),
		State:          res.State.String(),
		FaultException: res.FaultException,
		Stack:          make([]json.RawMessage, 0, len(res.Stack)),
		Events:         make([]eventJSON, 0, len(res.Events)),
	}

	for i := range res.Stack {
		b, err := stackitem.ToJSONWithTypes(res.Stack[i])
		if err != nil {
			return cli.NewExitError(fmt.Errorf("encode result: %w", err), 1)
		}
		out.Stack = append(out.Stack, b)
	}

	for i := range res.Events {
		b, err := stackitem.ToJSONWithTypes(res.Events[i].Item)
		if err != nil {
			return cli.NewExitError(fmt.Errorf("encode notification: %w", err), 1)
		}
		out.Events = append(out.Events, eventJSON{
			Contract: res.Events[i].ScriptHash.StringLE(),
			Name:     res.Events[i].Name,
			State:    b,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(out)
}

func dumpState(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.NewExitError("expected dump directory", 1)
	}

	h, closeHost, err := openHost(ctx)
	if err != nil {
		return err
	}
	defer closeHost()

	s, err := h.Snapshot()
	if err != nil {
		return cli.NewExitError(fmt.Errorf("take snapshot: %w", err), 1)
	}

	id, err := dump.Export(ctx.Args().First(), ctx.String("label"), s)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	fmt.Fprintf(ctx.App.Writer, "Host state is successfully dumped to '%s' as '%s'\n", ctx.Args().First(), id)

	return nil
}

func restoreState(ctx *cli.Context) error {
	if ctx.NArg() != 2 {
		return cli.NewExitError("expected dump directory and height", 1)
	}

	var height uint32

	_, err := fmt.Sscan(ctx.Args().Get(1), &height)
	if err != nil {
		return cli.NewExitError(fmt.Errorf("invalid height: %w", err), 1)
	}

	r, err := dump.Open(ctx.Args().First(), dump.ID{Label: ctx.String("label"), Block: height})
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	s, err := r.Snapshot()
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	h, closeHost, err := openHost(ctx)
	if err != nil {
		return err
	}
	defer closeHost()

	err = h.Restore(s)
	if err != nil {
		return cli.NewExitError(fmt.Errorf("restore: %w", err), 1)
	}

	fmt.Fprintf(ctx.App.Writer, "Host state is restored from '%s'\n", r.ID())

	return nil
}
