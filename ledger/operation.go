package ledger

import (
	"fmt"
	"math"
	"math/big"
	"unicode/utf8"

	"github.com/nspcc-dev/neo-go/pkg/smartcontract/trigger"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// Operation is one of the ledger operations with its arguments. The set of
// implementations is closed, see ParseOperation.
type Operation interface {
	// Method returns operation name as exposed to the invokers.
	Method() string

	operation()
}

type (
	// NameOp requests token name.
	NameOp struct{}
	// SymbolOp requests token symbol.
	SymbolOp struct{}
	// DecimalsOp requests token decimals.
	DecimalsOp struct{}
	// TotalSupplyOp requests total supply.
	TotalSupplyOp struct{}
	// BalanceOfOp requests balance of the account.
	BalanceOfOp struct {
		Account []byte
	}
	// TransferOp moves tokens between accounts.
	TransferOp struct {
		From   []byte
		To     []byte
		Amount *big.Int
	}
	// TransferOwnershipOp changes the ledger owner.
	TransferOwnershipOp struct {
		NewOwner []byte
	}
	// GetOwnerOp requests the ledger owner.
	GetOwnerOp struct{}
	// DeployOp initializes the ledger.
	DeployOp struct{}
	// IsDeployedOp checks whether the ledger is initialized.
	IsDeployedOp struct{}
	// UpgradeOp replaces ledger code.
	UpgradeOp struct {
		Params UpgradeParams
	}
)

func (NameOp) Method() string              { return "name" }
func (SymbolOp) Method() string            { return "symbol" }
func (DecimalsOp) Method() string          { return "decimals" }
func (TotalSupplyOp) Method() string       { return "totalSupply" }
func (BalanceOfOp) Method() string         { return "balanceOf" }
func (TransferOp) Method() string          { return "transfer" }
func (TransferOwnershipOp) Method() string { return "transferOwnership" }
func (GetOwnerOp) Method() string          { return "getOwner" }
func (DeployOp) Method() string            { return "deploy" }
func (IsDeployedOp) Method() string        { return "isDeployed" }
func (UpgradeOp) Method() string           { return "upgrade" }

func (NameOp) operation()              {}
func (SymbolOp) operation()            {}
func (DecimalsOp) operation()          {}
func (TotalSupplyOp) operation()       {}
func (BalanceOfOp) operation()         {}
func (TransferOp) operation()          {}
func (TransferOwnershipOp) operation() {}
func (GetOwnerOp) operation()          {}
func (DeployOp) operation()            {}
func (IsDeployedOp) operation()        {}
func (UpgradeOp) operation()           {}

// argParser coerces positional arguments remembering the first failure.
type argParser struct {
	args []stackitem.Item
	err  error
}

func (p *argParser) item(i int) stackitem.Item {
	if p.err != nil {
		return nil
	}
	if p.args[i] == nil {
		p.err = fmt.Errorf("argument #%d is missing", i)
	}
	return p.args[i]
}

func (p *argParser) bytes(i int) []byte {
	it := p.item(i)
	if p.err != nil {
		return nil
	}
	b, err := it.TryBytes()
	if err != nil {
		p.err = fmt.Errorf("argument #%d: %w", i, err)
	}
	return b
}

func (p *argParser) integer(i int) *big.Int {
	it := p.item(i)
	if p.err != nil {
		return nil
	}
	n, err := it.TryInteger()
	if err != nil {
		p.err = fmt.Errorf("argument #%d: %w", i, err)
	}
	return n
}

func (p *argParser) byteValue(i int) byte {
	n := p.integer(i)
	if p.err != nil {
		return 0
	}
	if n.Sign() < 0 || !n.IsInt64() || n.Int64() > math.MaxUint8 {
		p.err = fmt.Errorf("argument #%d: %s is out of byte range", i, n)
		return 0
	}
	return byte(n.Int64())
}

func (p *argParser) string(i int) string {
	b := p.bytes(i)
	if p.err != nil {
		return ""
	}
	if !utf8.Valid(b) {
		p.err = fmt.Errorf("argument #%d is not a valid UTF-8 string", i)
		return ""
	}
	return string(b)
}

var argCounts = map[string]int{
	"name":              0,
	"symbol":            0,
	"decimals":          0,
	"totalSupply":       0,
	"balanceOf":         1,
	"transfer":          3,
	"transferOwnership": 1,
	"getOwner":          0,
	"deploy":            0,
	"isDeployed":        0,
	"upgrade":           9,
}

// ParseOperation resolves named operation with positional arguments. It
// returns ErrUnknownOperation for methods outside of the token interface and
// ErrInvalidArguments if the arguments can't be used for the method: their
// number differs from the expected one or they can't be converted to the
// parameter types.
func ParseOperation(method string, args []stackitem.Item) (Operation, error) {
	n, ok := argCounts[method]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, method)
	}

	if len(args) != n {
		return nil, fmt.Errorf("%w: %s expects %d arguments, got %d", ErrInvalidArguments, method, n, len(args))
	}

	p := &argParser{args: args}

	var op Operation

	switch method {
	case "name":
		op = NameOp{}
	case "symbol":
		op = SymbolOp{}
	case "decimals":
		op = DecimalsOp{}
	case "totalSupply":
		op = TotalSupplyOp{}
	case "balanceOf":
		op = BalanceOfOp{Account: p.bytes(0)}
	case "transfer":
		op = TransferOp{
			From:   p.bytes(0),
			To:     p.bytes(1),
			Amount: p.integer(2),
		}
	case "transferOwnership":
		op = TransferOwnershipOp{NewOwner: p.bytes(0)}
	case "getOwner":
		op = GetOwnerOp{}
	case "deploy":
		op = DeployOp{}
	case "isDeployed":
		op = IsDeployedOp{}
	case "upgrade":
		op = UpgradeOp{Params: UpgradeParams{
			Script:        p.bytes(0),
			ParameterList: p.bytes(1),
			ReturnType:    p.byteValue(2),
			Properties:    PropertyState(p.byteValue(3)),
			Name:          p.string(4),
			Version:       p.string(5),
			Author:        p.string(6),
			Email:         p.string(7),
			Description:   p.string(8),
		}}
	}

	if p.err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidArguments, method, p.err)
	}

	return op, nil
}

// Execute runs resolved operation and returns its result.
func (t *Token) Execute(st Store, inv Invocation, op Operation) stackitem.Item {
	switch o := op.(type) {
	case NameOp:
		return stackitem.NewByteArray([]byte(t.Name()))
	case SymbolOp:
		return stackitem.NewByteArray([]byte(t.Symbol()))
	case DecimalsOp:
		return stackitem.NewBigInteger(big.NewInt(int64(t.Decimals())))
	case TotalSupplyOp:
		return stackitem.NewBigInteger(t.TotalSupply(st))
	case BalanceOfOp:
		return stackitem.NewBigInteger(t.BalanceOf(st, o.Account))
	case TransferOp:
		return stackitem.NewBool(t.Transfer(st, inv, o.From, o.To, o.Amount))
	case TransferOwnershipOp:
		return stackitem.NewBool(t.TransferOwnership(st, inv, o.NewOwner))
	case GetOwnerOp:
		owner := t.Owner(st)
		if owner == nil {
			owner = []byte{}
		}
		return stackitem.NewByteArray(owner)
	case DeployOp:
		return stackitem.NewBool(t.Deploy(st, inv))
	case IsDeployedOp:
		return stackitem.NewBool(t.IsDeployed(st))
	case UpgradeOp:
		return stackitem.NewBool(t.Upgrade(st, inv, o.Params))
	default:
		return stackitem.NewBool(false)
	}
}

// Invoke handles named operation call with the given trigger.
//
// Application trigger runs the operation. Verification trigger checks the
// witness of the ledger owner regardless of the method, so the ledger account
// is controlled by its owner. Other triggers result in false.
//
// Errors are returned for unknown methods and malformed arguments only, the
// whole invocation must fail then.
func (t *Token) Invoke(st Store, inv Invocation, trig trigger.Type, method string, args []stackitem.Item) (stackitem.Item, error) {
	switch trig {
	case trigger.Verification:
		owner, err := t.owner(st)
		if err != nil {
			t.fail("verify", err)
			return stackitem.NewBool(false), nil
		}
		return stackitem.NewBool(inv.CheckWitness(owner)), nil
	case trigger.Application:
		op, err := ParseOperation(method, args)
		if err != nil {
			return nil, err
		}
		return t.Execute(st, inv, op), nil
	default:
		return stackitem.NewBool(false), nil
	}
}
