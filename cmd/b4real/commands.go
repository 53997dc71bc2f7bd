package main

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"os"

	"github.com/nspcc-dev/b4real-contract/contracts"
	"github.com/nspcc-dev/b4real-contract/deploy"
	"github.com/nspcc-dev/b4real-contract/internal/ledgerstate"
	"github.com/nspcc-dev/b4real-contract/rpc/b4real"
	"github.com/nspcc-dev/b4real-contract/tests/dump"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

var errMissingRPC = errors.New("missing Neo RPC endpoint")

// setup loads configuration applying global flags and creates the logger.
func setup(c *cli.Context) (config, *zap.Logger, error) {
	cfg, err := loadConfig(c.GlobalString("config"))
	if err != nil {
		return cfg, nil, err
	}

	override(&cfg.RPC.Endpoint, c.GlobalString("rpc"))
	override(&cfg.Logger.Level, c.GlobalString("log-level"))

	log, err := newLogger(cfg.Logger.Level)
	if err != nil {
		return cfg, nil, err
	}

	return cfg, log, nil
}

func override(dst *string, flagValue string) {
	if flagValue != "" {
		*dst = flagValue
	}
}

func dial(ctx context.Context, cfg config) (*remoteBlockchain, error) {
	if cfg.RPC.Endpoint == "" {
		return nil, errMissingRPC
	}

	b, err := newRemoteBlockChain(ctx, cfg.RPC.Endpoint, cfg.RPC.DialTimeout, cfg.RPC.RequestTimeout)
	if err != nil {
		return nil, fmt.Errorf("init remote blockchain: %w", err)
	}

	return b, nil
}

func contractHash(cfg config) (util.Uint160, error) {
	if cfg.Contract.Hash == "" {
		return util.Uint160{}, errors.New("missing contract address")
	}

	return parseUint160(cfg.Contract.Hash)
}

func deployAction(c *cli.Context) error {
	cfg, log, err := setup(c)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	override(&cfg.Wallet.Path, c.String("wallet"))
	override(&cfg.Wallet.Account, c.String("account"))
	override(&cfg.Contract.Dir, c.String("contract-dir"))
	override(&cfg.Contract.TaxAddress, c.String("tax-address"))

	if cfg.Wallet.Path == "" {
		return errors.New("missing wallet")
	}

	ctr, err := contracts.Read(cfg.Contract.Dir)
	if err != nil {
		return err
	}

	acc, err := openAccount(cfg.Wallet.Path, cfg.Wallet.Account, c.String("env-file"))
	if err != nil {
		return err
	}

	var taxAddress *util.Uint160
	if cfg.Contract.TaxAddress != "" {
		u, err := parseUint160(cfg.Contract.TaxAddress)
		if err != nil {
			return fmt.Errorf("tax address: %w", err)
		}
		taxAddress = &u
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Deploy.Timeout)
	defer cancel()

	b, err := dial(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.close()

	addr, err := deploy.Deploy(ctx, deploy.Prm{
		Logger:       log,
		Blockchain:   b.rpc,
		LocalAccount: acc,
		Contract:     ctr,
		TaxAddress:   taxAddress,
	})
	if err != nil {
		return fmt.Errorf("deploy contract: %w", err)
	}

	fmt.Fprintln(c.App.Writer, addr.StringLE())

	return nil
}

func openAccount(walletPath, accAddress, envFile string) (*wallet.Account, error) {
	w, err := wallet.NewWalletFromFile(walletPath)
	if err != nil {
		return nil, fmt.Errorf("open wallet: %w", err)
	}

	var acc *wallet.Account
	if accAddress == "" {
		if len(w.Accounts) == 0 {
			return nil, errors.New("wallet has no accounts")
		}
		acc = w.Accounts[0]
	} else {
		h, err := parseUint160(accAddress)
		if err != nil {
			return nil, fmt.Errorf("account: %w", err)
		}

		acc = w.GetAccount(h)
		if acc == nil {
			return nil, fmt.Errorf("account %s is missing in the wallet", accAddress)
		}
	}

	pass, err := walletPassword(envFile)
	if err != nil {
		return nil, err
	}

	err = acc.Decrypt(pass, w.Scrypt)
	if err != nil {
		return nil, fmt.Errorf("decrypt account %s: %w", acc.Address, err)
	}

	return acc, nil
}

func dumpAction(c *cli.Context) error {
	cfg, log, err := setup(c)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	override(&cfg.Contract.Hash, c.String("contract"))
	override(&cfg.Dump.Dir, c.String("dir"))
	override(&cfg.Dump.Label, c.String("label"))

	if cfg.Dump.Label == "" {
		return errors.New("missing blockchain label")
	}

	h, err := contractHash(cfg)
	if err != nil {
		return err
	}

	b, err := dial(context.Background(), cfg)
	if err != nil {
		return err
	}
	defer b.close()

	st, err := b.rpc.GetContractStateByHash(h)
	if err != nil {
		return fmt.Errorf("get contract state: %w", err)
	}

	err = os.MkdirAll(cfg.Dump.Dir, 0700)
	if err != nil {
		return fmt.Errorf("create dump dir: %w", err)
	}

	id := dump.ID{Label: cfg.Dump.Label, Block: b.currentBlock - 1}

	d, err := dump.NewCreator(cfg.Dump.Dir, id)
	if err != nil {
		return fmt.Errorf("init local dumper: %w", err)
	}
	defer d.Close()

	d.SetContract(*st)

	err = b.iterateContractStorage(h, d.Write)
	if err != nil {
		return fmt.Errorf("iterate contract storage: %w", err)
	}

	err = d.Flush()
	if err != nil {
		return fmt.Errorf("flush dump: %w", err)
	}

	log.Info("contract successfully dumped", zap.Stringer("id", id), zap.String("dir", cfg.Dump.Dir))

	return nil
}

func verifyAction(c *cli.Context) error {
	cfg, log, err := setup(c)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	override(&cfg.Contract.Hash, c.String("contract"))
	override(&cfg.Dump.Dir, c.String("dir"))

	snap := ledgerstate.New()

	if c.NArg() > 0 {
		id, err := dump.ParseID(c.Args().First())
		if err != nil {
			return fmt.Errorf("dump ID: %w", err)
		}

		r, err := dump.Open(cfg.Dump.Dir, id)
		if err != nil {
			return err
		}

		err = r.IterateStorage(snap.Add)
		if err != nil {
			return fmt.Errorf("decode dump storage: %w", err)
		}
	} else {
		h, err := contractHash(cfg)
		if err != nil {
			return err
		}

		b, err := dial(context.Background(), cfg)
		if err != nil {
			return err
		}
		defer b.close()

		err = b.iterateContractStorage(h, snap.Add)
		if err != nil {
			return fmt.Errorf("decode contract storage: %w", err)
		}
	}

	err = snap.Verify()
	if err != nil {
		return fmt.Errorf("ledger invariants are violated: %w", err)
	}

	log.Info("ledger is consistent",
		zap.Stringer("totalSupply", snap.TotalSupply),
		zap.Int("accounts", len(snap.Balances)),
		zap.Int("allowances", len(snap.Allowances)),
		zap.Int("whitelist", len(snap.Whitelist)))

	return nil
}

func feeAction(c *cli.Context) error {
	cfg, log, err := setup(c)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	override(&cfg.Contract.Hash, c.String("contract"))

	if c.NArg() != 3 {
		return errors.New("expected <amount> <rate> <decimals> arguments")
	}

	var args [3]*big.Int
	for i := range args {
		var ok bool
		args[i], ok = new(big.Int).SetString(c.Args().Get(i), 10)
		if !ok {
			return fmt.Errorf("invalid integer %q", c.Args().Get(i))
		}
	}

	var fee *big.Int

	if cfg.Contract.Hash != "" {
		h, err := contractHash(cfg)
		if err != nil {
			return err
		}

		b, err := dial(context.Background(), cfg)
		if err != nil {
			return err
		}
		defer b.close()

		fee, err = b4real.NewReader(b.invoker(), h).CalculateFee(args[0], args[1], args[2])
		if err != nil {
			return fmt.Errorf("call contract: %w", err)
		}
	} else {
		fee, err = ledgerstate.CalculateFee(args[0], args[1], args[2])
		if err != nil {
			return err
		}
	}

	fmt.Fprintln(c.App.Writer, fee)

	return nil
}
