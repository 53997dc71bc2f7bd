package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"
	"go.uber.org/zap"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "b4real"
	app.Usage = "B4REAL token contract tool"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "config, c", Usage: "YAML configuration file"},
		cli.StringFlag{Name: "rpc, r", Usage: "Neo RPC server endpoint"},
		cli.StringFlag{Name: "log-level", Usage: "logging level (debug, info, warn, error)"},
	}
	app.Commands = []cli.Command{
		{
			Name:  "deploy",
			Usage: "deploy the contract from wallet account",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "wallet, w", Usage: "NEP-6 wallet file"},
				cli.StringFlag{Name: "account, a", Usage: "wallet account address (the first one by default)"},
				cli.StringFlag{Name: "contract-dir", Usage: "directory with contract.nef and manifest.json"},
				cli.StringFlag{Name: "tax-address", Usage: "tax recipient overriding the default one"},
				cli.StringFlag{Name: "env-file", Value: ".env", Usage: "file with " + passwordEnv},
			},
			Action: deployAction,
		},
		{
			Name:  "dump",
			Usage: "dump state and storage of the deployed contract",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "contract", Usage: "contract address or script hash"},
				cli.StringFlag{Name: "dir", Usage: "dump directory"},
				cli.StringFlag{Name: "label", Usage: "label of the blockchain environment (e.g. 'testnet')"},
			},
			Action: dumpAction,
		},
		{
			Name:      "verify",
			Usage:     "check ledger invariants of the deployed contract or of the dump",
			ArgsUsage: "[<label>-<block>]",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "contract", Usage: "contract address or script hash"},
				cli.StringFlag{Name: "dir", Usage: "dump directory, used when dump ID is given"},
			},
			Action: verifyAction,
		},
		{
			Name:      "fee",
			Usage:     "calculate transfer tax",
			ArgsUsage: "<amount> <rate> <decimals>",
			Description: `Calculates amount*rate/(100*10^decimals) with the deployed contract
   if --contract is given, locally otherwise.`,
			Flags: []cli.Flag{
				cli.StringFlag{Name: "contract", Usage: "contract address or script hash"},
			},
			Action: feeAction,
		},
	}

	return app
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	c := zap.NewProductionConfig()
	c.Level = lvl
	c.Encoding = "console"
	c.Sampling = nil

	return c.Build()
}
