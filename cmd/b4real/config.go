package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/nspcc-dev/b4real-contract/contracts"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"gopkg.in/yaml.v3"
)

// passwordEnv is the environment variable holding the wallet password. It can
// be set in the .env file of the working directory.
const passwordEnv = "B4REAL_WALLET_PASSWORD"

// config is the YAML configuration of the tool. Command line flags override
// its values.
type config struct {
	RPC struct {
		Endpoint       string        `yaml:"endpoint"`
		DialTimeout    time.Duration `yaml:"dial_timeout"`
		RequestTimeout time.Duration `yaml:"request_timeout"`
	} `yaml:"rpc"`

	Wallet struct {
		Path    string `yaml:"path"`
		Account string `yaml:"account"`
	} `yaml:"wallet"`

	Contract struct {
		Dir        string `yaml:"dir"`
		Hash       string `yaml:"hash"`
		TaxAddress string `yaml:"tax_address"`
	} `yaml:"contract"`

	Deploy struct {
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"deploy"`

	Dump struct {
		Dir   string `yaml:"dir"`
		Label string `yaml:"label"`
	} `yaml:"dump"`

	Logger struct {
		Level string `yaml:"level"`
	} `yaml:"logger"`
}

func defaultConfig() config {
	var c config

	c.RPC.DialTimeout = 15 * time.Second
	c.RPC.RequestTimeout = 15 * time.Second
	c.Contract.Dir = contracts.DefaultDir
	c.Deploy.Timeout = 5 * time.Minute
	c.Dump.Dir = "testdata"
	c.Logger.Level = "info"

	return c
}

// loadConfig reads configuration file over the default values. Empty path
// means defaults only.
func loadConfig(path string) (config, error) {
	c := defaultConfig()
	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("read config file: %w", err)
	}

	err = yaml.Unmarshal(data, &c)
	if err != nil {
		return c, fmt.Errorf("decode config file %s: %w", path, err)
	}

	return c, nil
}

// walletPassword returns the password from the environment, .env file values
// are loaded first if the file exists.
func walletPassword(envFile string) (string, error) {
	err := godotenv.Load(envFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("load %s: %w", envFile, err)
	}

	pass, ok := os.LookupEnv(passwordEnv)
	if !ok {
		return "", fmt.Errorf("wallet password is not set, use %s environment variable", passwordEnv)
	}

	return pass, nil
}

// parseUint160 accepts Neo address or hex-encoded LE script hash with
// optional 0x prefix.
func parseUint160(s string) (util.Uint160, error) {
	if u, err := address.StringToUint160(s); err == nil {
		return u, nil
	}

	u, err := util.Uint160DecodeStringLE(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return u, fmt.Errorf("%q is neither address nor script hash", s)
	}

	return u, nil
}
