/*
Package deploy deploys B4REAL contract to Neo blockchain.
*/
package deploy

import (
	"context"
	"fmt"
	"strings"

	"github.com/nspcc-dev/b4real-contract/contracts"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/management"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"go.uber.org/zap"
)

// Blockchain groups services provided by particular Neo blockchain network
// that are required for B4REAL deployment.
type Blockchain interface {
	// RPCActor groups functions needed to compose and send transactions.
	actor.RPCActor

	// GetContractStateByHash returns network state of the smart contract by its
	// address. It returns error with 'Unknown contract' substring if requested
	// contract is missing.
	GetContractStateByHash(util.Uint160) (*state.Contract, error)

	// RPCPollingWaiter enables awaiting of the sent transactions. Blockchain
	// implementing actor.RPCEventWaiter is awaited through the subscriptions.
	actor.RPCPollingWaiter
}

// Prm groups all parameters of the deployment procedure.
type Prm struct {
	// Writes progress into the log. Optional.
	Logger *zap.Logger

	// Neo blockchain instance to deploy the contract to.
	Blockchain Blockchain

	// Account sending the deployment transaction (must be unlocked). It
	// receives the whole token supply and the owner role.
	LocalAccount *wallet.Account

	// Compiled contract.
	Contract contracts.Contract

	// Optional tax recipient overriding the default one.
	TaxAddress *util.Uint160
}

// Deploy deploys B4REAL contract on behalf of Prm.LocalAccount and returns
// its address. Contract address is determined by the sender, NEF checksum and
// manifest name, so if the contract is already on the chain Deploy returns its
// address without any transactions.
//
// Deploy waits until the transaction is persisted and fails if it is not
// HALTed. Deploy aborts by context.
func Deploy(ctx context.Context, prm Prm) (util.Uint160, error) {
	l := prm.Logger
	if l == nil {
		l = zap.NewNop()
	}

	act, err := actor.NewSimple(prm.Blockchain, prm.LocalAccount)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("init transaction sender from local account: %w", err)
	}

	addr := state.CreateContractHash(act.Sender(), prm.Contract.NEF.Checksum, prm.Contract.Manifest.Name)
	l = l.With(zap.Stringer("address", addr))

	deployed, err := isDeployed(prm.Blockchain, addr)
	if err != nil {
		return util.Uint160{}, err
	}

	if deployed {
		l.Info("B4REAL contract is already deployed, skip")
		return addr, nil
	}

	l.Info("B4REAL contract is missing on the chain, deploying...",
		zap.Stringer("sender", act.Sender()))

	txHash, vub, err := management.New(act).Deploy(&prm.Contract.NEF, &prm.Contract.Manifest, deployData(prm.TaxAddress))
	if err != nil {
		return util.Uint160{}, fmt.Errorf("send deployment transaction: %w", err)
	}

	l.Info("deployment transaction sent, waiting for it to be accepted...",
		zap.Stringer("tx", txHash), zap.Uint32("vub", vub))

	err = awaitTx(ctx, act, txHash, vub)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("wait for deployment transaction %s: %w", txHash.StringLE(), err)
	}

	l.Info("B4REAL contract successfully deployed")

	return addr, nil
}

// awaitTx waits until the transaction is accepted to the chain not later than
// vub and checks its execution.
func awaitTx(ctx context.Context, w actor.Waiter, txHash util.Uint256, vub uint32) error {
	aer, err := w.WaitAny(ctx, vub, txHash)
	if err != nil {
		return err
	}

	return checkExecution(aer)
}

// checkExecution returns an error unless the transaction execution HALTed.
func checkExecution(aer *state.AppExecResult) error {
	if aer.VMState != vmstate.Halt {
		return fmt.Errorf("transaction failed (%s state): %s", aer.VMState, aer.FaultException)
	}

	return nil
}

func isDeployed(b Blockchain, addr util.Uint160) (bool, error) {
	_, err := b.GetContractStateByHash(addr)
	if err == nil {
		return true, nil
	}

	if isErrContractNotFound(err) {
		return false, nil
	}

	return false, fmt.Errorf("get state of the contract by address %s: %w", addr.StringLE(), err)
}

func isErrContractNotFound(err error) bool {
	return strings.Contains(err.Error(), "Unknown contract")
}

// deployData returns `_deploy` data of the contract.
func deployData(taxAddress *util.Uint160) any {
	if taxAddress == nil {
		return nil
	}

	return []any{*taxAddress}
}
