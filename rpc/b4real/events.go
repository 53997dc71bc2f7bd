package b4real

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// TransferEvent represents "Transfer" event emitted by the contract. Taxed
// transfer emits two of them, the second one credits the tax address.
type TransferEvent struct {
	From   util.Uint160
	To     util.Uint160
	Amount *big.Int
}

// ApprovalEvent represents "Approval" event emitted by the contract.
type ApprovalEvent struct {
	Owner   util.Uint160
	Spender util.Uint160
	Amount  *big.Int
}

// RoleGrantedEvent represents "RoleGranted" event emitted by the contract.
type RoleGrantedEvent struct {
	Role    *big.Int
	Account util.Uint160
}

// RoleRevokedEvent represents "RoleRevoked" event emitted by the contract.
type RoleRevokedEvent struct {
	Role    *big.Int
	Account util.Uint160
}

// TaxFeeChangedEvent represents "TaxFeeChanged" event emitted by the contract.
type TaxFeeChangedEvent struct {
	TaxFee         *big.Int
	TaxFeeDecimals *big.Int
}

// TaxAddressChangedEvent represents "TaxAddressChanged" event emitted by the contract.
type TaxAddressChangedEvent struct {
	Previous util.Uint160
	Current  util.Uint160
}

// TransactionFeesToggledEvent represents "TransactionFeesToggled" event emitted by the contract.
type TransactionFeesToggledEvent struct {
	WaiveFees bool
}

// WhitelistChangedEvent represents "WhitelistChanged" event emitted by the contract.
type WhitelistChangedEvent struct {
	Account     util.Uint160
	Whitelisted bool
}

type event interface {
	FromStackItem(item *stackitem.Array) error
}

// eventsFromApplicationLog retrieves all events with the given name.
func eventsFromApplicationLog[T any, PT interface {
	*T
	event
}](log *result.ApplicationLog, name string) ([]*T, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*T
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != name {
				continue
			}
			ev := PT(new(T))
			err := ev.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize %sEvent from stackitem (execution #%d, event #%d): %w", name, i, j, err)
			}
			res = append(res, (*T)(ev))
		}
	}

	return res, nil
}

// TransferEventsFromApplicationLog retrieves a set of all emitted events
// with "Transfer" name from the provided [result.ApplicationLog].
func TransferEventsFromApplicationLog(log *result.ApplicationLog) ([]*TransferEvent, error) {
	return eventsFromApplicationLog[TransferEvent](log, "Transfer")
}

// ApprovalEventsFromApplicationLog retrieves a set of all emitted events
// with "Approval" name from the provided [result.ApplicationLog].
func ApprovalEventsFromApplicationLog(log *result.ApplicationLog) ([]*ApprovalEvent, error) {
	return eventsFromApplicationLog[ApprovalEvent](log, "Approval")
}

// RoleGrantedEventsFromApplicationLog retrieves a set of all emitted events
// with "RoleGranted" name from the provided [result.ApplicationLog].
func RoleGrantedEventsFromApplicationLog(log *result.ApplicationLog) ([]*RoleGrantedEvent, error) {
	return eventsFromApplicationLog[RoleGrantedEvent](log, "RoleGranted")
}

// RoleRevokedEventsFromApplicationLog retrieves a set of all emitted events
// with "RoleRevoked" name from the provided [result.ApplicationLog].
func RoleRevokedEventsFromApplicationLog(log *result.ApplicationLog) ([]*RoleRevokedEvent, error) {
	return eventsFromApplicationLog[RoleRevokedEvent](log, "RoleRevoked")
}

// TaxFeeChangedEventsFromApplicationLog retrieves a set of all emitted events
// with "TaxFeeChanged" name from the provided [result.ApplicationLog].
func TaxFeeChangedEventsFromApplicationLog(log *result.ApplicationLog) ([]*TaxFeeChangedEvent, error) {
	return eventsFromApplicationLog[TaxFeeChangedEvent](log, "TaxFeeChanged")
}

// TaxAddressChangedEventsFromApplicationLog retrieves a set of all emitted events
// with "TaxAddressChanged" name from the provided [result.ApplicationLog].
func TaxAddressChangedEventsFromApplicationLog(log *result.ApplicationLog) ([]*TaxAddressChangedEvent, error) {
	return eventsFromApplicationLog[TaxAddressChangedEvent](log, "TaxAddressChanged")
}

// TransactionFeesToggledEventsFromApplicationLog retrieves a set of all emitted events
// with "TransactionFeesToggled" name from the provided [result.ApplicationLog].
func TransactionFeesToggledEventsFromApplicationLog(log *result.ApplicationLog) ([]*TransactionFeesToggledEvent, error) {
	return eventsFromApplicationLog[TransactionFeesToggledEvent](log, "TransactionFeesToggled")
}

// WhitelistChangedEventsFromApplicationLog retrieves a set of all emitted events
// with "WhitelistChanged" name from the provided [result.ApplicationLog].
func WhitelistChangedEventsFromApplicationLog(log *result.ApplicationLog) ([]*WhitelistChangedEvent, error) {
	return eventsFromApplicationLog[WhitelistChangedEvent](log, "WhitelistChanged")
}

// FromStackItem converts provided [stackitem.Array] to TransferEvent or
// returns an error if it's not possible to do to so. Null sender of the
// genesis transfer is decoded as zero Uint160.
func (e *TransferEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 3)
	if err != nil {
		return err
	}

	if _, ok := arr[0].(stackitem.Null); !ok {
		e.From, err = itemToUint160(arr[0])
		if err != nil {
			return fmt.Errorf("field From: %w", err)
		}
	}

	e.To, err = itemToUint160(arr[1])
	if err != nil {
		return fmt.Errorf("field To: %w", err)
	}

	e.Amount, err = arr[2].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	return nil
}

// FromStackItem converts provided [stackitem.Array] to ApprovalEvent or
// returns an error if it's not possible to do to so.
func (e *ApprovalEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 3)
	if err != nil {
		return err
	}

	e.Owner, err = itemToUint160(arr[0])
	if err != nil {
		return fmt.Errorf("field Owner: %w", err)
	}

	e.Spender, err = itemToUint160(arr[1])
	if err != nil {
		return fmt.Errorf("field Spender: %w", err)
	}

	e.Amount, err = arr[2].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	return nil
}

// FromStackItem converts provided [stackitem.Array] to RoleGrantedEvent or
// returns an error if it's not possible to do to so.
func (e *RoleGrantedEvent) FromStackItem(item *stackitem.Array) error {
	var err error
	e.Role, e.Account, err = roleEventFields(item)
	return err
}

// FromStackItem converts provided [stackitem.Array] to RoleRevokedEvent or
// returns an error if it's not possible to do to so.
func (e *RoleRevokedEvent) FromStackItem(item *stackitem.Array) error {
	var err error
	e.Role, e.Account, err = roleEventFields(item)
	return err
}

// FromStackItem converts provided [stackitem.Array] to TaxFeeChangedEvent or
// returns an error if it's not possible to do to so.
func (e *TaxFeeChangedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 2)
	if err != nil {
		return err
	}

	e.TaxFee, err = arr[0].TryInteger()
	if err != nil {
		return fmt.Errorf("field TaxFee: %w", err)
	}

	e.TaxFeeDecimals, err = arr[1].TryInteger()
	if err != nil {
		return fmt.Errorf("field TaxFeeDecimals: %w", err)
	}

	return nil
}

// FromStackItem converts provided [stackitem.Array] to TaxAddressChangedEvent or
// returns an error if it's not possible to do to so.
func (e *TaxAddressChangedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 2)
	if err != nil {
		return err
	}

	e.Previous, err = itemToUint160(arr[0])
	if err != nil {
		return fmt.Errorf("field Previous: %w", err)
	}

	e.Current, err = itemToUint160(arr[1])
	if err != nil {
		return fmt.Errorf("field Current: %w", err)
	}

	return nil
}

// FromStackItem converts provided [stackitem.Array] to TransactionFeesToggledEvent or
// returns an error if it's not possible to do to so.
func (e *TransactionFeesToggledEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 1)
	if err != nil {
		return err
	}

	e.WaiveFees, err = arr[0].TryBool()
	if err != nil {
		return fmt.Errorf("field WaiveFees: %w", err)
	}

	return nil
}

// FromStackItem converts provided [stackitem.Array] to WhitelistChangedEvent or
// returns an error if it's not possible to do to so.
func (e *WhitelistChangedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 2)
	if err != nil {
		return err
	}

	e.Account, err = itemToUint160(arr[0])
	if err != nil {
		return fmt.Errorf("field Account: %w", err)
	}

	e.Whitelisted, err = arr[1].TryBool()
	if err != nil {
		return fmt.Errorf("field Whitelisted: %w", err)
	}

	return nil
}

func eventFields(item *stackitem.Array, n int) ([]stackitem.Item, error) {
	if item == nil {
		return nil, errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return nil, errors.New("not an array")
	}
	if len(arr) != n {
		return nil, errors.New("wrong number of structure elements")
	}

	return arr, nil
}

func roleEventFields(item *stackitem.Array) (*big.Int, util.Uint160, error) {
	arr, err := eventFields(item, 2)
	if err != nil {
		return nil, util.Uint160{}, err
	}

	role, err := arr[0].TryInteger()
	if err != nil {
		return nil, util.Uint160{}, fmt.Errorf("field Role: %w", err)
	}

	account, err := itemToUint160(arr[1])
	if err != nil {
		return nil, util.Uint160{}, fmt.Errorf("field Account: %w", err)
	}

	return role, account, nil
}
