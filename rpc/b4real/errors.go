package b4real

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nspcc-dev/b4real-contract/contracts/b4real/b4realconst"
)

// Errors returned by state-changing methods and CalculateFee when the
// contract FAULTs with the corresponding exception. Use errors.Is to check
// them, the original error is wrapped too.
var (
	ErrPermission            = errors.New("permission denied")
	ErrInvalidParameter      = errors.New("invalid parameter")
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrInsufficientAllowance = errors.New("insufficient allowance")
	ErrArithmetic            = errors.New("arithmetic error")
)

var exceptions = []struct {
	msg string
	err error
}{
	{b4realconst.ErrNoAdminPermission, ErrPermission},
	{b4realconst.ErrFeeTooHigh, ErrInvalidParameter},
	{b4realconst.ErrSameTaxAddress, ErrInvalidParameter},
	{b4realconst.ErrInvalidAddress, ErrInvalidParameter},
	{b4realconst.ErrNegativeValue, ErrInvalidParameter},
	{b4realconst.ErrInsufficientBalance, ErrInsufficientBalance},
	{b4realconst.ErrInsufficientAllowance, ErrInsufficientAllowance},
	{b4realconst.ErrArithmeticOverflow, ErrArithmetic},
}

// ClassifyError wraps the error with one of the package errors if it carries
// a known contract exception. Other errors are returned as is.
func ClassifyError(err error) error {
	if err == nil {
		return nil
	}

	msg := err.Error()
	for _, e := range exceptions {
		if strings.Contains(msg, e.msg) {
			return fmt.Errorf("%w: %w", e.err, err)
		}
	}

	return err
}
