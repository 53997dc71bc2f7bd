package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
)

// CheckWitnessWithMessage checks witness of the passed caller and panics
// with the given message on fail.
func CheckWitnessWithMessage(caller []byte, msg string) {
	if !runtime.CheckWitness(caller) {
		panic(msg)
	}
}

// IsUsableAddress checks if the account is either witnessed by the
// transaction or is the contract calling the current one.
func IsUsableAddress(addr interop.Hash160) bool {
	if len(addr) == interop.Hash160Len {
		if runtime.CheckWitness(addr) {
			return true
		}

		// Check if a smart contract is calling script hash
		callingScriptHash := runtime.GetCallingScriptHash()
		if callingScriptHash.Equals(addr) {
			return true
		}
	}

	return false
}
