/*
Package dump provides I/O operations for collected states of B4REAL contract.

A dump captures the contract state and its storage at some block of some
network. It allows to check ledger invariants (see internal/ledgerstate) and to
compare ledger states without a live node. Dumps are stored in the file system
using human-readable encoding.
*/
package dump
