/*
Package b4realconst contains constants shared by the B4REAL contract and its
off-chain tooling.
*/
package b4realconst

const (
	// Symbol is the NEP-17 ticker of the token.
	Symbol = "B4REAL"
	// Decimals is the NEP-17 precision of the token.
	Decimals = 18
	// InitialSupply is the amount of whole tokens minted to the deployer. The
	// contract scales it by 10^Decimals.
	InitialSupply = 50_000_000

	// DefaultTaxFee and DefaultTaxFeeDecimals form the 10% tax set on deployment.
	DefaultTaxFee         = 10
	DefaultTaxFeeDecimals = 0

	// DefaultTaxAddress is the raw (big-endian Uint160) tax recipient used when
	// deployment data does not override it.
	DefaultTaxAddress = "\xe3\xf0\x78\xf8\x0a\x53\x0c\xcd\x3b\xbf\x22\x16\x12\xdd\xca\x3b\x07\x24\x57\x9d"

	// MaxFeeDecimals is the largest fee scale exponent whose divisor fits Neo VM
	// integers together with the percent factor.
	MaxFeeDecimals = 74
	// MaxFeePercent is the upper bound of taxFee/10^taxFeeDecimals.
	MaxFeePercent = 100
	// MaxInteger is the largest Neo VM integer (2^255-1) in decimal form.
	MaxInteger = "57896044618658097711785492504343953926634992332820282019728792003956564819967"
)

// OwnerRole is the identifier of the only access role. Exactly one account
// holds it at any time after deployment.
const OwnerRole = 1

// Storage key prefixes.
const (
	AccountPrefix   = 'a'
	AllowancePrefix = 'l'
	RolePrefix      = 'r'
	WhitelistPrefix = 'w'
	ParamsKey       = 'p'
	SupplyKey       = 's'
)

// Exception messages thrown by the contract. Clients match on them.
const (
	ErrNoAdminPermission     = "Address does not have admin permission"
	ErrFeeTooHigh            = "The B4REAL Tax fee must be less than 100"
	ErrSameTaxAddress        = "New address cannot be the same"
	ErrInsufficientBalance   = "insufficient balance"
	ErrInsufficientAllowance = "insufficient allowance"
	ErrArithmeticOverflow    = "arithmetic overflow"
	ErrInvalidAddress        = "invalid address"
	ErrNegativeValue         = "negative value"
)
