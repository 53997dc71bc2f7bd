package common

import "github.com/nspcc-dev/neo-go/pkg/interop/native/std"

// Contract version is encoded as major*1_000_000 + minor*1_000 + patch.
const (
	major = 0
	minor = 1
	patch = 0

	// The oldest deployed version the current code can be updated from. Data
	// written by it must be readable by the current code as is.
	prevMajor = 0
	prevMinor = 1
	prevPatch = 0

	Version     = major*1_000_000 + minor*1_000 + patch
	PrevVersion = prevMajor*1_000_000 + prevMinor*1_000 + prevPatch

	// ErrVersionMismatch is thrown by CheckVersion when the deployed version is
	// older than PrevVersion.
	ErrVersionMismatch = "previous version mismatch"

	// ErrAlreadyUpdated is thrown by CheckVersion when the deployed version
	// equals to Version.
	ErrAlreadyUpdated = "contract is already of the latest version"
)

// CheckVersion panics unless the contract of the given deployed version can be
// updated to Version.
func CheckVersion(from int) {
	if from < PrevVersion {
		panic(ErrVersionMismatch + ": expected >=" + std.Itoa(PrevVersion, 10))
	}
	if from == Version {
		panic(ErrAlreadyUpdated + ": " + std.Itoa(Version, 10))
	}
}

// AppendVersion appends Version to the update arguments, so that _deploy of
// the new code receives the version it is updated from.
func AppendVersion(data any) []any {
	if data == nil {
		return []any{Version}
	}
	return append(data.([]any), Version)
}
