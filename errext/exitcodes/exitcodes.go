// Package exitcodes enumerates the process exit codes the CLI collaborator
// returns, so main can map an arbitrary failure deep in the core to a
// stable, documented number instead of a generic 1.
package exitcodes

// ExitCode is the type of a CLI process exit status.
type ExitCode uint8

const (
	// GenericError covers any failure that doesn't have a more specific code.
	GenericError ExitCode = 1
	// InvalidConfig is returned for bad flags, missing files, or malformed
	// wire input (mirrors the core's −1 sentinel family).
	InvalidConfig ExitCode = 2
	// InvalidQuantileRequest is returned when a requested quantile is
	// unordered or out of [0,1] (mirrors the core's −2/−3 sentinels).
	InvalidQuantileRequest ExitCode = 3
	// Underflow is returned when a subtract operation fails because a
	// bucket was missing or already at zero (mirrors the core's −1 from
	// hist_remove/hist_subtract style failures).
	Underflow ExitCode = 4
)
