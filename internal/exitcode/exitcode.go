// Package exitcode defines exit codes for the CLI.
package exitcode

// Exit codes returned by gtasksync.
const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, not found, ambiguous).
	UserError = 1

	// AuthError indicates an auth/config error.
	AuthError = 2

	// StoreError indicates the local database could not be opened or written.
	StoreError = 3

	// SyncError indicates a sync run that aborted on a transport or
	// unexpected failure. Changes committed before the failure are kept.
	SyncError = 4
)
