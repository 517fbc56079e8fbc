package messages

// System messages for external tools, locks and the package engine.
const (
	// CommandFailedFmt formats a failed external command with its invocation.
	CommandFailedFmt  = "run %s: %v"
	CommandTimeoutFmt = "timed out after %s: %w"

	MountTableDecodeFmt = "decode findmnt output: %w"
	DistroEmptyID       = "lsb_release returned an empty distribution ID"

	// LockTimeoutFmt formats a BE lock that stayed held for the whole wait.
	LockTimeoutFmt   = "BE %q is locked by another invocation (waited %s on %s)"
	LockCreateDirFmt = "create lock dir %s: %w"
	LockOpenFmt      = "open lock file %s: %w"
	LockFmt          = "lock %s: %w"

	LogCreateDirFmt = "create log dir %s: %w"
	LogOpenFileFmt  = "open log file %s: %w"

	EngineRootRequired          = "package transactions require root privileges"
	EngineNoReleaseFmt          = "could not detect the release installed in %s"
	EngineInstallRootRequired   = "package transaction has no install root"
	EnginePackagesNotAllowedFmt = "%s does not take a package list"
	EngineUnknownOperationFmt   = "unknown package operation %s"
)
