package messages

// Doctor messages for the host health check.
const (
	DoctorUse         = "doctor"
	DoctorShort       = "Check that this host can run BE-scoped upgrades"
	DoctorHealthCheck = "Checking dnf-beadm on this host"

	DoctorStatusOKLabel   = "[OK]  "
	DoctorStatusWarnLabel = "[WARN]"
	DoctorStatusFailLabel = "[FAIL]"
	DoctorResultLineFmt   = "%s %-10s %s\n"

	DoctorRecommendationPrefix = "       > "

	DoctorCheckNameConfig     = "config"
	DoctorCheckNameTools      = "tools"
	DoctorCheckNamePrivileges = "privileges"
	DoctorCheckNameLock       = "lock"
	DoctorCheckNameBootEnv    = "bootenv"
	DoctorCheckNameEFI        = "efi"

	DoctorConfigLoadedFmt     = "Loaded %s"
	DoctorConfigDefaults      = "No config file found, using built-in defaults"
	DoctorConfigLoadFailedFmt = "Could not load configuration: %v"
	DoctorConfigLoadRecommend = "Fix the configuration file or pass another one with --config."

	DoctorToolFoundFmt      = "%s found at %s"
	DoctorToolMissingFmt    = "%s not found (%s)"
	DoctorToolMissingRecFmt = "Install %s or point [tools] %s at it."

	DoctorRootOK        = "Running as root"
	DoctorNotRootFmt    = "Running as uid %d"
	DoctorNotRootRecomm = "sysupg and update need root; run them with sudo."

	DoctorLockDirOKFmt         = "%s is writable"
	DoctorLockDirMissingFmt    = "%s does not exist yet"
	DoctorLockDirMissingRecomm = "It is created on the first upgrade."
	DoctorLockDirNotDirFmt     = "%s is not a directory"
	DoctorLockDirNotDirRecomm  = "Remove it or set [lock] dir elsewhere."
	DoctorLockDirNotWritableFm = "%s is not writable: %v"
	DoctorLockDirStatFmt       = "Could not inspect %s: %v"

	DoctorActiveBEFmt       = "Active boot environment is '%s'"
	DoctorNoActiveBE        = "No active boot environment reported by beadm"
	DoctorNoActiveBERecomm  = "update needs --source-be when beadm cannot report the active BE."
	DoctorEFIMountedFmt     = "%s mounted from %s"
	DoctorEFIMissingFmt     = "Nothing is mounted at %s"
	DoctorEFIMissingRecomm  = "Kernel updates will not reach the EFI partition unless it is mounted."
	DoctorEFILookupFailedFm = "Could not read the mount table: %v"

	DoctorSuccessSummary = "All checks passed."
	DoctorFailureSummary = "Some checks failed."
	DoctorFailureError   = "doctor found problems"
)
