package messages

// Upgrade workflow messages.
const (
	UpgradeReleaseVersionInvalid = "invalid release version"
	UpgradeReleaseRequiredFmt    = "%w: --releasever is required for a system upgrade"
	UpgradeReleaseNotNewerFmt    = "%w: need a --releasever greater than the current system version (target %s, current %s)"
	UpgradeReleaseCannotResetFmt = "%w: cannot reset releasever to %s at this stage, the package manager is configured for %s"

	UpgradeUnknownModeFmt    = "unknown mode %q (expected %s or %s)"
	UpgradeNoSourceBE        = "no active boot environment to clone; pass --be or --source-be"
	UpgradeEmptyBEName       = "boot environment name is empty"
	UpgradeBENameResolvedFmt = "boot environment name already resolved to %q, cannot change it to %q"
	UpgradeTempDirFmt        = "create temporary mountpoint: %w"
	UpgradePhaseFailedFmt    = "%s phase: %v"

	UpgradeMountWarningFmt     = "Warning: %s\n"
	UpgradeActivateGuidanceFmt = "Run 'beadm activate %s' to activate new system on next reboot\n"
	UpgradeUnmountFailedFmt    = "Could not unmount. To unmount run 'beadm umount %s'\n"
	UpgradeLeftMountedFmt      = "BE '%s' is left mounted at %s for inspection. To unmount run 'beadm umount %s'\n"
)
