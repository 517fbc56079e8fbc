package messages

// CLI messages for user-facing commands and prompts.
const (
	// RootUse is the CLI command name.
	RootUse         = "dnf-beadm"
	RootShort       = "Upgrade the system inside a new boot environment"
	RootLong        = "dnf-beadm clones the active boot environment, upgrades packages inside the clone and leaves the running system untouched until the clone is activated."
	RootVersionFlag = "Print version and exit"

	RootFlagConfig    = "Config file (default $XDG_CONFIG_HOME/dnf-beadm/config.toml, then /etc/dnf-beadm/config.toml)"
	RootFlagVerbose   = "Increase log verbosity (repeatable)"
	RootFlagAssumeYes = "Answer yes to all questions"
	RootFlagAssumeNo  = "Answer no to all questions"

	// VersionCommitFmt formats the commit hash for version display.
	VersionCommitFmt = "commit %s"
	VersionBuildFmt  = "built %s"
	VersionFullFmt   = "%s (%s)"
	VersionTemplate  = "{{.Version}}\n"

	SysupgUse             = "sysupg"
	SysupgShort           = "Upgrade to a new release in a new boot environment"
	SysupgFlagReleaseVer  = "Release to upgrade to"
	SysupgFlagNoDowngrade = "Keep installed packages if the new release's version is older"

	UpdateUse   = "update [PACKAGE...]"
	UpdateShort = "Update packages in a timestamped clone of the active boot environment"

	FlagBEName   = "Name of the boot environment to create or reuse"
	FlagSourceBE = "Boot environment to clone instead of the active one"

	ListUse         = "list"
	ListShort       = "List boot environments"
	ListNameHeader  = "NAME"
	ListFlagsHeader = "FLAGS"
	ListEmpty       = "No boot environments found."

	ActivateUse   = "activate BE"
	ActivateShort = "Activate a boot environment for the next reboot"
	ActivatedFmt  = "BE '%s' will be active on next reboot\n"

	UmountUse    = "umount BE"
	UmountShort  = "Unmount a boot environment left mounted by a failed run"
	UnmountedFmt = "BE '%s' unmounted\n"

	PromptYesDefaultFmt   = "%s [Y/n]: "
	PromptNoDefaultFmt    = "%s [y/N]: "
	PromptAssumedFmt      = "%s? %s (assumed)\n"
	PromptRetryYesNo      = "Please answer y or n."
	PromptInvalidResponse = "invalid response %q"
	PromptYes             = "Yes"
	PromptNo              = "No"
)
