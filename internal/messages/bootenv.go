package messages

// Boot environment messages.
const (
	BootEnvOperationAborted = "Operation aborted."
	BootEnvMountFailed      = "could not mount boot environment"
	BootEnvEmptyRoot        = "mount returned no mountpoint"
	// BootEnvCreateFailedFmt matches the wording operators already grep logs for.
	BootEnvCreateFailedFmt = "Could not create '%s': %v"
	BootEnvExistsPromptFmt = "BE '%s' exists. Do you want to continue"
	BootEnvCreatingFmt     = "Creating BE '%s'\n"

	// Special mount warnings. The new root is still usable without them.
	BootEnvBindFailedFmt          = "could not bind %s into the new root: %v"
	BootEnvEFIVarsFailedFmt       = "could not mount efivars: %v"
	BootEnvEFILookupFailedFmt     = "could not look up the EFI system partition: %v"
	BootEnvEFIMountFailedFmt      = "could not mount EFI system partition %s: %v"
	BootEnvSELinuxLookupFailedFmt = "could not look up the SELinux filesystem: %v"
	BootEnvSELinuxMountFailedFmt  = "could not mount the SELinux filesystem: %v"
)
