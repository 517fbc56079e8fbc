package messages

// Config messages for configuration loading and validation.
const (
	// ConfigMissingFileFmt formats unreadable config file errors.
	ConfigMissingFileFmt      = "read config file %s: %w"
	ConfigInvalidFmt          = "invalid config %s: %w"
	ConfigUnrecognizedKeysFmt = "%s: unrecognized config keys: %w"
	ConfigExpandPathFmt       = "expand config path %s: %w"
	ConfigStatFmt             = "check config file %s: %w"
	ConfigInvalidDurationFmt  = "invalid duration %q: %w"

	ConfigToolRequiredFmt        = "%s: %s must name an executable"
	ConfigPositiveDurationFmt    = "%s: %s must be greater than zero"
	ConfigNonNegativeDurationFmt = "%s: %s must not be negative"
	ConfigAbsolutePathFmt        = "%s: %s must be an absolute path (got %q)"
	ConfigLogLevelInvalidFmt     = "%s: log.level %q must be one of trace, debug, info, warn, error"
)
