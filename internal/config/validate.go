package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/t0fik/dnf-plugin-beadm/internal/messages"
)

// Validate ensures the config is complete and consistent.
func (c *Config) Validate(path string) error {
	tools := []struct {
		key   string
		value string
	}{
		{"tools.beadm", c.Tools.Beadm},
		{"tools.mount", c.Tools.Mount},
		{"tools.findmnt", c.Tools.Findmnt},
		{"tools.lsb_release", c.Tools.LsbRelease},
		{"tools.dnf", c.Tools.Dnf},
		{"tools.rpm", c.Tools.Rpm},
	}
	for _, tool := range tools {
		if strings.TrimSpace(tool.value) == "" {
			return fmt.Errorf(messages.ConfigToolRequiredFmt, path, tool.key)
		}
	}

	if c.Timeouts.Command <= 0 {
		return fmt.Errorf(messages.ConfigPositiveDurationFmt, path, "timeouts.command")
	}
	if c.Timeouts.Transaction < 0 {
		return fmt.Errorf(messages.ConfigNonNegativeDurationFmt, path, "timeouts.transaction")
	}
	if c.Lock.Wait <= 0 {
		return fmt.Errorf(messages.ConfigPositiveDurationFmt, path, "lock.wait")
	}
	if c.Update.SettleDelay < 0 {
		return fmt.Errorf(messages.ConfigNonNegativeDurationFmt, path, "update.settle_delay")
	}

	if !filepath.IsAbs(c.Lock.Dir) {
		return fmt.Errorf(messages.ConfigAbsolutePathFmt, path, "lock.dir", c.Lock.Dir)
	}
	if !filepath.IsAbs(c.Mount.EFITarget) {
		return fmt.Errorf(messages.ConfigAbsolutePathFmt, path, "mount.efi_target", c.Mount.EFITarget)
	}

	if c.Log.Level != "" {
		if _, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level)); err != nil {
			return fmt.Errorf(messages.ConfigLogLevelInvalidFmt, path, c.Log.Level)
		}
	}
	return nil
}
