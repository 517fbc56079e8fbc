// Package config loads the dnf-beadm TOML configuration.
package config

import (
	"fmt"
	"time"

	"github.com/t0fik/dnf-plugin-beadm/internal/beadm"
	"github.com/t0fik/dnf-plugin-beadm/internal/bootenv"
	"github.com/t0fik/dnf-plugin-beadm/internal/command"
	"github.com/t0fik/dnf-plugin-beadm/internal/distro"
	"github.com/t0fik/dnf-plugin-beadm/internal/engine"
	"github.com/t0fik/dnf-plugin-beadm/internal/lock"
	"github.com/t0fik/dnf-plugin-beadm/internal/messages"
	"github.com/t0fik/dnf-plugin-beadm/internal/mounttable"
)

// Config is the full configuration. Zero values are filled from Defaults.
type Config struct {
	Tools    ToolsConfig    `toml:"tools"`
	Timeouts TimeoutsConfig `toml:"timeouts"`
	Lock     LockConfig     `toml:"lock"`
	Mount    MountConfig    `toml:"mount"`
	Update   UpdateConfig   `toml:"update"`
	Run      RunConfig      `toml:"run"`
	Engine   EngineConfig   `toml:"engine"`
	Log      LogConfig      `toml:"log"`
}

// ToolsConfig holds the external binaries. Bare names are looked up in PATH.
type ToolsConfig struct {
	Beadm      string `toml:"beadm"`
	Mount      string `toml:"mount"`
	Findmnt    string `toml:"findmnt"`
	LsbRelease string `toml:"lsb_release"`
	Dnf        string `toml:"dnf"`
	Rpm        string `toml:"rpm"`
}

// TimeoutsConfig bounds external commands. A zero transaction timeout means
// the package transaction may run as long as it needs.
type TimeoutsConfig struct {
	Command     Duration `toml:"command"`
	Transaction Duration `toml:"transaction"`
}

// LockConfig controls the per-BE advisory lock.
type LockConfig struct {
	Dir  string   `toml:"dir"`
	Wait Duration `toml:"wait"`
}

// MountConfig controls special mounts replicated into the new root.
type MountConfig struct {
	EFITarget string `toml:"efi_target"`
}

// UpdateConfig controls package update mode.
type UpdateConfig struct {
	SettleDelay Duration `toml:"settle_delay"`
}

// RunConfig controls failure handling.
type RunConfig struct {
	KeepMountedOnFailure *bool `toml:"keep_mounted_on_failure"`
}

// EngineConfig pins the package engine. Releasever, when set, is the only
// release a system upgrade may target.
type EngineConfig struct {
	ReleaseVer string `toml:"releasever"`
}

// LogConfig controls the log file and level.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Duration is a time.Duration written as a Go duration string ("30s").
type Duration time.Duration

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf(messages.ConfigInvalidDurationFmt, string(text), err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the duration as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// DefaultTransactionTimeout bounds a whole package transaction.
const DefaultTransactionTimeout = 6 * time.Hour

// DefaultSettleDelay is waited after a package update before unmounting.
const DefaultSettleDelay = 10 * time.Second

// Defaults returns the built-in configuration.
func Defaults() *Config {
	keep := true
	return &Config{
		Tools: ToolsConfig{
			Beadm:      beadm.DefaultPath,
			Mount:      bootenv.DefaultMountPath,
			Findmnt:    mounttable.DefaultPath,
			LsbRelease: distro.DefaultLsbRelease,
			Dnf:        engine.DefaultDnfPath,
			Rpm:        engine.DefaultRpmPath,
		},
		Timeouts: TimeoutsConfig{
			Command:     Duration(command.DefaultTimeout),
			Transaction: Duration(DefaultTransactionTimeout),
		},
		Lock: LockConfig{
			Dir:  lock.DefaultDir,
			Wait: Duration(lock.DefaultWait),
		},
		Mount:  MountConfig{EFITarget: mounttable.DefaultEFITarget},
		Update: UpdateConfig{SettleDelay: Duration(DefaultSettleDelay)},
		Run:    RunConfig{KeepMountedOnFailure: &keep},
		Log:    LogConfig{Level: "warn"},
	}
}

// KeepMountedOnFailure reports whether a failed run leaves the BE mounted.
func (c *Config) KeepMountedOnFailure() bool {
	return c.Run.KeepMountedOnFailure == nil || *c.Run.KeepMountedOnFailure
}
