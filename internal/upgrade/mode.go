package upgrade

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"

	"github.com/t0fik/dnf-plugin-beadm/internal/bootenv"
	"github.com/t0fik/dnf-plugin-beadm/internal/engine"
	"github.com/t0fik/dnf-plugin-beadm/internal/messages"
)

// Mode is one upgrade strategy driven through the phases by the Controller.
// Pre must not mutate system state.
type Mode interface {
	Name() string
	Pre(ctx context.Context, wc *WorkflowContext) error
	Configure(ctx context.Context, wc *WorkflowContext) error
	Run(ctx context.Context, wc *WorkflowContext) error
	Transaction(ctx context.Context, wc *WorkflowContext) error
}

// BootEnvs creates and mounts boot environments.
type BootEnvs interface {
	Ensure(ctx context.Context, name string, source string) error
	Mount(ctx context.Context, name string, mountpoint string) (bootenv.MountedRoot, error)
	Unmount(ctx context.Context, name string) error
}

// Registry reports the active boot environment.
type Registry interface {
	Active(ctx context.Context) (string, bool)
}

// DistroIdentifier reports the running distribution ID.
type DistroIdentifier interface {
	ID(ctx context.Context) (string, error)
}

// Deps are the collaborators shared by every mode.
type Deps struct {
	BootEnvs BootEnvs
	Registry Registry
	Distro   DistroIdentifier
	Engine   engine.Engine

	// Out receives operator guidance.
	Out io.Writer
	Log zerolog.Logger

	// AssumeYes and AssumeNo answer the package engine's prompts.
	AssumeYes bool
	AssumeNo  bool
	// PinnedRelease is the release the package engine is configured for, if any.
	PinnedRelease string
	// SettleDelay is waited before a package update unmounts its BE.
	SettleDelay time.Duration

	Now     func() time.Time
	TempDir func() (string, error)
	Sleep   func(ctx context.Context, d time.Duration) error
}

// NewMode returns the mode selected by token.
func NewMode(token ModeToken, deps *Deps) (Mode, error) {
	switch token {
	case SystemUpgradeToken:
		return &SystemUpgrade{deps: deps}, nil
	case PackageUpdateToken:
		return &PackageUpdate{deps: deps}, nil
	}
	return nil, fmt.Errorf(messages.UpgradeUnknownModeFmt, token, SystemUpgradeToken, PackageUpdateToken)
}

func (d *Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func (d *Deps) out() io.Writer {
	if d.Out == nil {
		return io.Discard
	}
	return d.Out
}

func (d *Deps) sleep(ctx context.Context, delay time.Duration) error {
	if d.Sleep != nil {
		return d.Sleep(ctx, delay)
	}
	return SleepContext(ctx, delay)
}

// SleepContext waits for d or until ctx is done.
func SleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// MakeTempDir creates the per-invocation mountpoint.
func MakeTempDir() (string, error) {
	return os.MkdirTemp("", "dnf-beadm-")
}

// resolveSource fills wc.SourceBE from the request or the active BE.
func (d *Deps) resolveSource(ctx context.Context, wc *WorkflowContext) {
	if wc.Request.SourceBE != "" {
		wc.SourceBE = wc.Request.SourceBE
		return
	}
	if active, ok := d.Registry.Active(ctx); ok {
		wc.SourceBE = active
	}
}

// prepareInstallRoot creates the temp dir and points engine state under it.
func (d *Deps) prepareInstallRoot(wc *WorkflowContext) error {
	mk := d.TempDir
	if mk == nil {
		mk = MakeTempDir
	}
	dir, err := mk()
	if err != nil {
		return fmt.Errorf(messages.UpgradeTempDirFmt, err)
	}
	wc.TempDir = dir
	release := wc.Settings.ReleaseVer
	wc.Settings = engine.Redirected(dir)
	wc.Settings.ReleaseVer = release
	return nil
}

// configureBootEnv creates (or confirms reuse of) the BE and mounts it over
// the temp dir. The engine's install root becomes the mounted root.
// Demands are checked first so nothing is created that cannot be upgraded.
func (d *Deps) configureBootEnv(ctx context.Context, wc *WorkflowContext) error {
	wc.Demands = engine.FullResolution()
	if err := d.Engine.Check(wc.Demands); err != nil {
		return err
	}
	name := wc.BEName()
	if err := d.BootEnvs.Ensure(ctx, name, wc.SourceBE); err != nil {
		return err
	}
	root, err := d.BootEnvs.Mount(ctx, name, wc.TempDir)
	if err != nil {
		return err
	}
	wc.Root = root
	wc.Mounted = true
	wc.Settings.InstallRoot = root.Path
	warn := color.New(color.FgYellow)
	for _, w := range root.Warnings {
		_, _ = warn.Fprintf(d.out(), messages.UpgradeMountWarningFmt, w)
	}
	d.Log.Info().Str("be", name).Str("root", root.Path).Int("warnings", len(root.Warnings)).Msg("boot environment mounted")
	return nil
}

// finish unmounts the BE and prints activation guidance. Unmount failures
// become remediation guidance, not errors: the transaction already completed.
func (d *Deps) finish(ctx context.Context, wc *WorkflowContext) {
	name := wc.BEName()
	unmountCtx := ctx
	if ctx.Err() != nil {
		var cancel context.CancelFunc
		unmountCtx, cancel = context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
		defer cancel()
	}
	d.unmount(unmountCtx, wc)
	_, _ = color.New(color.FgGreen).Fprintf(d.out(), messages.UpgradeActivateGuidanceFmt, name)
}

// unmount releases the BE and removes the temp dir. It reports success.
func (d *Deps) unmount(ctx context.Context, wc *WorkflowContext) bool {
	name := wc.BEName()
	if err := d.BootEnvs.Unmount(ctx, name); err != nil {
		_, _ = color.New(color.FgRed).Fprintf(d.out(), messages.UpgradeUnmountFailedFmt, name)
		return false
	}
	wc.Mounted = false
	if wc.TempDir != "" {
		if err := removeDir(wc.TempDir); err != nil {
			d.Log.Debug().Err(err).Str("dir", wc.TempDir).Msg("temp dir not removed")
		}
	}
	return true
}

// removeDir removes an empty mountpoint. A missing dir is not an error.
func removeDir(dir string) error {
	if err := os.Remove(dir); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
