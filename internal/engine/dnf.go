package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"

	"github.com/t0fik/dnf-plugin-beadm/internal/command"
	"github.com/t0fik/dnf-plugin-beadm/internal/messages"
)

// Default tool locations.
const (
	DefaultDnfPath = "/usr/bin/dnf"
	DefaultRpmPath = "/usr/bin/rpm"
)

// ErrNotRoot is returned when a transaction demands root and the process is not root.
var ErrNotRoot = errors.New(messages.EngineRootRequired)

var geteuid = unix.Geteuid

// Dnf runs transactions through the dnf command line.
type Dnf struct {
	// Queries runs short read-only commands such as release detection.
	Queries command.Runner
	// Transactions runs dnf itself, usually with a longer timeout.
	Transactions command.Runner
	DnfPath      string
	RpmPath      string
	Stdin        io.Reader
	Stdout       io.Writer
	Stderr       io.Writer
	Log          zerolog.Logger
}

// DetectRelease asks rpm which version of system-release is installed under root.
func (d *Dnf) DetectRelease(ctx context.Context, root string) (string, error) {
	if root == "" {
		root = "/"
	}
	rpm := d.RpmPath
	if rpm == "" {
		rpm = DefaultRpmPath
	}
	out, err := d.Queries.Output(ctx, rpm, "--root", root, "-q", "--qf", "%{version}\n", "--whatprovides", "system-release")
	if err != nil {
		return "", err
	}
	release := command.FirstLine(out)
	if release == "" {
		return "", fmt.Errorf(messages.EngineNoReleaseFmt, root)
	}
	return release, nil
}

// Check fails with ErrNotRoot when demands need root and the process is not.
func (d *Dnf) Check(demands Demands) error {
	if demands.RootUser && geteuid() != 0 {
		return ErrNotRoot
	}
	return nil
}

// Execute runs tx with the operator's stdio attached so dnf can report progress.
func (d *Dnf) Execute(ctx context.Context, tx Transaction) error {
	if err := d.Check(tx.Demands); err != nil {
		return err
	}
	if tx.Settings.InstallRoot == "" {
		return fmt.Errorf(messages.EngineInstallRootRequired)
	}
	args, err := Args(tx)
	if err != nil {
		return err
	}
	dnf := d.DnfPath
	if dnf == "" {
		dnf = DefaultDnfPath
	}
	d.Log.Info().
		Str("op", tx.Op.String()).
		Str("installroot", tx.Settings.InstallRoot).
		Strs("packages", tx.Packages).
		Msg("starting package transaction")

	stdio := command.Stdio{In: d.Stdin, Out: d.Stdout, Err: d.Stderr}
	if stdio.In == nil {
		stdio.In = os.Stdin
	}
	if stdio.Out == nil {
		stdio.Out = os.Stdout
	}
	if stdio.Err == nil {
		stdio.Err = os.Stderr
	}
	return d.Transactions.Stream(ctx, stdio, dnf, args...)
}

// Args builds the dnf argument list for tx.
func Args(tx Transaction) ([]string, error) {
	var args []string
	switch {
	case !tx.Demands.Resolving, tx.AssumeNo:
		args = append(args, "--assumeno")
	case tx.AssumeYes:
		args = append(args, "-y")
	}
	if !tx.Demands.AvailableRepos {
		args = append(args, "--disablerepo=*")
	}
	if !tx.Demands.SackActivation {
		args = append(args, "--cacheonly")
	}

	s := tx.Settings
	args = append(args, "--installroot="+s.InstallRoot)
	if s.ReleaseVer != "" {
		args = append(args, "--releasever="+s.ReleaseVer)
	}
	for _, opt := range []struct{ key, value string }{
		{"cachedir", s.CacheDir},
		{"logdir", s.LogDir},
		{"persistdir", s.PersistDir},
	} {
		if opt.value != "" {
			args = append(args, "--setopt="+opt.key+"="+opt.value)
		}
	}

	switch tx.Op {
	case DistroSync, UpgradeAll:
		if len(tx.Packages) > 0 {
			return nil, fmt.Errorf(messages.EnginePackagesNotAllowedFmt, tx.Op)
		}
		args = append(args, tx.Op.String())
	case Upgrade:
		args = append(args, tx.Op.String())
		args = append(args, tx.Packages...)
	default:
		return nil, fmt.Errorf(messages.EngineUnknownOperationFmt, tx.Op)
	}
	return args, nil
}
