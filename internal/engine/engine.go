// Package engine hands package transactions to the external package manager.
package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// Operation selects what the package manager does inside the installroot.
type Operation int

const (
	// DistroSync synchronises installed packages to the target release, downgrading if needed.
	DistroSync Operation = iota + 1
	// UpgradeAll upgrades every installed package without downgrading.
	UpgradeAll
	// Upgrade upgrades the requested packages, or everything when none are given.
	Upgrade
)

func (o Operation) String() string {
	switch o {
	case DistroSync:
		return "distro-sync"
	case UpgradeAll, Upgrade:
		return "upgrade"
	default:
		return fmt.Sprintf("operation(%d)", int(o))
	}
}

// Demands gate privilege and resolution behaviour of the package manager.
type Demands struct {
	RootUser       bool
	Resolving      bool
	AvailableRepos bool
	SackActivation bool
}

// FullResolution is what an upgrade into a BE needs: root, resolved
// transactions against every enabled repository.
func FullResolution() Demands {
	return Demands{RootUser: true, Resolving: true, AvailableRepos: true, SackActivation: true}
}

// Settings are the package manager paths for one invocation.
type Settings struct {
	InstallRoot string
	ReleaseVer  string
	CacheDir    string
	LogDir      string
	PersistDir  string
}

// Default package manager state directories on the host.
const (
	DefaultCacheDir   = "/var/cache/dnf"
	DefaultLogDir     = "/var/log"
	DefaultPersistDir = "/var/lib/dnf"
)

// Redirected returns settings whose cache, log and persist directories live
// under base instead of the host.
func Redirected(base string) Settings {
	return Settings{
		CacheDir:   rebase(base, DefaultCacheDir),
		LogDir:     rebase(base, DefaultLogDir),
		PersistDir: rebase(base, DefaultPersistDir),
	}
}

func rebase(base string, path string) string {
	return filepath.Join(base, strings.TrimLeft(path, "/"))
}

// Transaction is one request to the package manager.
type Transaction struct {
	Op       Operation
	Packages []string
	Settings Settings
	Demands  Demands
	// AssumeYes and AssumeNo answer the package manager's own confirmation.
	// AssumeNo wins when both are set.
	AssumeYes bool
	AssumeNo  bool
}

// Engine executes package transactions and reports the installed release.
type Engine interface {
	// DetectRelease returns the release version installed under root.
	DetectRelease(ctx context.Context, root string) (string, error)
	// Check reports whether this process can satisfy demands.
	Check(demands Demands) error
	// Execute runs tx to completion.
	Execute(ctx context.Context, tx Transaction) error
}
