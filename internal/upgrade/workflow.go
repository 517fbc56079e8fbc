package upgrade

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/t0fik/dnf-plugin-beadm/internal/bootenv"
	"github.com/t0fik/dnf-plugin-beadm/internal/engine"
	"github.com/t0fik/dnf-plugin-beadm/internal/messages"
)

// ModeToken selects an upgrade mode on the command line.
type ModeToken string

const (
	// SystemUpgradeToken selects a full upgrade to a new release.
	SystemUpgradeToken ModeToken = "sysupg"
	// PackageUpdateToken selects an incremental package update.
	PackageUpdateToken ModeToken = "update"
)

// ParseModeToken validates a mode token.
func ParseModeToken(s string) (ModeToken, error) {
	switch ModeToken(s) {
	case SystemUpgradeToken, PackageUpdateToken:
		return ModeToken(s), nil
	}
	return "", fmt.Errorf(messages.UpgradeUnknownModeFmt, s, SystemUpgradeToken, PackageUpdateToken)
}

// Request is what the operator asked for.
type Request struct {
	Mode ModeToken
	// ReleaseVer is the target release of a system upgrade.
	ReleaseVer string
	// BEName is the explicit BE name; derived in Pre when empty.
	BEName string
	// SourceBE is the explicit source BE; the active BE when empty.
	SourceBE string
	// DistroSync allows downgrades to match the target release exactly.
	DistroSync bool
	// Packages limits a package update; empty means everything.
	Packages []string
}

// WorkflowContext carries the state of one invocation through the phases.
// It is owned by the Controller for the duration of Execute.
type WorkflowContext struct {
	ID      string
	Request Request

	// SourceBE is the BE the new one is cloned from; may be empty.
	SourceBE string
	// TempDir is the per-invocation mountpoint holding engine state.
	TempDir string
	// Settings and Demands are handed to the package engine.
	Settings engine.Settings
	Demands  engine.Demands
	// Root is set once the BE is mounted.
	Root    bootenv.MountedRoot
	Mounted bool

	beName string
	phase  Phase
}

// NewWorkflowContext starts the state for one invocation of req.
func NewWorkflowContext(req Request) *WorkflowContext {
	return &WorkflowContext{ID: uuid.NewString(), Request: req}
}

// BEName returns the resolved BE name, empty before Pre.
func (wc *WorkflowContext) BEName() string {
	return wc.beName
}

// SetBEName records the BE name. It can be set once.
func (wc *WorkflowContext) SetBEName(name string) error {
	if name == "" {
		return fmt.Errorf(messages.UpgradeEmptyBEName)
	}
	if wc.beName != "" && wc.beName != name {
		return fmt.Errorf(messages.UpgradeBENameResolvedFmt, wc.beName, name)
	}
	wc.beName = name
	return nil
}

// Phase returns the phase currently executing (or the one that failed).
func (wc *WorkflowContext) Phase() Phase {
	return wc.phase
}
