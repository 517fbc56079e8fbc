package upgrade

import (
	"context"

	"github.com/t0fik/dnf-plugin-beadm/internal/engine"
)

// SystemUpgrade upgrades a new BE to the next release of the distribution.
type SystemUpgrade struct {
	deps *Deps
}

func (m *SystemUpgrade) Name() string { return string(SystemUpgradeToken) }

// Pre checks the target release and resolves the BE name, e.g. "fedora41".
func (m *SystemUpgrade) Pre(ctx context.Context, wc *WorkflowContext) error {
	req := wc.Request
	current, err := m.deps.Engine.DetectRelease(ctx, "/")
	if err != nil {
		return err
	}
	if err := CheckRelease(current, req.ReleaseVer, m.deps.PinnedRelease); err != nil {
		return err
	}
	name := req.BEName
	if name == "" {
		id, err := m.deps.Distro.ID(ctx)
		if err != nil {
			return err
		}
		name = SystemUpgradeName(id, req.ReleaseVer)
	}
	if err := wc.SetBEName(name); err != nil {
		return err
	}
	m.deps.resolveSource(ctx, wc)
	wc.Settings.ReleaseVer = req.ReleaseVer
	m.deps.Log.Debug().Str("current", current).Str("target", req.ReleaseVer).Str("be", name).Str("source", wc.SourceBE).Msg("system upgrade planned")
	return m.deps.prepareInstallRoot(wc)
}

func (m *SystemUpgrade) Configure(ctx context.Context, wc *WorkflowContext) error {
	return m.deps.configureBootEnv(ctx, wc)
}

// Run applies distro-sync when downgrades are allowed, otherwise upgrade.
func (m *SystemUpgrade) Run(ctx context.Context, wc *WorkflowContext) error {
	op := engine.UpgradeAll
	if wc.Request.DistroSync {
		op = engine.DistroSync
	}
	return m.deps.Engine.Execute(ctx, engine.Transaction{
		Op:        op,
		Settings:  wc.Settings,
		Demands:   wc.Demands,
		AssumeYes: m.deps.AssumeYes,
		AssumeNo:  m.deps.AssumeNo,
	})
}

func (m *SystemUpgrade) Transaction(ctx context.Context, wc *WorkflowContext) error {
	m.deps.finish(ctx, wc)
	return nil
}
