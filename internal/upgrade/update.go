package upgrade

import (
	"context"
	"fmt"

	"github.com/t0fik/dnf-plugin-beadm/internal/engine"
	"github.com/t0fik/dnf-plugin-beadm/internal/messages"
)

// PackageUpdate applies package updates to a timestamped clone of the
// source BE.
type PackageUpdate struct {
	deps *Deps
}

func (m *PackageUpdate) Name() string { return string(PackageUpdateToken) }

func (m *PackageUpdate) Pre(ctx context.Context, wc *WorkflowContext) error {
	m.deps.resolveSource(ctx, wc)
	name := wc.Request.BEName
	if name == "" {
		if wc.SourceBE == "" {
			return fmt.Errorf(messages.UpgradeNoSourceBE)
		}
		name = UpdateName(wc.SourceBE, m.deps.now())
	}
	if err := wc.SetBEName(name); err != nil {
		return err
	}
	m.deps.Log.Debug().Str("be", name).Str("source", wc.SourceBE).Strs("packages", wc.Request.Packages).Msg("package update planned")
	return m.deps.prepareInstallRoot(wc)
}

func (m *PackageUpdate) Configure(ctx context.Context, wc *WorkflowContext) error {
	return m.deps.configureBootEnv(ctx, wc)
}

func (m *PackageUpdate) Run(ctx context.Context, wc *WorkflowContext) error {
	op := engine.UpgradeAll
	if len(wc.Request.Packages) > 0 {
		op = engine.Upgrade
	}
	return m.deps.Engine.Execute(ctx, engine.Transaction{
		Op:        op,
		Packages:  wc.Request.Packages,
		Settings:  wc.Settings,
		Demands:   wc.Demands,
		AssumeYes: m.deps.AssumeYes,
		AssumeNo:  m.deps.AssumeNo,
	})
}

// Transaction waits for the engine's background writers to settle before
// unmounting.
func (m *PackageUpdate) Transaction(ctx context.Context, wc *WorkflowContext) error {
	if m.deps.SettleDelay > 0 && ctx.Err() == nil {
		if err := m.deps.sleep(ctx, m.deps.SettleDelay); err != nil {
			m.deps.Log.Debug().Err(err).Msg("settle delay interrupted")
		}
	}
	m.deps.finish(ctx, wc)
	return nil
}
