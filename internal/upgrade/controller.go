package upgrade

import (
	"context"
	"time"

	"github.com/fatih/color"

	"github.com/t0fik/dnf-plugin-beadm/internal/lock"
	"github.com/t0fik/dnf-plugin-beadm/internal/messages"
)

// cleanupTimeout bounds the unmount attempted after cancellation.
const cleanupTimeout = 30 * time.Second

// Locker serializes invocations targeting the same BE.
type Locker interface {
	Acquire(name string) (*lock.Lock, error)
}

// Controller drives a Mode through its phases in order.
type Controller struct {
	deps   *Deps
	locker Locker
	// KeepMountedOnFailure leaves the BE mounted when the engine run fails,
	// so the operator can inspect it.
	KeepMountedOnFailure bool
}

// NewController builds a controller. A nil locker disables locking.
func NewController(deps *Deps, locker Locker) *Controller {
	return &Controller{deps: deps, locker: locker, KeepMountedOnFailure: true}
}

// Execute runs Pre, Configure, Run and Transaction. The first failure stops
// the sequence and is returned as a *PhaseError.
func (c *Controller) Execute(ctx context.Context, mode Mode, wc *WorkflowContext) error {
	log := c.deps.Log.With().Str("invocation", wc.ID).Str("mode", mode.Name()).Logger()

	wc.phase = PhasePre
	if err := mode.Pre(ctx, wc); err != nil {
		return c.fail(ctx, wc, err)
	}

	if c.locker != nil {
		lk, err := c.locker.Acquire(wc.BEName())
		if err != nil {
			return c.fail(ctx, wc, err)
		}
		defer func() {
			if err := lk.Release(); err != nil {
				log.Warn().Err(err).Msg("lock release failed")
			}
		}()
	}

	steps := []struct {
		phase Phase
		run   func(context.Context, *WorkflowContext) error
	}{
		{PhaseConfigure, mode.Configure},
		{PhaseRun, mode.Run},
		{PhaseTransaction, mode.Transaction},
	}
	for _, step := range steps {
		// Once Run succeeded the packages are committed; Transaction always
		// runs so the BE is unmounted and activation guidance is printed.
		if err := ctx.Err(); err != nil && step.phase != PhaseTransaction {
			return c.fail(ctx, wc, err)
		}
		wc.phase = step.phase
		log.Debug().Str("phase", step.phase.String()).Str("be", wc.BEName()).Msg("phase started")
		if err := step.run(ctx, wc); err != nil {
			return c.fail(ctx, wc, err)
		}
	}
	wc.phase = PhaseDone
	log.Info().Str("be", wc.BEName()).Msg("upgrade completed")
	return nil
}

// fail wraps err with the current phase and decides what happens to a
// mounted BE.
func (c *Controller) fail(ctx context.Context, wc *WorkflowContext, err error) error {
	perr := &PhaseError{Phase: wc.phase, Err: err}
	c.deps.Log.Error().Err(err).Str("invocation", wc.ID).Str("phase", wc.phase.String()).Str("be", wc.BEName()).Msg("upgrade aborted")
	if !wc.Mounted {
		c.removeTempDir(wc)
		return perr
	}
	if ctx.Err() != nil || !c.KeepMountedOnFailure {
		cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
		defer cancel()
		c.deps.unmount(cleanupCtx, wc)
		return perr
	}
	_, _ = color.New(color.FgYellow).Fprintf(c.deps.out(), messages.UpgradeLeftMountedFmt, wc.BEName(), wc.Root.Path, wc.BEName())
	return perr
}

func (c *Controller) removeTempDir(wc *WorkflowContext) {
	if wc.TempDir == "" {
		return
	}
	if err := removeDir(wc.TempDir); err != nil {
		c.deps.Log.Debug().Err(err).Str("dir", wc.TempDir).Msg("temp dir not removed")
	}
}
