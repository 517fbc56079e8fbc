package main

import (
	"context"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/t0fik/dnf-plugin-beadm/internal/beadm"
	"github.com/t0fik/dnf-plugin-beadm/internal/bootenv"
	"github.com/t0fik/dnf-plugin-beadm/internal/command"
	"github.com/t0fik/dnf-plugin-beadm/internal/config"
	"github.com/t0fik/dnf-plugin-beadm/internal/distro"
	"github.com/t0fik/dnf-plugin-beadm/internal/engine"
	"github.com/t0fik/dnf-plugin-beadm/internal/lock"
	"github.com/t0fik/dnf-plugin-beadm/internal/logging"
	"github.com/t0fik/dnf-plugin-beadm/internal/mounttable"
	"github.com/t0fik/dnf-plugin-beadm/internal/upgrade"
)

// beTool is the part of the BE tool the manual subcommands drive.
type beTool interface {
	List(ctx context.Context) []beadm.Entry
	Activate(ctx context.Context, name string) error
	Unmount(ctx context.Context, name string) error
}

// environment is everything a subcommand needs, built from the config.
type environment struct {
	log     zerolog.Logger
	tool    beTool
	upgrade func(ctx context.Context, req upgrade.Request) error
	close   func() error
}

// loadEnvironment is swapped in tests to avoid touching the host.
var loadEnvironment = buildEnvironment

// buildEnvironment loads the config, sets up logging and wires the real
// command-line tools together.
func buildEnvironment(cmd *cobra.Command, opts *rootOptions) (*environment, error) {
	cfg, source, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	log, closeLog := logging.Setup(logging.Options{
		Verbosity: opts.verbosity,
		Level:     cfg.Log.Level,
		File:      cfg.Log.File,
		Console:   cmd.ErrOrStderr(),
		NoColor:   color.NoColor,
	})
	log.Debug().Str("config", source).Msg("configuration loaded")

	queries := command.NewExec(cfg.Timeouts.Command.Std(), logging.Component("command"))
	txTimeout := cfg.Timeouts.Transaction.Std()
	if txTimeout == 0 {
		txTimeout = command.NoTimeout
	}
	transactions := command.NewExec(txTimeout, logging.Component("command"))

	tool := beadm.New(queries, cfg.Tools.Beadm, logging.Component("beadm"))
	manager := bootenv.NewManager(bootenv.Options{
		Tool:      tool,
		Topology:  mounttable.NewResolver(queries, cfg.Tools.Findmnt, cfg.Mount.EFITarget),
		Mounter:   bootenv.NewCommandMounter(queries, cfg.Tools.Mount),
		Confirmer: newConfirmer(cmd.InOrStdin(), cmd.OutOrStdout(), opts),
		Out:       cmd.OutOrStdout(),
		Log:       logging.Component("bootenv"),
	})
	deps := &upgrade.Deps{
		BootEnvs: manager,
		Registry: tool,
		Distro:   distro.NewIdentifier(queries, cfg.Tools.LsbRelease),
		Engine: &engine.Dnf{
			Queries:      queries,
			Transactions: transactions,
			DnfPath:      cfg.Tools.Dnf,
			RpmPath:      cfg.Tools.Rpm,
			Stdin:        cmd.InOrStdin(),
			Stdout:       cmd.OutOrStdout(),
			Stderr:       cmd.ErrOrStderr(),
			Log:          logging.Component("engine"),
		},
		Out:           cmd.OutOrStdout(),
		Log:           logging.Component("upgrade"),
		AssumeYes:     opts.assumeYes,
		AssumeNo:      opts.assumeNo,
		PinnedRelease: cfg.Engine.ReleaseVer,
		SettleDelay:   cfg.Update.SettleDelay.Std(),
	}
	controller := upgrade.NewController(deps, lock.New(cfg.Lock.Dir, cfg.Lock.Wait.Std()))
	controller.KeepMountedOnFailure = cfg.KeepMountedOnFailure()

	return &environment{
		log:  log,
		tool: tool,
		upgrade: func(ctx context.Context, req upgrade.Request) error {
			mode, err := upgrade.NewMode(req.Mode, deps)
			if err != nil {
				return err
			}
			return controller.Execute(ctx, mode, upgrade.NewWorkflowContext(req))
		},
		close: closeLog,
	}, nil
}

// withEnvironment builds the environment, runs fn and closes the log file.
func withEnvironment(cmd *cobra.Command, opts *rootOptions, fn func(env *environment) error) error {
	env, err := loadEnvironment(cmd, opts)
	if err != nil {
		return err
	}
	defer func() {
		if env.close != nil {
			_ = env.close()
		}
	}()
	return fn(env)
}
