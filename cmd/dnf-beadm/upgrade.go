package main

import (
	"github.com/spf13/cobra"

	"github.com/t0fik/dnf-plugin-beadm/internal/messages"
	"github.com/t0fik/dnf-plugin-beadm/internal/upgrade"
)

func newSysupgCmd(opts *rootOptions) *cobra.Command {
	var req upgrade.Request
	var noDowngrade bool

	cmd := &cobra.Command{
		Use:   messages.SysupgUse,
		Short: messages.SysupgShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Mode = upgrade.SystemUpgradeToken
			req.DistroSync = !noDowngrade
			return runUpgrade(cmd, opts, req)
		},
	}
	cmd.Flags().StringVar(&req.ReleaseVer, "releasever", "", messages.SysupgFlagReleaseVer)
	cmd.Flags().BoolVar(&noDowngrade, "no-downgrade", false, messages.SysupgFlagNoDowngrade)
	addTargetFlags(cmd, &req)
	return cmd
}

func newUpdateCmd(opts *rootOptions) *cobra.Command {
	var req upgrade.Request

	cmd := &cobra.Command{
		Use:   messages.UpdateUse,
		Short: messages.UpdateShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Mode = upgrade.PackageUpdateToken
			req.Packages = args
			return runUpgrade(cmd, opts, req)
		},
	}
	addTargetFlags(cmd, &req)
	return cmd
}

func addTargetFlags(cmd *cobra.Command, req *upgrade.Request) {
	cmd.Flags().StringVar(&req.BEName, "be", "", messages.FlagBEName)
	cmd.Flags().StringVar(&req.SourceBE, "source-be", "", messages.FlagSourceBE)
}

func runUpgrade(cmd *cobra.Command, opts *rootOptions, req upgrade.Request) error {
	return withEnvironment(cmd, opts, func(env *environment) error {
		return env.upgrade(cmd.Context(), req)
	})
}
