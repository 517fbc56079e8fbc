package main

import (
	"github.com/spf13/cobra"

	"github.com/t0fik/dnf-plugin-beadm/internal/messages"
)

// rootOptions are the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	verbosity  int
	assumeYes  bool
	assumeNo   bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           messages.RootUse,
		Short:         messages.RootShort,
		Long:          messages.RootLong,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.Flags().Bool("version", false, messages.RootVersionFlag)

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", messages.RootFlagConfig)
	flags.CountVarP(&opts.verbosity, "verbose", "v", messages.RootFlagVerbose)
	flags.BoolVarP(&opts.assumeYes, "assumeyes", "y", false, messages.RootFlagAssumeYes)
	flags.BoolVar(&opts.assumeNo, "assumeno", false, messages.RootFlagAssumeNo)
	cmd.MarkFlagsMutuallyExclusive("assumeyes", "assumeno")

	cmd.AddCommand(
		newSysupgCmd(opts),
		newUpdateCmd(opts),
		newListCmd(opts),
		newActivateCmd(opts),
		newUmountCmd(opts),
		newDoctorCmd(opts),
	)
	return cmd
}
