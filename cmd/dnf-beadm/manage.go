package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/t0fik/dnf-plugin-beadm/internal/beadm"
	"github.com/t0fik/dnf-plugin-beadm/internal/messages"
)

func newListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   messages.ListUse,
		Short: messages.ListShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnvironment(cmd, opts, func(env *environment) error {
				entries := env.tool.List(cmd.Context())
				if len(entries) == 0 {
					_, err := fmt.Fprintln(cmd.OutOrStdout(), messages.ListEmpty)
					return err
				}
				return printEntries(cmd.OutOrStdout(), entries)
			})
		},
	}
}

// printEntries writes the BE table. Names are padded before the active one is
// coloured so escape codes never count towards the column width.
func printEntries(out io.Writer, entries []beadm.Entry) error {
	width := len(messages.ListNameHeader)
	for _, entry := range entries {
		width = max(width, len(entry.Name))
	}
	if _, err := fmt.Fprintf(out, "%-*s  %s\n", width, messages.ListNameHeader, messages.ListFlagsHeader); err != nil {
		return err
	}
	active := color.New(color.FgGreen, color.Bold)
	for _, entry := range entries {
		name := fmt.Sprintf("%-*s", width, entry.Name)
		if entry.Active() {
			name = active.Sprint(name)
		}
		if _, err := fmt.Fprintf(out, "%s  %s\n", name, entry.Flags); err != nil {
			return err
		}
	}
	return nil
}

func newActivateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   messages.ActivateUse,
		Short: messages.ActivateShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnvironment(cmd, opts, func(env *environment) error {
				name := args[0]
				if err := env.tool.Activate(cmd.Context(), name); err != nil {
					return err
				}
				env.log.Info().Str("be", name).Msg("boot environment activated")
				_, err := color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), messages.ActivatedFmt, name)
				return err
			})
		},
	}
}

func newUmountCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     messages.UmountUse,
		Aliases: []string{"unmount"},
		Short:   messages.UmountShort,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnvironment(cmd, opts, func(env *environment) error {
				name := args[0]
				if err := env.tool.Unmount(cmd.Context(), name); err != nil {
					return err
				}
				env.log.Info().Str("be", name).Msg("boot environment unmounted")
				_, err := fmt.Fprintf(cmd.OutOrStdout(), messages.UnmountedFmt, name)
				return err
			})
		},
	}
}
