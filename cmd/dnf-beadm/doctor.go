package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/t0fik/dnf-plugin-beadm/internal/beadm"
	"github.com/t0fik/dnf-plugin-beadm/internal/command"
	"github.com/t0fik/dnf-plugin-beadm/internal/config"
	"github.com/t0fik/dnf-plugin-beadm/internal/doctor"
	"github.com/t0fik/dnf-plugin-beadm/internal/messages"
	"github.com/t0fik/dnf-plugin-beadm/internal/mounttable"
)

// newDoctorProbes builds the host probes from a loaded config. Swapped in tests.
var newDoctorProbes = func(cfg *config.Config) (doctor.ActiveReporter, doctor.EFIFinder) {
	runner := command.NewExec(cfg.Timeouts.Command.Std(), zerolog.Nop())
	return beadm.New(runner, cfg.Tools.Beadm, zerolog.Nop()),
		mounttable.NewResolver(runner, cfg.Tools.Findmnt, cfg.Mount.EFITarget)
}

func newDoctorCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   messages.DoctorUse,
		Short: messages.DoctorShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, messages.DoctorHealthCheck)

			configResult, cfg, _ := doctor.CheckConfig(opts.configPath)
			results := []doctor.Result{configResult}
			if cfg != nil {
				results = append(results, doctor.CheckTools(cfg.Tools)...)
				results = append(results, doctor.CheckPrivileges(), doctor.CheckLockDir(cfg.Lock.Dir))
				registry, efi := newDoctorProbes(cfg)
				results = append(results,
					doctor.CheckActiveBE(cmd.Context(), registry),
					doctor.CheckEFI(cmd.Context(), efi, cfg.Mount.EFITarget),
				)
			}

			for _, r := range results {
				printResult(out, r)
			}
			if doctor.HasFailure(results) {
				_, _ = fmt.Fprintln(out, color.RedString(messages.DoctorFailureSummary))
				return errors.New(messages.DoctorFailureError)
			}
			_, _ = fmt.Fprintln(out, color.GreenString(messages.DoctorSuccessSummary))
			return nil
		},
	}
}

func printResult(out io.Writer, r doctor.Result) {
	var status string
	switch r.Status {
	case doctor.StatusOK:
		status = color.GreenString(messages.DoctorStatusOKLabel)
	case doctor.StatusWarn:
		status = color.YellowString(messages.DoctorStatusWarnLabel)
	case doctor.StatusFail:
		status = color.RedString(messages.DoctorStatusFailLabel)
	}

	_, _ = fmt.Fprintf(out, messages.DoctorResultLineFmt, status, r.CheckName, r.Message)
	if r.Recommendation != "" {
		for _, line := range strings.Split(r.Recommendation, "\n") {
			_, _ = fmt.Fprintf(out, "%s%s\n", messages.DoctorRecommendationPrefix, line)
		}
	}
}
