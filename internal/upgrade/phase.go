package upgrade

import (
	"fmt"

	"github.com/t0fik/dnf-plugin-beadm/internal/messages"
)

// Phase is a step of the upgrade state machine. Phases only move forward.
type Phase int

const (
	PhasePre Phase = iota + 1
	PhaseConfigure
	PhaseRun
	PhaseTransaction
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhasePre:
		return "pre"
	case PhaseConfigure:
		return "configure"
	case PhaseRun:
		return "run"
	case PhaseTransaction:
		return "transaction"
	case PhaseDone:
		return "done"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// PhaseError reports the phase that aborted an invocation.
type PhaseError struct {
	Phase Phase
	Err   error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf(messages.UpgradePhaseFailedFmt, e.Phase, e.Err)
}

func (e *PhaseError) Unwrap() error {
	return e.Err
}
