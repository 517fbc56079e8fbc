package upgrade

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-version"

	"github.com/t0fik/dnf-plugin-beadm/internal/messages"
)

// ErrReleaseVersion is returned when the target release cannot be upgraded to.
var ErrReleaseVersion = errors.New(messages.UpgradeReleaseVersionInvalid)

// CheckRelease validates a system upgrade target against the running release.
// pinned is the release the package manager is configured for, if any; the
// target cannot override it once the manager is set up.
func CheckRelease(current string, target string, pinned string) error {
	if target == "" {
		return fmt.Errorf(messages.UpgradeReleaseRequiredFmt, ErrReleaseVersion)
	}
	if target == current {
		return fmt.Errorf(messages.UpgradeReleaseNotNewerFmt, ErrReleaseVersion, target, current)
	}
	if pinned != "" && target != pinned {
		return fmt.Errorf(messages.UpgradeReleaseCannotResetFmt, ErrReleaseVersion, target, pinned)
	}
	cur, errCur := version.NewVersion(current)
	tgt, errTgt := version.NewVersion(target)
	if errCur == nil && errTgt == nil && !tgt.GreaterThan(cur) {
		return fmt.Errorf(messages.UpgradeReleaseNotNewerFmt, ErrReleaseVersion, target, current)
	}
	return nil
}
