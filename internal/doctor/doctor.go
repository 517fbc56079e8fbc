// Package doctor checks that a host has what a BE-scoped upgrade needs.
package doctor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"golang.org/x/sys/unix"

	"github.com/t0fik/dnf-plugin-beadm/internal/config"
	"github.com/t0fik/dnf-plugin-beadm/internal/messages"
	"github.com/t0fik/dnf-plugin-beadm/internal/mounttable"
)

// Status is the outcome of a single check.
type Status int

const (
	StatusOK Status = iota
	StatusWarn
	StatusFail
)

// Result is one line of the doctor report.
type Result struct {
	Status         Status
	CheckName      string
	Message        string
	Recommendation string
}

// ActiveReporter reports the active boot environment.
type ActiveReporter interface {
	Active(ctx context.Context) (string, bool)
}

// EFIFinder looks up the EFI system partition mount.
type EFIFinder interface {
	FindEFI(ctx context.Context) (mounttable.Entry, bool, error)
}

var (
	loadConfigFunc = config.Load
	lookPathFunc   = exec.LookPath
	geteuidFunc    = os.Geteuid
	accessFunc     = unix.Access
)

// CheckConfig loads the configuration the same way the upgrade commands do.
// The returned config is nil when loading failed.
func CheckConfig(path string) (Result, *config.Config, string) {
	cfg, source, err := loadConfigFunc(path)
	if err != nil {
		return Result{
			Status:         StatusFail,
			CheckName:      messages.DoctorCheckNameConfig,
			Message:        fmt.Sprintf(messages.DoctorConfigLoadFailedFmt, err),
			Recommendation: messages.DoctorConfigLoadRecommend,
		}, nil, source
	}
	msg := messages.DoctorConfigDefaults
	if source != "" {
		msg = fmt.Sprintf(messages.DoctorConfigLoadedFmt, source)
	}
	return Result{Status: StatusOK, CheckName: messages.DoctorCheckNameConfig, Message: msg}, cfg, source
}

// CheckTools resolves every configured binary.
func CheckTools(tools config.ToolsConfig) []Result {
	entries := []struct {
		key  string
		path string
	}{
		{"beadm", tools.Beadm},
		{"mount", tools.Mount},
		{"findmnt", tools.Findmnt},
		{"lsb_release", tools.LsbRelease},
		{"dnf", tools.Dnf},
		{"rpm", tools.Rpm},
	}
	results := make([]Result, 0, len(entries))
	for _, e := range entries {
		resolved, err := lookPathFunc(e.path)
		if err != nil {
			results = append(results, Result{
				Status:         StatusFail,
				CheckName:      messages.DoctorCheckNameTools,
				Message:        fmt.Sprintf(messages.DoctorToolMissingFmt, e.key, e.path),
				Recommendation: fmt.Sprintf(messages.DoctorToolMissingRecFmt, e.key, e.key),
			})
			continue
		}
		results = append(results, Result{
			Status:    StatusOK,
			CheckName: messages.DoctorCheckNameTools,
			Message:   fmt.Sprintf(messages.DoctorToolFoundFmt, e.key, resolved),
		})
	}
	return results
}

// CheckPrivileges warns when not running as root.
func CheckPrivileges() Result {
	if uid := geteuidFunc(); uid != 0 {
		return Result{
			Status:         StatusWarn,
			CheckName:      messages.DoctorCheckNamePrivileges,
			Message:        fmt.Sprintf(messages.DoctorNotRootFmt, uid),
			Recommendation: messages.DoctorNotRootRecomm,
		}
	}
	return Result{Status: StatusOK, CheckName: messages.DoctorCheckNamePrivileges, Message: messages.DoctorRootOK}
}

// CheckLockDir verifies that per-BE lock files can be created in dir.
func CheckLockDir(dir string) Result {
	r := Result{CheckName: messages.DoctorCheckNameLock}
	info, err := os.Stat(dir)
	switch {
	case errors.Is(err, os.ErrNotExist):
		r.Status = StatusWarn
		r.Message = fmt.Sprintf(messages.DoctorLockDirMissingFmt, dir)
		r.Recommendation = messages.DoctorLockDirMissingRecomm
		return r
	case err != nil:
		r.Status = StatusFail
		r.Message = fmt.Sprintf(messages.DoctorLockDirStatFmt, dir, err)
		return r
	case !info.IsDir():
		r.Status = StatusFail
		r.Message = fmt.Sprintf(messages.DoctorLockDirNotDirFmt, dir)
		r.Recommendation = messages.DoctorLockDirNotDirRecomm
		return r
	}
	if err := accessFunc(dir, unix.W_OK); err != nil {
		r.Status = StatusFail
		r.Message = fmt.Sprintf(messages.DoctorLockDirNotWritableFm, dir, err)
		return r
	}
	r.Status = StatusOK
	r.Message = fmt.Sprintf(messages.DoctorLockDirOKFmt, dir)
	return r
}

// CheckActiveBE reports which boot environment update would clone by default.
func CheckActiveBE(ctx context.Context, registry ActiveReporter) Result {
	name, ok := registry.Active(ctx)
	if !ok {
		return Result{
			Status:         StatusWarn,
			CheckName:      messages.DoctorCheckNameBootEnv,
			Message:        messages.DoctorNoActiveBE,
			Recommendation: messages.DoctorNoActiveBERecomm,
		}
	}
	return Result{
		Status:    StatusOK,
		CheckName: messages.DoctorCheckNameBootEnv,
		Message:   fmt.Sprintf(messages.DoctorActiveBEFmt, name),
	}
}

// CheckEFI warns when the EFI system partition is not mounted.
func CheckEFI(ctx context.Context, finder EFIFinder, target string) Result {
	r := Result{CheckName: messages.DoctorCheckNameEFI}
	entry, found, err := finder.FindEFI(ctx)
	switch {
	case err != nil:
		r.Status = StatusWarn
		r.Message = fmt.Sprintf(messages.DoctorEFILookupFailedFm, err)
	case !found:
		r.Status = StatusWarn
		r.Message = fmt.Sprintf(messages.DoctorEFIMissingFmt, target)
		r.Recommendation = messages.DoctorEFIMissingRecomm
	default:
		r.Status = StatusOK
		r.Message = fmt.Sprintf(messages.DoctorEFIMountedFmt, entry.Target, entry.Source)
	}
	return r
}

// HasFailure reports whether any result failed.
func HasFailure(results []Result) bool {
	for _, r := range results {
		if r.Status == StatusFail {
			return true
		}
	}
	return false
}
