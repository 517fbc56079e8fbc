package upgrade

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStampUsesYearDayMonthOrder(t *testing.T) {
	ts := time.Date(2024, time.March, 15, 10, 5, 0, 0, time.Local)
	assert.Equal(t, "202415031005", Stamp(ts))
}

func TestParseStamp(t *testing.T) {
	ts := time.Date(2024, time.March, 15, 10, 5, 0, 0, time.Local)
	got, ok := ParseStamp(Stamp(ts))
	require.True(t, ok)
	assert.True(t, ts.Equal(got), "got %s", got)

	got, ok = ParseStamp("2401010101")
	require.True(t, ok)
	assert.Equal(t, 2401, got.Year())
	assert.Equal(t, time.January, got.Month())
	assert.Equal(t, 1, got.Day())
	assert.Equal(t, 0, got.Hour())
	assert.Equal(t, 1, got.Minute())

	for _, bad := range []string{"", "2024", "release", "202431021230", "20241503100512"} {
		_, ok := ParseStamp(bad)
		assert.False(t, ok, "ParseStamp(%q)", bad)
	}
}

func TestUpdateName(t *testing.T) {
	now := time.Date(2024, time.June, 2, 8, 30, 0, 0, time.Local)
	stamp := Stamp(now)
	tests := []struct {
		source string
		want   string
	}{
		{"myos-2401010101", "myos-" + stamp},
		{"fedora40-202401021230", "fedora40-" + stamp},
		{"fedora40", "fedora40-" + stamp},
		{"my-os", "my-os-" + stamp},
		{"my-os-202431021230", "my-os-202431021230-" + stamp},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, UpdateName(tt.source, now), "source %q", tt.source)
	}
}

func TestUpdateNameDoesNotGrow(t *testing.T) {
	first := UpdateName("fedora40", time.Date(2024, time.June, 2, 8, 30, 0, 0, time.Local))
	second := UpdateName(first, time.Date(2024, time.July, 9, 21, 0, 0, 0, time.Local))
	assert.Equal(t, "fedora40-202409072100", second)
}

func TestSystemUpgradeName(t *testing.T) {
	assert.Equal(t, "fedora41", SystemUpgradeName("Fedora\n", "41"))
	assert.Equal(t, "rockylinux9", SystemUpgradeName("RockyLinux", "9"))
}

func TestCheckRelease(t *testing.T) {
	tests := []struct {
		name    string
		current string
		target  string
		pinned  string
		ok      bool
	}{
		{name: "newer", current: "40", target: "41", ok: true},
		{name: "same", current: "40", target: "40"},
		{name: "older", current: "40", target: "39"},
		{name: "missing target", current: "40"},
		{name: "pinned elsewhere", current: "40", target: "41", pinned: "42"},
		{name: "pinned to target", current: "40", target: "41", pinned: "41", ok: true},
		{name: "dotted newer", current: "9.3", target: "9.10", ok: true},
		{name: "non numeric", current: "40", target: "rawhide", ok: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckRelease(tt.current, tt.target, tt.pinned)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, ErrReleaseVersion), "err = %v", err)
		})
	}
}

func TestSetBENameIsImmutable(t *testing.T) {
	wc := NewWorkflowContext(Request{Mode: PackageUpdateToken})
	require.NotEmpty(t, wc.ID)
	require.NoError(t, wc.SetBEName("fedora41"))
	require.NoError(t, wc.SetBEName("fedora41"))
	assert.Error(t, wc.SetBEName("fedora42"))
	assert.Error(t, wc.SetBEName(""))
	assert.Equal(t, "fedora41", wc.BEName())
}

func TestParseModeToken(t *testing.T) {
	mode, err := ParseModeToken("sysupg")
	require.NoError(t, err)
	assert.Equal(t, SystemUpgradeToken, mode)

	_, err = ParseModeToken("upgrade")
	assert.Error(t, err)
}
