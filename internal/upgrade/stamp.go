package upgrade

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// StampLayout formats BE name timestamps: year, day, month, hour, minute.
// Existing BE names carry this order, so it must not be "fixed" to year-month-day.
const StampLayout = "200602011504"

// stampPattern accepts the same digits strptime does for %Y%d%m%H%M,
// including single-digit day, month, hour and minute fields.
var stampPattern = regexp.MustCompile(`^(\d{4})(3[01]|[12]\d|0[1-9]|[1-9])(1[0-2]|0[1-9]|[1-9])(2[0-3]|[01]\d|\d)([0-5]\d|\d)$`)

// Stamp formats t for use as a BE name suffix.
func Stamp(t time.Time) string {
	return t.Format(StampLayout)
}

// ParseStamp parses a BE name suffix produced by Stamp.
func ParseStamp(s string) (time.Time, bool) {
	m := stampPattern.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	fields := make([]int, 5)
	for i := range fields {
		v, err := strconv.Atoi(m[i+1])
		if err != nil {
			return time.Time{}, false
		}
		fields[i] = v
	}
	year, day, month, hour, minute := fields[0], fields[1], fields[2], fields[3], fields[4]
	t := time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.Local)
	if t.Day() != day || t.Month() != time.Month(month) {
		return time.Time{}, false
	}
	return t, true
}

// UpdateName derives the BE name for a package update from source. A trailing
// "-<stamp>" on source is replaced rather than appended to, so repeated
// updates do not grow the name.
func UpdateName(source string, now time.Time) string {
	base := source
	if i := strings.LastIndex(source, "-"); i >= 0 {
		if _, ok := ParseStamp(source[i+1:]); ok {
			base = source[:i]
		}
	}
	return base + "-" + Stamp(now)
}

// SystemUpgradeName derives the BE name for a release upgrade, e.g. "fedora41".
func SystemUpgradeName(distroID string, release string) string {
	return strings.ToLower(strings.TrimSpace(distroID)) + release
}
