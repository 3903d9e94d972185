package content

import (
	"strconv"
	"strings"
)

// FormatCount abbreviates engagement counts: 999, 1.2K, 3.4M, 1.1B. One
// truncated decimal is kept and a trailing ".0" is dropped.
func FormatCount(n int64) string {
	sign, m := "", uint64(n)
	if n < 0 {
		// -(n+1) cannot overflow, so math.MinInt64 is handled too.
		sign, m = "-", uint64(-(n+1))+1
	}

	units := []struct {
		div    uint64
		suffix string
	}{
		{1_000_000_000, "B"},
		{1_000_000, "M"},
		{1_000, "K"},
	}
	for _, u := range units {
		if m >= u.div {
			tenths := m / (u.div / 10)
			s := strconv.FormatUint(tenths/10, 10) + "." + strconv.FormatUint(tenths%10, 10)
			return sign + strings.TrimSuffix(s, ".0") + u.suffix
		}
	}
	return sign + strconv.FormatUint(m, 10)
}
